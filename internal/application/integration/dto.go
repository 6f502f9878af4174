// Package integration connects organizations and users to external
// providers through the OAuth2 authorization-code flow.
package integration

import (
	"context"

	"github.com/fieldline/backend/internal/domain/integration"
	"github.com/google/uuid"
)

// OAuthProvider is the part of an OAuth2 provider the connect flow uses
type OAuthProvider interface {
	Name() integration.Provider
	Enabled() bool
	AuthorizeURL(state string) (string, error)
	Exchange(ctx context.Context, code string) (integration.Tokens, error)
}

// CredentialCache drops cached credentials of a user after they change
type CredentialCache interface {
	Forget(userID uuid.UUID)
}

// ConnectInput is the provider callback relayed by the client app
type ConnectInput struct {
	Provider integration.Provider
	Code     string
	State    string
}

// Authorization is where to send the user to grant access
type Authorization struct {
	URL   string `json:"url"`
	State string `json:"state"`
}
