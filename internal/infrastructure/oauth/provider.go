// Package oauth wraps the OAuth2 authorization-code flow of the external
// providers (trade calendar, accounting).
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fieldline/backend/internal/domain/integration"
	"github.com/fieldline/backend/internal/infrastructure/config"
	"golang.org/x/oauth2"
)

// ErrProviderDisabled is returned for providers without configuration
var ErrProviderDisabled = errors.New("oauth provider is not configured")

// Provider runs the authorization-code flow for one external system
type Provider struct {
	name       integration.Provider
	config     *oauth2.Config
	httpClient *http.Client
	enabled    bool
}

// NewProvider builds a provider from its config section
func NewProvider(name integration.Provider, cfg config.OAuthProviderConfig) *Provider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Provider{
		name:    name,
		enabled: cfg.Enabled,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
			RedirectURL: cfg.RedirectURL,
			Scopes:      cfg.Scopes,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns the provider key
func (p *Provider) Name() integration.Provider { return p.name }

// Enabled reports whether the provider is configured
func (p *Provider) Enabled() bool { return p.enabled }

// AuthorizeURL returns the consent page URL carrying state
func (p *Provider) AuthorizeURL(state string) (string, error) {
	if !p.enabled {
		return "", ErrProviderDisabled
	}
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// Exchange trades an authorization code for tokens
func (p *Provider) Exchange(ctx context.Context, code string) (integration.Tokens, error) {
	if !p.enabled {
		return integration.Tokens{}, ErrProviderDisabled
	}
	tok, err := p.config.Exchange(p.clientContext(ctx), code)
	if err != nil {
		return integration.Tokens{}, fmt.Errorf("%s code exchange: %w", p.name, err)
	}
	return FromOAuth2(tok), nil
}

// TokenSource returns a source that refreshes the stored credentials when
// they expire
func (p *Provider) TokenSource(ctx context.Context, t integration.Tokens) oauth2.TokenSource {
	return p.config.TokenSource(p.clientContext(ctx), ToOAuth2(t))
}

func (p *Provider) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

// ToOAuth2 converts stored credentials to an oauth2 token
func ToOAuth2(t integration.Tokens) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

// FromOAuth2 converts an oauth2 token to stored credentials
func FromOAuth2(t *oauth2.Token) integration.Tokens {
	return integration.Tokens{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}
