package integration

import (
	"context"
	"errors"
	"strings"
	"time"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/integration"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrProviderUnavailable is returned for providers that are not configured
var ErrProviderUnavailable = shared.NewDomainError("INTEGRATION_UNAVAILABLE", "This integration is not configured")

// Service manages provider connections. Calendar connections belong to the
// user who made them; the accounting connection belongs to the organization
// and is managed by admins.
type Service struct {
	connections integration.Repository
	providers   map[integration.Provider]OAuthProvider
	calendar    CredentialCache
	access      *appidentity.Access
	state       stateSigner
	logger      *zap.Logger
}

// NewService creates an integration service. stateKey signs the OAuth state
// parameter; calendar may be nil.
func NewService(
	connections integration.Repository,
	providers []OAuthProvider,
	calendar CredentialCache,
	access *appidentity.Access,
	stateKey []byte,
	logger *zap.Logger,
) *Service {
	byName := make(map[integration.Provider]OAuthProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Service{
		connections: connections,
		providers:   byName,
		calendar:    calendar,
		access:      access,
		state:       stateSigner{key: stateKey, now: time.Now},
		logger:      logger,
	}
}

// List returns the organization's accounting connection and the caller's
// own calendar connection
func (s *Service) List(ctx context.Context, userID, orgID uuid.UUID) ([]integration.Connection, error) {
	if _, err := s.access.Member(ctx, orgID, userID); err != nil {
		return nil, err
	}
	all, err := s.connections.ListForOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	out := make([]integration.Connection, 0, len(all))
	for _, c := range all {
		if c.Provider == integration.ProviderTradeCalendar && c.UserID != userID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Authorize starts the consent flow and returns the provider URL
func (s *Service) Authorize(ctx context.Context, userID, orgID uuid.UUID, name integration.Provider) (*Authorization, error) {
	p, err := s.provider(name)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, userID, orgID, name); err != nil {
		return nil, err
	}
	state, err := s.state.sign(oauthState{OrganizationID: orgID, UserID: userID, Provider: name})
	if err != nil {
		return nil, err
	}
	url, err := p.AuthorizeURL(state)
	if err != nil {
		return nil, err
	}
	return &Authorization{URL: url, State: state}, nil
}

// Connect completes the consent flow and stores the tokens. Reconnecting
// replaces the tokens of the existing connection.
func (s *Service) Connect(ctx context.Context, userID uuid.UUID, in ConnectInput) (*integration.Connection, error) {
	p, err := s.provider(in.Provider)
	if err != nil {
		return nil, err
	}
	st, err := s.state.verify(in.State)
	if err != nil {
		return nil, err
	}
	if st.UserID != userID || st.Provider != in.Provider {
		return nil, errInvalidState
	}
	if strings.TrimSpace(in.Code) == "" {
		return nil, shared.InvalidInput("code is required")
	}
	if err := s.checkAccess(ctx, userID, st.OrganizationID, in.Provider); err != nil {
		return nil, err
	}

	tokens, err := p.Exchange(ctx, in.Code)
	if err != nil {
		s.logger.Warn("OAuth code exchange failed",
			zap.String("provider", string(in.Provider)),
			zap.Error(err))
		return nil, shared.InvalidInput("the provider rejected the authorization code")
	}

	var existing *integration.Connection
	if in.Provider == integration.ProviderTradeCalendar {
		existing, err = s.connections.FindForUser(ctx, userID, in.Provider)
	} else {
		existing, err = s.connections.FindForOrganization(ctx, st.OrganizationID, in.Provider)
	}
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	conn := existing
	if conn == nil {
		if conn, err = integration.NewConnection(st.OrganizationID, userID, in.Provider, tokens); err != nil {
			return nil, err
		}
	} else {
		conn.OrganizationID = st.OrganizationID
		conn.UserID = userID
		conn.SetTokens(tokens)
	}
	if err := s.connections.Save(ctx, conn); err != nil {
		return nil, err
	}
	s.forget(conn)
	s.logger.Info("Integration connected",
		zap.String("integration_id", conn.ID.String()),
		zap.String("provider", string(conn.Provider)),
		zap.String("organization_id", conn.OrganizationID.String()))
	return conn, nil
}

// Update changes the sync flags of an accounting connection
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, flags integration.SyncFlags) (*integration.Connection, error) {
	conn, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := conn.ApplySyncFlags(flags); err != nil {
		return nil, err
	}
	if err := s.connections.Save(ctx, conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Delete disconnects and clears the stored credentials
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	conn, err := s.load(ctx, userID, id)
	if err != nil {
		return err
	}
	conn.Disconnect()
	if err := s.connections.Save(ctx, conn); err != nil {
		return err
	}
	s.forget(conn)
	s.logger.Info("Integration disconnected",
		zap.String("integration_id", conn.ID.String()),
		zap.String("provider", string(conn.Provider)))
	return nil
}

func (s *Service) load(ctx context.Context, userID, id uuid.UUID) (*integration.Connection, error) {
	conn, err := s.connections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conn.Provider == integration.ProviderTradeCalendar && conn.UserID != userID {
		return nil, shared.NotFound("Integration")
	}
	if err := s.checkAccess(ctx, userID, conn.OrganizationID, conn.Provider); err != nil {
		return nil, err
	}
	return conn, nil
}

func (s *Service) checkAccess(ctx context.Context, userID, orgID uuid.UUID, name integration.Provider) error {
	if name == integration.ProviderAccounting {
		_, err := s.access.RequireAdmin(ctx, orgID, userID)
		return err
	}
	_, err := s.access.Member(ctx, orgID, userID)
	return err
}

func (s *Service) provider(name integration.Provider) (OAuthProvider, error) {
	if !name.IsValid() {
		return nil, shared.InvalidInput("provider is not supported")
	}
	p, ok := s.providers[name]
	if !ok || !p.Enabled() {
		return nil, ErrProviderUnavailable
	}
	return p, nil
}

func (s *Service) forget(conn *integration.Connection) {
	if s.calendar != nil && conn.Provider == integration.ProviderTradeCalendar {
		s.calendar.Forget(conn.UserID)
	}
}
