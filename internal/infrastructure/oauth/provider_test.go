package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/fieldline/backend/internal/domain/integration"
	"github.com/fieldline/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_AuthorizeURL(t *testing.T) {
	p := NewProvider(integration.ProviderTradeCalendar, config.OAuthProviderConfig{
		Enabled:     true,
		ClientID:    "client",
		AuthURL:     "https://calendar.example.com/oauth/authorize",
		TokenURL:    "https://calendar.example.com/oauth/token",
		RedirectURL: "https://app.example.com/integrations/callback",
		Scopes:      []string{"jobs.read"},
	})

	raw, err := p.AuthorizeURL("state-123")
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "calendar.example.com", u.Host)
	assert.Equal(t, "state-123", u.Query().Get("state"))
	assert.Equal(t, "client", u.Query().Get("client_id"))
	assert.Equal(t, "jobs.read", u.Query().Get("scope"))
	assert.Equal(t, "offline", u.Query().Get("access_type"))
}

func TestProvider_Disabled(t *testing.T) {
	p := NewProvider(integration.ProviderAccounting, config.OAuthProviderConfig{})
	_, err := p.AuthorizeURL("s")
	assert.ErrorIs(t, err, ErrProviderDisabled)
	_, err = p.Exchange(context.Background(), "code")
	assert.ErrorIs(t, err, ErrProviderDisabled)
}

func TestProvider_Exchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "abc", r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	p := NewProvider(integration.ProviderAccounting, config.OAuthProviderConfig{
		Enabled:  true,
		ClientID: "client", ClientSecret: "secret",
		AuthURL: srv.URL + "/authorize", TokenURL: srv.URL + "/token",
	})
	tokens, err := p.Exchange(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "at", tokens.AccessToken)
	assert.Equal(t, "rt", tokens.RefreshToken)
	assert.False(t, tokens.Expiry.IsZero())
}
