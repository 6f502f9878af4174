package sms

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldline/backend/internal/infrastructure/config"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(url string) *Client {
	return NewClient(config.SMSConfig{
		BaseURL:       url,
		APIKey:        "key",
		APISecret:     "secret",
		SenderID:      "Fieldline",
		RatePerSecond: 100,
	}, zap.NewNop())
}

func TestClient_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		var req sendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "+61412345678", req.To)
		assert.Equal(t, "Fieldline", req.From)
		assert.NotEmpty(t, req.Ref)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message_id":"msg-1","status":"queued"}`))
	}))
	defer srv.Close()

	id, err := newTestClient(srv.URL).Send(context.Background(), "+61412345678", "On our way")
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
}

func TestClient_SendGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"number not mobile","code":"INVALID_TO"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Send(context.Background(), "+61212345678", "hi")
	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusUnprocessableEntity, gwErr.StatusCode)
	assert.Equal(t, "INVALID_TO", gwErr.Code)
}

func TestClient_NotConfigured(t *testing.T) {
	_, err := NewClient(config.SMSConfig{}, zap.NewNop()).Send(context.Background(), "+61412345678", "hi")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"message_id":"msg-1","status":"delivered"}`)
	sig := Sign("whsec", body)

	assert.NoError(t, VerifySignature("whsec", body, sig))
	assert.NoError(t, VerifySignature("whsec", body, "sha256="+sig))
	assert.ErrorIs(t, VerifySignature("whsec", body, ""), ErrMissingSignature)
	assert.ErrorIs(t, VerifySignature("whsec", body, "zz"), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature("other", body, sig), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature("whsec", append(body, ' '), sig), ErrInvalidSignature)
}

func TestParseDeliveryReport(t *testing.T) {
	r, err := ParseDeliveryReport([]byte(`{"message_id":"msg-1","status":"Delivered"}`))
	require.NoError(t, err)
	assert.Equal(t, "msg-1:delivered", r.EventID)
	assert.False(t, r.Timestamp.IsZero())

	_, err = ParseDeliveryReport([]byte(`{"status":"delivered"}`))
	assert.Error(t, err)
	_, err = ParseDeliveryReport([]byte(`not json`))
	assert.Error(t, err)
}
