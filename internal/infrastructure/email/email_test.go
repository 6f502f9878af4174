package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldline/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestResendSender_Send(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "email_123"})
	}))
	defer srv.Close()

	s, err := NewResendSender(config.EmailConfig{
		Enabled: true,
		APIKey:  "re_test",
		From:    "Fieldline <noreply@example.com>",
		ReplyTo: "office@example.com",
		BaseURL: srv.URL,
	}, zap.NewNop())
	require.NoError(t, err)

	id, err := s.Send(context.Background(), Message{
		To:          []string{"jo@example.com"},
		Subject:     "Invoice INV-00001",
		HTML:        "<p>Attached</p>",
		Attachments: []Attachment{{Filename: "INV-00001.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "email_123", id)
	assert.Equal(t, "Invoice INV-00001", got["subject"])
	assert.Equal(t, "office@example.com", got["reply_to"])
	attachments, ok := got["attachments"].([]interface{})
	require.True(t, ok)
	assert.Len(t, attachments, 1)
}

func TestMessageValidation(t *testing.T) {
	s := &LogSender{logger: zap.NewNop()}
	_, err := s.Send(context.Background(), Message{Subject: "x"})
	assert.Error(t, err)
	_, err = s.Send(context.Background(), Message{To: []string{"not-an-address"}, Subject: "x"})
	assert.Error(t, err)
}

func TestNewSender(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	s, err := NewSender(config.EmailConfig{Fallback: true}, zap.New(core))
	require.NoError(t, err)
	id, err := s.Send(context.Background(), Message{To: []string{"jo@example.com"}, Subject: "Report"})
	require.NoError(t, err)
	assert.Contains(t, id, "logged-")
	assert.Equal(t, 1, logs.FilterMessage("email delivery disabled, message logged").Len())

	s, err = NewSender(config.EmailConfig{}, zap.NewNop())
	require.NoError(t, err)
	_, err = s.Send(context.Background(), Message{To: []string{"jo@example.com"}, Subject: "Report"})
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = NewSender(config.EmailConfig{Enabled: true}, zap.NewNop())
	assert.Error(t, err)
}

func TestTemplates(t *testing.T) {
	html, err := RenderInvoiceEmail(InvoiceEmail{
		OrganizationName: "Bright Spark",
		ClientName:       "<Jo>",
		InvoiceNumber:    "INV-00009",
		Total:            "$287.00",
		DueDate:          "15 Mar 2026",
		PublicURL:        "https://app.example.com/public/invoice/1?token=abc",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "&lt;Jo&gt;")
	assert.Contains(t, html, "INV-00009")
	assert.Contains(t, html, `href="https://app.example.com/public/invoice/1?token=abc"`)

	html, err = RenderReportEmail(ReportEmail{OrganizationName: "Bright Spark", JobTitle: "Switchboard"})
	require.NoError(t, err)
	assert.Contains(t, html, "Hi there")
	assert.NotContains(t, html, "href")
}
