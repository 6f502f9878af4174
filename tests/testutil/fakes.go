package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/fieldline/backend/internal/infrastructure/email"
)

// Mailer records sent messages instead of delivering them
type Mailer struct {
	mu   sync.Mutex
	sent []email.Message
	Err  error
}

func (m *Mailer) Send(_ context.Context, msg email.Message) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return fmt.Sprintf("msg-%d", len(m.sent)), nil
}

// Sent returns a copy of the recorded messages
func (m *Mailer) Sent() []email.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]email.Message(nil), m.sent...)
}

// PDFRenderer returns a fixed PDF header followed by the HTML it was given
type PDFRenderer struct {
	Err      error
	LastHTML string
}

func (r *PDFRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.LastHTML = html
	return []byte("%PDF-1.4 " + html), nil
}

func (r *PDFRenderer) Close() error { return nil }

var _ email.Sender = (*Mailer)(nil)
