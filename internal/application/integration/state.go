package integration

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"

	"github.com/fieldline/backend/internal/domain/integration"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// stateTTL bounds how long a consent screen may stay open
const stateTTL = 15 * time.Minute

var errInvalidState = shared.InvalidInput("authorization state is invalid or expired")

// oauthState binds a callback to the user and organization that started it
type oauthState struct {
	OrganizationID uuid.UUID            `json:"org"`
	UserID         uuid.UUID            `json:"sub"`
	Provider       integration.Provider `json:"prv"`
	ExpiresAt      int64                `json:"exp"`
	Nonce          string               `json:"n"`
}

// stateSigner encodes states as payload.signature, both base64url
type stateSigner struct {
	key []byte
	now func() time.Time
}

func (s stateSigner) sign(st oauthState) (string, error) {
	st.ExpiresAt = s.now().Add(stateTTL).Unix()
	st.Nonce = uuid.NewString()
	payload, err := json.Marshal(st)
	if err != nil {
		return "", err
	}
	p := base64.RawURLEncoding.EncodeToString(payload)
	return p + "." + base64.RawURLEncoding.EncodeToString(s.mac(p)), nil
}

func (s stateSigner) verify(raw string) (oauthState, error) {
	p, sig, ok := strings.Cut(raw, ".")
	if !ok {
		return oauthState{}, errInvalidState
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(got, s.mac(p)) {
		return oauthState{}, errInvalidState
	}
	payload, err := base64.RawURLEncoding.DecodeString(p)
	if err != nil {
		return oauthState{}, errInvalidState
	}
	var st oauthState
	if err := json.Unmarshal(payload, &st); err != nil {
		return oauthState{}, errInvalidState
	}
	if s.now().Unix() > st.ExpiresAt {
		return oauthState{}, errInvalidState
	}
	return st, nil
}

func (s stateSigner) mac(payload string) []byte {
	m := hmac.New(sha256.New, s.key)
	m.Write([]byte(payload))
	return m.Sum(nil)
}
