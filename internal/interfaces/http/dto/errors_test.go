package dto

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeAccountInactive, http.StatusForbidden},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientCredits, http.StatusBadRequest},
		{ErrCodeEmailUnavailable, http.StatusServiceUnavailable},
		{ErrCodeSMSUnavailable, http.StatusServiceUnavailable},
		{ErrCodeSMSFailed, http.StatusBadGateway},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"FORBIDDEN", ErrCodeForbidden},
		{"INSUFFICIENT_CREDITS", ErrCodeInsufficientCredits},
		{"SMS_FAILED", ErrCodeSMSFailed},
		{"INTEGRATION_UNAVAILABLE", ErrCodeIntegrationUnavailable},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestDomainCodesHaveStatus(t *testing.T) {
	for domainCode, apiCode := range domainErrorCodes {
		_, ok := ErrorCodeHTTPStatus[apiCode]
		assert.True(t, ok, "%s maps to %s which has no HTTP status", domainCode, apiCode)
	}
}

func TestEnvelopeFieldNames(t *testing.T) {
	snake := regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)

	bodies := []Response{
		NewSuccessResponseWithMeta([]string{"a"}, 41, 2, 20),
		NewValidationErrorResponse("bad", "req-1", []ValidationDetail{{Field: "title", Message: "required"}}),
	}
	for _, b := range bodies {
		data, err := json.Marshal(b)
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		walkKeys(decoded, func(k string) {
			assert.Regexp(t, snake, k)
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	r := NewSuccessResponseWithMeta(nil, 41, 2, 20)
	require.NotNil(t, r.Meta)
	assert.Equal(t, 3, r.Meta.TotalPages)

	r = NewSuccessResponseWithMeta(nil, 0, 1, 0)
	assert.Equal(t, 0, r.Meta.TotalPages)
}

func walkKeys(v any, fn func(string)) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			fn(k)
			walkKeys(child, fn)
		}
	case []any:
		for _, child := range t {
			walkKeys(child, fn)
		}
	}
}
