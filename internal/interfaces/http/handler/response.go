package handler

import "github.com/fieldline/backend/internal/interfaces/http/dto"

// APIResponse is the envelope every JSON endpoint returns, typed for the
// generated API docs. Lists carry pagination in Meta.
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse documents failed requests. Error.RequestID matches the
// X-Request-ID response header.
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}
