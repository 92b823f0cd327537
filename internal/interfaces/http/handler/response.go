package handler

import "github.com/partnerpro/product-manager/internal/interfaces/http/dto"

// APIResponse documents the envelope written by BaseHandler for a payload of type T.
// Handlers never build it directly; it only feeds the swagger annotations.
type APIResponse[T any] struct {
	Success bool           `json:"success" example:"true"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the envelope of every failed request
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}

type CountData struct {
	Count int64 `json:"count" example:"3"`
}
