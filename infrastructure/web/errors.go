package web

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	ErrEmptyBody    = errors.New("request body is empty")
	ErrBodyTooLarge = errors.New("request body is too large")
)

// ErrorResponse is written when the framework itself rejects a request. Application
// errors are encoded by the caller's own error type.
type ErrorResponse struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func NewError(status int, msg string) ErrorResponse {
	return ErrorResponse{Status: status, Message: msg}
}

func (e ErrorResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(e)
	return data, "application/json; charset=utf-8", err
}

func (e ErrorResponse) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}
