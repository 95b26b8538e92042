package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// NoResponse tells Respond that the handler already wrote the response.
type NoResponse struct{}

func NewNoResponse() NoResponse {
	return NoResponse{}
}

func (NoResponse) Encode() ([]byte, string, error) {
	return nil, "", nil
}

// JSONResponse encodes Data as JSON with Status, 200 when zero.
type JSONResponse[T any] struct {
	Data   T
	Status int
}

func NewJSONResponse[T any](data T) *JSONResponse[T] {
	return &JSONResponse[T]{Data: data}
}

func NewJSONResponseWithStatus[T any](data T, status int) *JSONResponse[T] {
	return &JSONResponse[T]{Data: data, Status: status}
}

func (j *JSONResponse[T]) Encode() ([]byte, string, error) {
	data, err := json.Marshal(j.Data)
	if err != nil {
		return nil, "", err
	}
	return data, "application/json; charset=utf-8", nil
}

func (j *JSONResponse[T]) HTTPStatus() int {
	if j.Status == 0 {
		return http.StatusOK
	}
	return j.Status
}

// StatusOf is the status Respond writes for resp.
func StatusOf(resp Encoder) int {
	switch v := resp.(type) {
	case nil:
		return http.StatusNoContent
	case interface{ HTTPStatus() int }:
		return v.HTTPStatus()
	case error:
		return http.StatusInternalServerError
	}
	return http.StatusOK
}

// Respond writes resp. A nil resp is 204 No Content. Nothing is written once the client
// has gone away.
func Respond(ctx context.Context, w http.ResponseWriter, resp Encoder) error {
	if _, ok := resp.(NoResponse); ok {
		return nil
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return errors.New("client disconnected, do not send response")
	}

	status := StatusOf(resp)
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return nil
	}

	data, contentType, err := resp.Encode()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return fmt.Errorf("respond: encode: %w", err)
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("respond: write: %w", err)
	}
	return nil
}
