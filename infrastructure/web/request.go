package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps what Decode reads from a request body.
const MaxBodyBytes = 1 << 20

// Param returns a path wildcard, e.g. {event_id}.
func Param(r *http.Request, key string) string {
	return r.PathValue(key)
}

func QueryParam(r *http.Request, key string) string {
	return r.URL.Query().Get(key)
}

// Decode reads a JSON body into v and runs v.Validate when v has one. Validation
// failures are prefixed "validation:".
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	switch {
	case err != nil:
		return fmt.Errorf("read body: %w", err)
	case len(data) == 0:
		return ErrEmptyBody
	case len(data) > MaxBodyBytes:
		return ErrBodyTooLarge
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	if val, ok := v.(interface{ Validate() error }); ok {
		if err := val.Validate(); err != nil {
			return fmt.Errorf("validation: %w", err)
		}
	}
	return nil
}
