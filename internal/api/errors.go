package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnauthorized marks an authentication failure (HTTP 401) from any private
// endpoint. Call sites treat it as a global signal: clear the session and land
// on the login view. Application-level rejections (2xx with status:false, 403,
// 404) do NOT wrap this sentinel.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a request-scoped server error. Message carries the server's
// error text verbatim so the UI can surface it unmodified.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	if e.Status == 401 {
		return ErrUnauthorized
	}
	return nil
}

// FieldErrors is a field-scoped server error: a mapping from field name to
// message, rendered next to the corresponding input.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return strings.Join(parts, "; ")
}

// AsFieldErrors extracts field-scoped errors from an error chain.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
