package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrTransport marks failures to reach the backend or to read its reply
var ErrTransport = errors.New("network error")

// AppError is a structured failure reported by the backend
type AppError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		return strings.Join(parts, "; ")
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// HasFields reports whether per-field errors are present
func (e *AppError) HasFields() bool {
	return len(e.Fields) > 0
}

// AsAppError unwraps err into an *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsTransport reports whether err is a transport failure
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

func transportError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrTransport, err)
}
