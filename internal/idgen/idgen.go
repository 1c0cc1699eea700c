// Package idgen generates request identifiers backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// RequestPrefix is prepended to generated request IDs.
const RequestPrefix = "req-"

const (
	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	length   = 12
)

// RequestID returns a new request ID such as "req-Xb3k9QpL0aZt".
func RequestID() (string, error) {
	id, err := nanoid.Generate(alphabet, length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return RequestPrefix + id, nil
}

// MustRequestID is RequestID for callers that cannot surface an error.
// Falls back to the bare prefix if the entropy source fails.
func MustRequestID() string {
	id, err := RequestID()
	if err != nil {
		return RequestPrefix + "unknown"
	}
	return id
}
