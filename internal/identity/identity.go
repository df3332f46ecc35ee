// Package identity supplies unique identifiers for new records. The
// engine never creates records, so generation is an injected capability
// of handlers and workers.
package identity

import "github.com/google/uuid"

// Generator produces a fresh unique id string per call.
type Generator func() string

// NewUUID returns a Generator backed by random UUIDs.
func NewUUID() Generator {
	return uuid.NewString
}
