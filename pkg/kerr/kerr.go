// Package kerr defines the closed set of error kinds surfaced across the
// tree store, hook manager, logger and coordinator, following the
// sentinel-plus-wrapped-struct pattern used elsewhere in this module's
// ancestry (see pkg/provider/errors.go in the retrieval pack this repo
// grew out of).
package kerr

import (
	"errors"
	"fmt"
)

// Kind is a closed enumeration of the error categories a caller of the
// coordinator may need to branch on.
type Kind string

const (
	// InvalidRoot is returned when a configured root table name is malformed.
	InvalidRoot Kind = "InvalidRoot"

	// InvalidKey is returned when a key fails validation or addresses a
	// slot of the wrong variant.
	InvalidKey Kind = "InvalidKey"

	// InternalError covers defensive cases that should be unreachable
	// given the invariants the tree store otherwise maintains.
	InternalError Kind = "InternalError"

	// InactiveHookManager is returned when a hook operation is requested
	// but no hook manager was subscribed to the coordinator.
	InactiveHookManager Kind = "InactiveHookManager"

	// LogError covers failures reported by the durable logger.
	LogError Kind = "LogError"

	// ReplicationError is reserved for a future replication component.
	ReplicationError Kind = "ReplicationError"
)

// Error is the wrapped error type carried across package boundaries.
type Error struct {
	Kind    Kind
	Message string
}

// New builds an *Error for the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var ke *Error
	if errors.As(err, &ke) {
		return ke.Kind == kind
	}
	return false
}
