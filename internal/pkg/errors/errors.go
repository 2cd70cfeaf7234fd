package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownAchievement is returned for achievement ids absent from the catalog.
	ErrUnknownAchievement = errors.New("unknown achievement")
)

// DuplicateConfigurationError signals that a save attempt carries a fingerprint
// already owned by an existing entity. It is a short-circuit, not a hard
// failure: callers surface the existing entity so the UI can link to it.
type DuplicateConfigurationError struct {
	Fingerprint string
	EntityKind  string
	EntityID    uuid.UUID
	Title       string
}

func (e *DuplicateConfigurationError) Error() string {
	return fmt.Sprintf("configuration already saved as %s %s (fingerprint %s)", e.EntityKind, e.EntityID, e.Fingerprint)
}

// AsDuplicateConfiguration unwraps err into a DuplicateConfigurationError if possible.
func AsDuplicateConfiguration(err error) (*DuplicateConfigurationError, bool) {
	var dup *DuplicateConfigurationError
	if errors.As(err, &dup) {
		return dup, true
	}
	return nil, false
}
