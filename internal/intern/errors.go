package intern

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrAlreadyInitialized is returned by Configure once the default registry exists.
var ErrAlreadyInitialized = errors.New("default registry already initialized")

// UnresolvedIDError is the panic value raised when a handle is requested for
// an id the registry never produced.
type UnresolvedIDError struct {
	ID       ID
	Registry uuid.UUID
}

func (e *UnresolvedIDError) Error() string {
	return fmt.Sprintf("uninterned id %s referenced (registry %s)", e.ID, e.Registry)
}
