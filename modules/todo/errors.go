package todo

import (
	"errors"
	"fmt"
)

// Sentinel errors for todo operations.
var (
	// ErrTodoNotFound is returned when the requested todo does not exist.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrGroupNotFound is returned when the requested group does not exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrInvalidParent is returned when a parent change would make a todo
	// its own ancestor.
	ErrInvalidParent = errors.New("todo cannot be a subtask of itself or of its own subtasks")
)

// OperationError carries a failure reported by a todo service across the
// service boundary.
type OperationError struct {
	Service string
	Message string
}

func (e *OperationError) Error() string {
	return e.Message
}

// storeMessage returns the innermost error text, which for storage
// failures is the driver's own message.
func storeMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func newOperationError(service string, message string) error {
	return &OperationError{Service: service, Message: message}
}

func serviceCallError(service string, err error) error {
	return fmt.Errorf("%s service call failed: %w", service, err)
}
