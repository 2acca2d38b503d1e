package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/scry-study/internal/store"
)

// ServiceError adds the failing service and operation to an underlying error.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	msg := fmt.Sprintf("%s service %s operation failed", e.Service, e.Operation)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// StorageError wraps a failure from the store layer. The result always
// matches store.ErrPersistence, so callers see a retryable failure even when
// the store reported something more specific.
func StorageError(service, operation, message string, err error) error {
	if !errors.Is(err, store.ErrPersistence) {
		err = fmt.Errorf("%w: %w", store.ErrPersistence, err)
	}
	return NewServiceError(service, operation, message, err)
}
