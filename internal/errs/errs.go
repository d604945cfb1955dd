// Package errs holds the error taxonomy shared by every knockoff package.
// Callers add context with fmt.Errorf("...: %w", err) and test with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration       = errors.New("configuration error")
	ErrCyclicGraph         = errors.New("dependency graph contains a cycle")
	ErrDependencyNotFound  = errors.New("dependency not found")
	ErrAttemptLimitReached = errors.New("attempt limit reached")
	ErrFactoryNotFound     = errors.New("factory not found")
	ErrResourceNotFound    = errors.New("resource not found")
	ErrNoEntryPointGroup   = errors.New("no such registry namespace")
	ErrNotBuilt            = errors.New("not built yet")

	ErrDuplicateNode        = fmt.Errorf("%w: duplicate node", ErrConfiguration)
	ErrUnrecognizedStrategy = fmt.Errorf("%w: unrecognized strategy", ErrConfiguration)
	ErrPatternMismatch      = fmt.Errorf("%w: dependency does not match pattern", ErrConfiguration)
)

// ResourceError reports a failed registry lookup.
type ResourceError struct {
	Namespace string
	Key       string
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource %q not found in namespace %q", e.Key, e.Namespace)
}

func (e *ResourceError) Unwrap() error { return ErrResourceNotFound }

// NewResourceNotFound returns an error matching ErrResourceNotFound that names
// the namespace and key that were looked up.
func NewResourceNotFound(namespace, key string) error {
	return &ResourceError{Namespace: namespace, Key: key}
}

// AttemptLimit wraps ErrAttemptLimitReached with the owning unit and budget.
func AttemptLimit(owner string, limit int) error {
	return fmt.Errorf("%w: %s exhausted %d attempts", ErrAttemptLimitReached, owner, limit)
}
