package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ValidationError reports input the caller has to correct: a missing or
// dangling reference, malformed coordinates or an out of range value.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is enables errors.Is matching on ValidationError.
func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	if ok {
		return true
	}
	_, ok = target.(*ValidationError)
	return ok
}

// ErrValidation is the sentinel error for rejected input.
var ErrValidation = ValidationError{}

// KeyConflictError means a derived key is already held by another record in
// the same scope. For text contents the scope is the (source, book) pair.
type KeyConflictError struct {
	Key        string
	SourceCode string
	BookCode   string
	ExistingID string
}

func (e KeyConflictError) Error() string {
	if e.SourceCode == "" && e.BookCode == "" {
		return fmt.Sprintf("key %s is already taken by %s", e.Key, e.ExistingID)
	}
	return fmt.Sprintf(
		"unit key %s already exists for source %s and book %s (text content %s)",
		e.Key, e.SourceCode, e.BookCode, e.ExistingID,
	)
}

// Is enables errors.Is matching on KeyConflictError.
func (e KeyConflictError) Is(target error) bool {
	_, ok := target.(KeyConflictError)
	if ok {
		return true
	}
	_, ok = target.(*KeyConflictError)
	return ok
}

// ErrKeyConflict is the sentinel error for key collisions.
var ErrKeyConflict = KeyConflictError{}
