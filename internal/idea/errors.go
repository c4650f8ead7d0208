package idea

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that the document file does not exist
	ErrNotFound = errors.New("document not found")

	// ErrParse indicates that the document could not be read or is not well-formed XML
	ErrParse = errors.New("document could not be parsed")
)

// LoadError describes why a document could not be loaded
type LoadError struct {
	Path string
	Kind error
	Err  error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Err)
}

// Unwrap returns the underlying cause
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *LoadError) Is(target error) bool {
	return target == e.Kind
}
