package servicedef

import "fmt"

// NotFoundError reports a missing service definition file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("service definition not found: %s", e.Path)
}

// ParseError reports a malformed definition file or a failed template pass.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
