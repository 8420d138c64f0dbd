package outline

import (
	"errors"
	"fmt"
)

// ErrUnexpected marks a runtime failure during classification, such as
// malformed span data or a panic inside the document library.
var ErrUnexpected = errors.New("unexpected failure")

// ParseError reports a document that could not be opened or read.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
