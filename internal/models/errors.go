package models

import (
	"fmt"
	"strings"
)

// ReadError reports a file that could not be read or decoded,
// including corrupt compressed streams.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ParseError reports malformed metadata: invalid JSON or a flat-file
// line that does not have the key = value shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingFieldError reports a mandatory provenance attribute absent
// from a metadata file.
type MissingFieldError struct {
	Path  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing mandatory field %q", e.Path, e.Field)
}

// IncompleteGroupError reports a file group with one or more required
// members absent. The group is dropped; never partially emitted.
type IncompleteGroupError struct {
	BaseName string
	Variant  SchemaVariant
	Missing  []string
}

func (e *IncompleteGroupError) Error() string {
	return fmt.Sprintf("group %s (%s): missing members: %s",
		e.BaseName, e.Variant, strings.Join(e.Missing, ", "))
}
