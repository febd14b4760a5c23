package cfdomain

import "fmt"

// FormatError describes an input record that is missing a required field or
// carries a value of the wrong shape.
type FormatError struct {
	Index      int
	Positioned bool
	Field      string
	Reason     string
}

func (e *FormatError) Error() string {
	if e.Positioned {
		return fmt.Sprintf("malformed record %d: %s %s", e.Index, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed record: %s %s", e.Field, e.Reason)
}

// NewFormatError builds a FormatError for the record at position index.
func NewFormatError(index int, field, reason string) *FormatError {
	return &FormatError{Index: index, Positioned: true, Field: field, Reason: reason}
}
