package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// ErrColumnNotFound means a required column header is missing from a table.
// Matched with errors.Is against a ColumnNotFoundError.
var ErrColumnNotFound = errors.New("column not found")

// ColumnNotFoundError carries the missing column name and the headers that
// are actually present, so the caller can self-diagnose a misconfigured
// column name.
type ColumnNotFoundError struct {
	Column  string
	Headers []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found (available: %s)",
		e.Column, strings.Join(e.Headers, ", "))
}

// Is makes errors.Is(err, ErrColumnNotFound) succeed.
func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}
