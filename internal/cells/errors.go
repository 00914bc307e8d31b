package cells

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrConflictingOptions is returned when an update asks for both
	// Exclude and Replace.
	ErrConflictingOptions = errors.New("cells: exclude and replace are mutually exclusive")

	// ErrUnknownValue is matched by every *UnknownCellValueError.
	ErrUnknownValue = errors.New("cells: unknown cell value")
)

// UnknownCellValueError reports a color or state key missing from a table.
type UnknownCellValueError struct {
	Value string
	Known []string
}

func (e *UnknownCellValueError) Error() string {
	known := append([]string(nil), e.Known...)
	sort.Strings(known)
	return fmt.Sprintf("cells: unknown cell value %q (known: %s)", e.Value, strings.Join(known, ", "))
}

func (e *UnknownCellValueError) Is(target error) bool {
	return target == ErrUnknownValue
}
