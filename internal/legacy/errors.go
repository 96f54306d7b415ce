package legacy

import (
	"fmt"
	"strings"
)

// MalformedInputError reports legacy data that violates the expected shape.
// Family and Unit name the offending entry when known.
type MalformedInputError struct {
	Family string
	Unit   string
	Line   int
	Reason string
}

func (e *MalformedInputError) Error() string {
	var where []string

	if e.Family != "" {
		where = append(where, fmt.Sprintf("family %q", e.Family))
	}

	if e.Unit != "" {
		where = append(where, fmt.Sprintf("unit %q", e.Unit))
	}

	msg := "malformed measurement configuration"
	if len(where) > 0 {
		msg += " at " + strings.Join(where, ", ")
	}

	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}

	return msg + ": " + e.Reason
}

func malformed(family, unit string, line int, format string, args ...any) *MalformedInputError {
	return &MalformedInputError{
		Family: family,
		Unit:   unit,
		Line:   line,
		Reason: fmt.Sprintf(format, args...),
	}
}
