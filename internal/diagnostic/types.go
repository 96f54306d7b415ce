package diagnostic

import (
	"errors"
	"strings"
)

// Sink receives human-readable diagnostics. The mapper and the reconciler
// only ever talk to a Sink, never to a terminal.
type Sink interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Success(msg string)
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Severity Severity
	Message  string
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	return "[" + d.Severity.String() + "] " + d.Message
}

// Diagnostics is a Sink that keeps every diagnostic in emission order.
type Diagnostics struct {
	items []Diagnostic
}

var _ Sink = (*Diagnostics)(nil)

// Info records an info diagnostic.
func (d *Diagnostics) Info(msg string) { d.add(SeverityInfo, msg) }

// Warn records a warning diagnostic.
func (d *Diagnostics) Warn(msg string) { d.add(SeverityWarning, msg) }

// Error records an error diagnostic.
func (d *Diagnostics) Error(msg string) { d.add(SeverityError, msg) }

// Success records a success diagnostic.
func (d *Diagnostics) Success(msg string) { d.add(SeveritySuccess, msg) }

func (d *Diagnostics) add(s Severity, msg string) {
	d.items = append(d.items, Diagnostic{Severity: s, Message: msg})
}

// All returns every diagnostic in the order it was emitted.
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Len returns the number of recorded diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.items)
}

// Errors returns the error diagnostics.
func (d *Diagnostics) Errors() []Diagnostic {
	return d.filter(SeverityError)
}

// Warnings returns the warning diagnostics.
func (d *Diagnostics) Warnings() []Diagnostic {
	return d.filter(SeverityWarning)
}

func (d *Diagnostics) filter(s Severity) []Diagnostic {
	var out []Diagnostic

	for _, item := range d.items {
		if item.Severity == s {
			out = append(out, item)
		}
	}

	return out
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors()) > 0
}

// Messages returns the bare messages in emission order.
func (d *Diagnostics) Messages() []string {
	out := make([]string, 0, len(d.items))
	for _, item := range d.items {
		out = append(out, item.Message)
	}

	return out
}

// Err returns a combined error from all error diagnostics, or nil.
func (d *Diagnostics) Err() error {
	errs := d.Errors()
	if len(errs) == 0 {
		return nil
	}

	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Message)
	}

	return errors.New(strings.Join(parts, "; "))
}
