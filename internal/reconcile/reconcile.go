package reconcile

import (
	"fmt"

	"measurement-migrator/internal/diagnostic"
	"measurement-migrator/internal/measure"
)

// Status codes the PIM reports for a successful write.
const (
	StatusCreated = 201
	StatusUpdated = 204
)

//go:generate go tool stringer -type=Outcome -trimprefix=Outcome -output=outcome_string.go

// Outcome is the classification of one result entry.
type Outcome int

const (
	_ Outcome = iota // zero value is not a valid outcome

	OutcomeCreated
	OutcomeUpdated
	OutcomeFailed
)

// Succeeded reports whether the outcome counts as created or updated.
func (o Outcome) Succeeded() bool {
	return o == OutcomeCreated || o == OutcomeUpdated
}

// Classify maps a result status code to an outcome.
func Classify(statusCode int) Outcome {
	switch statusCode {
	case StatusCreated:
		return OutcomeCreated
	case StatusUpdated:
		return OutcomeUpdated
	default:
		return OutcomeFailed
	}
}

// Entry is one classified result.
type Entry struct {
	Code       string
	StatusCode int
	Outcome    Outcome
}

// Summary counts the outcomes of a bulk upsert.
type Summary struct {
	Succeeded int
	Failed    int
	Entries   []Entry

	failures []*RemoteWriteError
}

// Count returns how many entries have the given outcome.
func (s Summary) Count(o Outcome) int {
	n := 0

	for _, e := range s.Entries {
		if e.Outcome == o {
			n++
		}
	}

	return n
}

// Errors returns one error per failed entry, in result order.
func (s Summary) Errors() []*RemoteWriteError {
	return s.failures
}

// Line is the human-readable summary line.
func (s Summary) Line() string {
	return fmt.Sprintf("Done (%d created or updated, %d error(s))", s.Succeeded, s.Failed)
}

// RemoteWriteError is a family the PIM refused to write.
type RemoteWriteError struct {
	Code       string
	StatusCode int
	Message    string
	Fields     []measure.FieldError
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("measurement family %q was not written (status %d): %s", e.Code, e.StatusCode, e.Message)
}

type options struct {
	alwaysSummarize bool
}

// Option configures Reconcile.
type Option func(*options)

// AlwaysSummarize emits the summary line even when nothing succeeded.
func AlwaysSummarize(on bool) Option {
	return func(o *options) {
		o.alwaysSummarize = on
	}
}

// Reconcile classifies every result in order. Failures are reported to sink
// as one error naming the family followed by one error per invalid field;
// they never stop the pass. The summary line is only reported when at least
// one family succeeded, unless AlwaysSummarize is set.
func Reconcile(results []measure.Result, sink diagnostic.Sink, opts ...Option) Summary {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if sink == nil {
		sink = diagnostic.Discard
	}

	summary := Summary{Entries: make([]Entry, 0, len(results))}

	for _, r := range results {
		outcome := Classify(r.StatusCode)
		summary.Entries = append(summary.Entries, Entry{Code: r.Code, StatusCode: r.StatusCode, Outcome: outcome})

		if outcome.Succeeded() {
			summary.Succeeded++
			continue
		}

		summary.Failed++
		summary.failures = append(summary.failures, &RemoteWriteError{
			Code:       r.Code,
			StatusCode: r.StatusCode,
			Message:    r.Message,
			Fields:     r.Errors,
		})

		sink.Error(fmt.Sprintf(`An error occurred during the import of the "%s" measurement family: "%s"`, r.Code, r.Message))

		for _, fe := range r.Errors {
			sink.Error(fmt.Sprintf(`Error on field "%s": "%s"`, fe.Property, fe.Message))
		}
	}

	if summary.Succeeded > 0 || (o.alwaysSummarize && len(results) > 0) {
		sink.Success(summary.Line())
	}

	return summary
}
