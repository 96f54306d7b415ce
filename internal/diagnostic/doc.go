// Package diagnostic provides the structured warnings, errors and summary
// messages produced while migrating measurement families.
//
// Key capabilities:
//   - A Sink interface the mapper and reconciler report through
//   - An ordered in-memory collector (Diagnostics)
//   - Fan-out to several sinks (Tee) and a no-op sink (Discard)
package diagnostic
