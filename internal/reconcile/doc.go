// Package reconcile classifies the per-family results of a bulk upsert and
// reports failures through a diagnostic sink.
package reconcile
