// Package spell overlays asynchronous spell-check annotations onto a
// doctree document without corrupting its content or blocking editing.
//
// The pipeline: an edit pokes the Scheduler, which debounces into a single
// trailing check, consults the normalized-text Cache, and otherwise asks a
// Checker. Results are stamped with the document version at issue time;
// the Reconciler discards anything that went stale and translates the
// surviving flat-text error spans into minimal leaf splits via the offset
// index.
package spell
