// Package reduce provides the standard winnow.Processor
// implementations for keeping agent transcripts inside a
// model's context window.
//
// # Strategies
//
//   - [SlidingWindow]: drops the oldest turns outright once
//     the transcript passes its trigger
//   - [Summarizer]: replaces the oldest turns with a
//     model-generated digest turn
//
// Both share the same skeleton: evaluate the configured
// trigger conditions, resolve the keep target to a retention
// count, and split at the latest safe boundary so tool
// invocations are never separated from their results. They
// differ only in what happens to the discarded prefix.
//
// # Choosing a Strategy
//
// SlidingWindow is deterministic, free, and never fails; the
// cost is that dropped context is gone. Summarizer preserves
// a compressed account of the dropped turns at the price of
// one model call per reduction, and falls back to doing
// nothing (fail-open) when that call errors. A reasonable
// default is SlidingWindow for high-volume tool-heavy loops
// and Summarizer for long-running conversations where early
// decisions stay relevant.
package reduce
