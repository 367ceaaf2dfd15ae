package tt

import (
	"context"

	"github.com/rickchristie/winnow"
)

// -----------------------------------------------------------------------------
// RecordingHook - captures every reduction event for assertions
// -----------------------------------------------------------------------------

// RecordingHook implements all winnow hook interfaces and
// appends each received event to the matching slice.
type RecordingHook struct {
	TriggerFired    []winnow.TriggerFiredEvent
	Reduced         []winnow.ReducedEvent
	DigestFailed    []winnow.DigestFailedEvent
	OrphanedResults []winnow.OrphanedResultsEvent
}

// NewRecordingHook creates an empty RecordingHook.
func NewRecordingHook() *RecordingHook {
	return &RecordingHook{}
}

// OnTriggerFired implements winnow.TriggerFiredHook.
func (h *RecordingHook) OnTriggerFired(
	_ context.Context,
	event winnow.TriggerFiredEvent,
) {
	h.TriggerFired = append(h.TriggerFired, event)
}

// OnReduced implements winnow.ReducedHook.
func (h *RecordingHook) OnReduced(
	_ context.Context,
	event winnow.ReducedEvent,
) {
	h.Reduced = append(h.Reduced, event)
}

// OnDigestFailed implements winnow.DigestFailedHook.
func (h *RecordingHook) OnDigestFailed(
	_ context.Context,
	event winnow.DigestFailedEvent,
) {
	h.DigestFailed = append(h.DigestFailed, event)
}

// OnOrphanedResults implements winnow.OrphanedResultsHook.
func (h *RecordingHook) OnOrphanedResults(
	_ context.Context,
	event winnow.OrphanedResultsEvent,
) {
	h.OrphanedResults = append(h.OrphanedResults, event)
}

// Compile-time checks.
var (
	_ winnow.TriggerFiredHook    = (*RecordingHook)(nil)
	_ winnow.ReducedHook         = (*RecordingHook)(nil)
	_ winnow.DigestFailedHook    = (*RecordingHook)(nil)
	_ winnow.OrphanedResultsHook = (*RecordingHook)(nil)
)
