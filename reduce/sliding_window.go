package reduce

import (
	"context"

	"github.com/rickchristie/winnow"
	"github.com/rickchristie/winnow/hooks"
)

// Window defaults, matched to the summarizer defaults in
// summarizer.go.
const (
	// DefaultWindowTriggerTurns is the transcript length at
	// which NewDefaultSlidingWindow starts trimming.
	DefaultWindowTriggerTurns = 100

	// DefaultWindowKeepTurns is how many tail turns
	// NewDefaultSlidingWindow retains.
	DefaultWindowKeepTurns = 50
)

// SlidingWindow reduces a transcript by discarding its oldest
// turns once a trigger condition fires, keeping the configured
// tail.
//
// The discarded prefix is simply dropped; no model is called,
// so Process never returns a non-nil error and costs nothing
// beyond the token counting done by trigger evaluation.
//
// The split point honors tool pairings: if the naive cut would
// separate a tool invocation from its result, the window
// widens (keeps more turns) until the cut is safe. In the
// degenerate case where every turn is entangled in one pairing
// chain, nothing is discarded on that invocation.
//
// Example:
//
//	// Trim to the last 50 turns once past 100.
//	window := reduce.NewSlidingWindow(winnow.Config{
//	    Trigger: []winnow.ContextSize{winnow.Messages(100)},
//	    Keep:    winnow.Messages(50),
//	})
type SlidingWindow struct {
	sizer    *winnow.Sizer
	registry *hooks.Registry
}

// NewSlidingWindow creates a SlidingWindow with the given
// configuration. Panics if cfg is invalid; see
// winnow.Config.Validate.
func NewSlidingWindow(
	cfg winnow.Config,
) *SlidingWindow {
	return &SlidingWindow{sizer: winnow.NewSizer(cfg)}
}

// NewDefaultSlidingWindow creates a SlidingWindow with the
// default tuning: trim to the last 50 turns once the
// transcript reaches 100.
func NewDefaultSlidingWindow() *SlidingWindow {
	return NewSlidingWindow(winnow.Config{
		Trigger: []winnow.ContextSize{
			winnow.Messages(DefaultWindowTriggerTurns),
		},
		Keep: winnow.Messages(DefaultWindowKeepTurns),
	})
}

// WithHooks sets the registry that receives reduction events.
func (w *SlidingWindow) WithHooks(
	registry *hooks.Registry,
) *SlidingWindow {
	w.registry = registry
	return w
}

// Process implements winnow.Processor. The returned error is
// always nil; the signature exists to satisfy the interface.
func (w *SlidingWindow) Process(
	ctx context.Context,
	transcript []winnow.Turn,
) ([]winnow.Turn, error) {
	reportOrphans(ctx, w.registry, transcript)

	cond, fired := w.sizer.FiredCondition(transcript)
	if !fired {
		return transcript, nil
	}
	reportTrigger(ctx, w.registry, w.sizer, transcript, cond)

	retain := w.sizer.RetentionCount(transcript)
	cut := winnow.SafeCutoff(transcript, retain)
	if cut <= 0 {
		return transcript, nil
	}

	reduced := transcript[cut:]
	reportReduced(
		ctx, w.registry, w.sizer,
		"sliding_window", cut, transcript, reduced,
	)
	return reduced, nil
}

// Compile-time check.
var _ winnow.Processor = (*SlidingWindow)(nil)
