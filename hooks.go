package winnow

import (
	"context"
)

// -----------------------------------------------------------------------------
// Reduction Hook Interfaces
// -----------------------------------------------------------------------------
//
// Hooks allow observing transcript reduction without coupling the
// processors to any logging or metrics stack. To use hooks:
//
//  1. Implement the desired hook interface(s)
//  2. Register with hooks.Registry
//  3. Pass the registry to the processor via WithHooks
//
// Example:
//
//	type LoggingHook struct {
//	    logger *log.Logger
//	}
//
//	func (h *LoggingHook) OnTriggerFired(ctx context.Context, e winnow.TriggerFiredEvent) {
//	    h.logger.Printf("reduction triggered by %s at %d turns", e.Condition, e.Turns)
//	}
//
//	func (h *LoggingHook) OnReduced(ctx context.Context, e winnow.ReducedEvent) {
//	    h.logger.Printf("%s: %d -> %d turns", e.Strategy, e.TurnsBefore, e.TurnsAfter)
//	}
//
//	// Register and use
//	registry := hooks.NewRegistry()
//	registry.Register(&LoggingHook{logger: log.Default()})
//	proc := reduce.NewSummarizer(model, cfg).WithHooks(registry)
//
// # Hook Execution Order
//
// Hooks are called in registration order, synchronously, on the
// goroutine running Process.
//
// # Error Handling
//
// Hooks should NOT return errors. If a hook panics, the panic
// propagates out of Process. Implement proper error recovery if you
// need to handle errors gracefully.
//
// # Available Hooks
//
//   - Trigger evaluation: [TriggerFiredHook]
//   - Reduction outcome: [ReducedHook], [DigestFailedHook]
//   - Transcript health: [OrphanedResultsHook]
// -----------------------------------------------------------------------------

// TriggerFiredHook is implemented by hooks that want to be notified
// when a trigger condition passes.
//
// This hook fires before the cutoff is computed, so it fires even
// when the reduction later turns out to be a no-op (all turns
// entangled) or fails (digest error). Use it for:
//   - Counting how often transcripts hit their limits
//   - Logging which condition fired and at what size
type TriggerFiredHook interface {
	// OnTriggerFired is called when a trigger condition is satisfied.
	OnTriggerFired(ctx context.Context, event TriggerFiredEvent)
}

// ReducedHook is implemented by hooks that want to be notified after
// a reduction produces a new transcript.
//
// Use it for:
//   - Recording reclaimed context (token/turn deltas)
//   - Auditing what was discarded and when
type ReducedHook interface {
	// OnReduced is called after a reduction materializes.
	OnReduced(ctx context.Context, event ReducedEvent)
}

// DigestFailedHook is implemented by hooks that want to be notified
// when a digest model call fails.
//
// Reduction is fail-open: the host still receives the original
// transcript alongside the error. This hook is the observability
// side of that contract.
type DigestFailedHook interface {
	// OnDigestFailed is called when the digest model call errors.
	OnDigestFailed(ctx context.Context, event DigestFailedEvent)
}

// OrphanedResultsHook is implemented by hooks that want to be
// notified when a transcript carries tool results with no matching
// invocation.
//
// Orphans are tolerated (treated as safe at any boundary), so this
// is a health signal about the host's transcript management, not an
// error path.
type OrphanedResultsHook interface {
	// OnOrphanedResults is called once per Process invocation that
	// observes orphaned tool results.
	OnOrphanedResults(ctx context.Context, event OrphanedResultsEvent)
}
