package hooks

import (
	"context"

	"github.com/rickchristie/winnow"
)

// Registry manages a collection of hooks and dispatches reduction
// events to them.
//
// # Overview
//
// Registry is the coordination point between processors and
// observers. It:
//   - Stores registered hooks in order
//   - Dispatches events to hooks that implement the relevant interface
//
// Hooks can implement any combination of hook interfaces - they only
// receive events for the interfaces they implement.
//
// # Creating and Using
//
//	// Create a registry and register hooks
//	registry := hooks.NewRegistry()
//	registry.Register(&LoggingHook{})
//	registry.Register(&MetricsHook{})
//
//	// Use with a processor
//	proc := reduce.NewSummarizer(model, cfg).WithHooks(registry)
//
// # Hooks with Multiple Interfaces
//
// A single hook can implement multiple interfaces:
//
//	type FullHook struct {
//	    logger *log.Logger
//	}
//
//	func (h *FullHook) OnTriggerFired(
//	    ctx context.Context, e winnow.TriggerFiredEvent,
//	) {
//	    h.logger.Printf("trigger %s fired at %d turns", e.Condition, e.Turns)
//	}
//
//	func (h *FullHook) OnReduced(
//	    ctx context.Context, e winnow.ReducedEvent,
//	) {
//	    h.logger.Printf("%s reclaimed %d tokens", e.Strategy, e.TokensBefore-e.TokensAfter)
//	}
//
//	// Register once - receives both event types
//	registry.Register(&FullHook{logger: log.Default()})
//
// # Thread Safety
//
// Registry is NOT thread-safe. Register all hooks before handing the
// registry to a processor. Fire methods should only be called by
// processors.
type Registry struct {
	hooks []any
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		hooks: make([]any, 0),
	}
}

// Register adds a hook to the registry. The hook can implement any
// combination of hook interfaces (TriggerFiredHook, ReducedHook,
// etc.).
//
// Hooks are called in the order they are registered.
func (r *Registry) Register(hook any) *Registry {
	r.hooks = append(r.hooks, hook)
	return r
}

// FireTriggerFired dispatches a TriggerFiredEvent to all registered
// TriggerFiredHook implementations.
func (r *Registry) FireTriggerFired(
	ctx context.Context,
	event winnow.TriggerFiredEvent,
) {
	for _, h := range r.hooks {
		if hook, ok := h.(winnow.TriggerFiredHook); ok {
			hook.OnTriggerFired(ctx, event)
		}
	}
}

// FireReduced dispatches a ReducedEvent to all registered ReducedHook
// implementations.
func (r *Registry) FireReduced(
	ctx context.Context,
	event winnow.ReducedEvent,
) {
	for _, h := range r.hooks {
		if hook, ok := h.(winnow.ReducedHook); ok {
			hook.OnReduced(ctx, event)
		}
	}
}

// FireDigestFailed dispatches a DigestFailedEvent to all registered
// DigestFailedHook implementations.
// This is informational only; the processor has already decided to
// fail open.
func (r *Registry) FireDigestFailed(
	ctx context.Context,
	event winnow.DigestFailedEvent,
) {
	for _, h := range r.hooks {
		if hook, ok := h.(winnow.DigestFailedHook); ok {
			hook.OnDigestFailed(ctx, event)
		}
	}
}

// FireOrphanedResults dispatches an OrphanedResultsEvent to all
// registered OrphanedResultsHook implementations.
func (r *Registry) FireOrphanedResults(
	ctx context.Context,
	event winnow.OrphanedResultsEvent,
) {
	for _, h := range r.hooks {
		if hook, ok := h.(winnow.OrphanedResultsHook); ok {
			hook.OnOrphanedResults(ctx, event)
		}
	}
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int {
	return len(r.hooks)
}

// Clear removes all registered hooks.
func (r *Registry) Clear() {
	r.hooks = make([]any, 0)
}
