// Package hooks provides a registry for observing transcript
// reduction.
//
// Hooks let you watch what the processors do without wiring a logging
// or metrics stack into them. Each hook interface corresponds to one
// event type - implement only the interfaces you need.
//
// # Hook Interfaces
//
// Trigger and outcome hooks:
//   - [winnow.TriggerFiredHook] - Called when a trigger condition passes
//   - [winnow.ReducedHook] - Called after a reduction materializes
//   - [winnow.DigestFailedHook] - Called when a digest model call fails
//
// Transcript health hooks:
//   - [winnow.OrphanedResultsHook] - Called when tool results have no
//     matching invocation
//
// # Creating a Hook
//
// Create a hook by implementing any combination of interfaces:
//
//	type MetricsHook struct{}
//
//	func (h *MetricsHook) OnReduced(
//	    ctx context.Context,
//	    event winnow.ReducedEvent,
//	) {
//	    metrics.RecordReduction(event.Strategy, event.TokensBefore-event.TokensAfter)
//	}
//
//	// Compile-time check
//	var _ winnow.ReducedHook = (*MetricsHook)(nil)
//
// # Registering Hooks
//
// Build a registry and hand it to processors:
//
//	registry := hooks.NewRegistry()
//	registry.Register(&MetricsHook{})
//
//	summarizer := reduce.NewSummarizer(model, cfg).WithHooks(registry)
//	window := reduce.NewSlidingWindow(cfg).WithHooks(registry)
//
// A registry can be shared: both processors above report into the
// same hooks.
//
// # Example
//
// See integrationtest/loggers/logger.go for a complete example that
// implements all hook interfaces.
package hooks
