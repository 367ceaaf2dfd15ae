package winnow

// -----------------------------------------------------------------------------
// Hook Event Interface
// -----------------------------------------------------------------------------

// HookEvent is a marker interface for all hook events.
type HookEvent interface {
	hookEvent()
}

// -----------------------------------------------------------------------------
// Reduction Events
// -----------------------------------------------------------------------------

// TriggerFiredEvent is emitted when a trigger condition passes,
// before the cutoff is computed.
type TriggerFiredEvent struct {
	// Condition is the first satisfied trigger condition.
	Condition ContextSize

	// Turns is the transcript length at evaluation time.
	Turns int

	// Tokens is the transcript token estimate at evaluation
	// time, from the configured TokenCounter.
	Tokens int
}

func (TriggerFiredEvent) hookEvent() {}

// ReducedEvent is emitted after a reduction materializes a new
// transcript.
type ReducedEvent struct {
	// Strategy names the processor that reduced ("summarizer"
	// or "sliding_window").
	Strategy string

	// Cut is the split index: transcript[:Cut] was discarded or
	// digested, transcript[Cut:] retained.
	Cut int

	// TurnsBefore and TurnsAfter are transcript lengths around
	// the reduction. TurnsAfter includes the digest turn when
	// one was prepended.
	TurnsBefore int
	TurnsAfter  int

	// TokensBefore and TokensAfter are token estimates around
	// the reduction, from the configured TokenCounter.
	TokensBefore int
	TokensAfter  int
}

func (ReducedEvent) hookEvent() {}

// DigestFailedEvent is emitted when the digest model call fails
// and the reduction is abandoned. The transcript the host sees
// is unchanged; Err is also returned from Process.
type DigestFailedEvent struct {
	// Err is the failure from the digest model call.
	Err error

	// PrefixTurns is the number of turns that would have been
	// digested.
	PrefixTurns int
}

func (DigestFailedEvent) hookEvent() {}

// OrphanedResultsEvent is emitted when a transcript contains
// tool results with no matching invocation. Such results are
// treated as safe at any cutoff and never fail a reduction;
// the event exists so hosts can notice malformed history.
type OrphanedResultsEvent struct {
	// ToolCallIDs are the orphaned pairing keys, in first-
	// occurrence order.
	ToolCallIDs []string
}

func (OrphanedResultsEvent) hookEvent() {}
