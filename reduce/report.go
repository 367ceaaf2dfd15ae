package reduce

import (
	"context"

	"github.com/rickchristie/winnow"
	"github.com/rickchristie/winnow/hooks"
)

// Event-firing helpers shared by the strategies. All are
// nil-safe on the registry so processors without hooks pay
// nothing.

func reportOrphans(
	ctx context.Context,
	registry *hooks.Registry,
	transcript []winnow.Turn,
) {
	if registry == nil {
		return
	}
	orphans := winnow.OrphanedToolResults(transcript)
	if len(orphans) == 0 {
		return
	}
	registry.FireOrphanedResults(
		ctx,
		winnow.OrphanedResultsEvent{ToolCallIDs: orphans},
	)
}

func reportTrigger(
	ctx context.Context,
	registry *hooks.Registry,
	sizer *winnow.Sizer,
	transcript []winnow.Turn,
	cond winnow.ContextSize,
) {
	if registry == nil {
		return
	}
	tokens := sizer.Measure(transcript, winnow.SizeTokens)
	registry.FireTriggerFired(ctx, winnow.TriggerFiredEvent{
		Condition: cond,
		Turns:     len(transcript),
		Tokens:    int(tokens),
	})
}

func reportReduced(
	ctx context.Context,
	registry *hooks.Registry,
	sizer *winnow.Sizer,
	strategy string,
	cut int,
	before []winnow.Turn,
	after []winnow.Turn,
) {
	if registry == nil {
		return
	}
	tokensBefore := sizer.Measure(before, winnow.SizeTokens)
	tokensAfter := sizer.Measure(after, winnow.SizeTokens)
	registry.FireReduced(ctx, winnow.ReducedEvent{
		Strategy:     strategy,
		Cut:          cut,
		TurnsBefore:  len(before),
		TurnsAfter:   len(after),
		TokensBefore: int(tokensBefore),
		TokensAfter:  int(tokensAfter),
	})
}

func reportDigestFailed(
	ctx context.Context,
	registry *hooks.Registry,
	err error,
	prefixTurns int,
) {
	if registry == nil {
		return
	}
	registry.FireDigestFailed(ctx, winnow.DigestFailedEvent{
		Err:         err,
		PrefixTurns: prefixTurns,
	})
}
