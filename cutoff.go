package winnow

// pairingSpan is the transcript range covered by one tool call
// ID: the turn that invoked the tool and the last turn carrying
// a result for it.
type pairingSpan struct {
	invocation int
	lastResult int
}

// SafeCutoff returns the index at which a transcript can be
// split so that the suffix transcript[cut:] retains at least
// `retain` turns and starts on a safe boundary.
//
// A boundary is safe when it separates no tool pairing: the
// retained suffix may not begin with a tool result whose
// invocation was discarded, and the discarded prefix may not
// end with an invocation whose result is retained. Formally,
// cut c is unsafe iff some pairing spans it, i.e. its
// invocation sits before c and its last result at or after c.
//
// The search starts at the naive candidate len(transcript) -
// retain and walks backward one turn at a time while the
// candidate is unsafe, so the result only ever retains more
// than requested, never less. When every turn is entangled in
// one unbroken pairing chain the result is 0: nothing is
// discarded, a deliberately conservative outcome rather than an
// error.
//
// Pairings are evaluated within the given snapshot only. A tool
// result whose invocation does not appear earlier in the
// transcript constrains nothing (see OrphanedToolResults), and
// an invocation with no result yet constrains nothing either.
//
// A retain of len(transcript) or more yields 0. The returned
// cut always satisfies 0 <= cut <= len(transcript).
func SafeCutoff(transcript []Turn, retain int) int {
	candidate := len(transcript) - retain
	if candidate <= 0 {
		return 0
	}
	if candidate > len(transcript) {
		candidate = len(transcript)
	}
	spans := pairingSpans(transcript)
	for candidate > 0 && !isSafeCutoff(candidate, spans) {
		candidate--
	}
	return candidate
}

// OrphanedToolResults returns the tool call IDs of result parts
// that have no invocation earlier in the transcript, in first-
// occurrence order. Such results come from hosts that trimmed
// or stitched history themselves; they are flagged for
// observability but never fail a reduction, and cutoff
// selection treats them as safe at any boundary.
func OrphanedToolResults(transcript []Turn) []string {
	invocations := invocationIndex(transcript)
	var orphans []string
	seen := make(map[string]bool)
	for i, turn := range transcript {
		for _, id := range turn.ToolResponseIDs() {
			inv, ok := invocations[id]
			if ok && inv < i {
				continue
			}
			if !seen[id] {
				seen[id] = true
				orphans = append(orphans, id)
			}
		}
	}
	return orphans
}

func isSafeCutoff(cut int, spans []pairingSpan) bool {
	for _, span := range spans {
		if span.invocation < cut && cut <= span.lastResult {
			return false
		}
	}
	return true
}

// invocationIndex maps each tool call ID to the index of the
// first turn that invokes it.
func invocationIndex(transcript []Turn) map[string]int {
	invocations := make(map[string]int)
	for i, turn := range transcript {
		for _, id := range turn.ToolCallIDs() {
			if _, seen := invocations[id]; !seen {
				invocations[id] = i
			}
		}
	}
	return invocations
}

// pairingSpans collects the spans of all completed pairings in
// the transcript. Orphaned results and results that precede
// their invocation are skipped, as are invocations with no
// result.
func pairingSpans(transcript []Turn) []pairingSpan {
	invocations := invocationIndex(transcript)
	if len(invocations) == 0 {
		return nil
	}
	last := make(map[string]int)
	for i, turn := range transcript {
		for _, id := range turn.ToolResponseIDs() {
			inv, ok := invocations[id]
			if !ok || inv >= i {
				continue
			}
			if r, ok := last[id]; !ok || i > r {
				last[id] = i
			}
		}
	}
	spans := make([]pairingSpan, 0, len(last))
	for id, result := range last {
		spans = append(spans, pairingSpan{
			invocation: invocations[id],
			lastResult: result,
		})
	}
	return spans
}
