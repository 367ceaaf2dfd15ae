package winnow

import "context"

// Processor reduces a transcript that has grown past its
// configured trigger, returning the transcript to feed into the
// next model call.
//
// The host agent calls Process once per agent turn with a
// snapshot of the conversation so far. Implementations decide
// internally whether to act: below the trigger they return the
// input slice unchanged.
//
// # Contract
//
// The returned slice is always usable as the next transcript,
// even when the error is non-nil. Reduction is fail-open: if
// the work needed to reduce (such as the digest model call)
// fails, implementations return the original transcript
// together with the error, and the host proceeds with unreduced
// context rather than aborting the turn. The error exists for
// logging and metrics, not for control flow.
//
// Process must not mutate the input slice or the turns in it.
// Implementations hold only configuration frozen at
// construction, so they are safe for concurrent use across
// distinct transcripts; invocations against the same transcript
// are the caller's to serialize.
//
// # Available Implementations
//
//   - reduce.NewSummarizer: replaces the discarded prefix with
//     a model-generated digest turn
//   - reduce.NewSlidingWindow: drops the discarded prefix
//     outright
//
// # Implementing Custom Processors
//
//	type RedactingProcessor struct {
//	    sizer *winnow.Sizer
//	}
//
//	func (p *RedactingProcessor) Process(
//	    ctx context.Context,
//	    transcript []winnow.Turn,
//	) ([]winnow.Turn, error) {
//	    if !p.sizer.ShouldTrigger(transcript) {
//	        return transcript, nil
//	    }
//	    cut := winnow.SafeCutoff(
//	        transcript, p.sizer.RetentionCount(transcript),
//	    )
//	    // ... replace transcript[:cut] with redacted turns ...
//	    return transcript[cut:], nil
//	}
type Processor interface {
	Process(
		ctx context.Context,
		transcript []Turn,
	) ([]Turn, error)
}
