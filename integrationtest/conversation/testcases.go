package conversation

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rickchristie/winnow"
	"github.com/rickchristie/winnow/hooks"
	"github.com/rickchristie/winnow/integrationtest/loggers"
	"github.com/rickchristie/winnow/policy"
	"github.com/rickchristie/winnow/reduce"
	"github.com/tmc/langchaingo/llms"
)

// -----------------------------------------------------------------------------
// Test Configuration
// -----------------------------------------------------------------------------

// TestConfig configures how a replay scenario runs and what it
// prints.
type TestConfig struct {
	// DigestModel generates digests for summarizer scenarios. Nil
	// selects the scripted mock, so scenarios run offline by
	// default.
	DigestModel llms.Model

	// LogWriter receives full hook event logs. Nil disables event
	// logging.
	LogWriter io.Writer

	// ShowTranscripts dumps the retained transcript after each
	// reduction.
	ShowTranscripts bool
}

// DefaultTestConfig returns a config suitable for go test: scripted
// digest model, no event log, no transcript dumps.
func DefaultTestConfig() TestConfig {
	return TestConfig{}
}

// TestCase is a named replay scenario for the CLI menu.
type TestCase struct {
	Name        string
	Description string
	Run         func(
		ctx context.Context,
		w io.Writer,
		config TestConfig,
	) error
}

// GetConversationTestCases returns all replay scenarios.
func GetConversationTestCases() []TestCase {
	return []TestCase{
		{
			Name: "Sliding Window Replay",
			Description: "Replay the scripted session through " +
				"a sliding window that keeps the last 6 turns",
			Run: RunSlidingWindowScenario,
		},
		{
			Name: "Summarizer Replay",
			Description: "Replay the scripted session through " +
				"a summarizer that digests older turns",
			Run: RunSummarizerScenario,
		},
		{
			Name: "Policy File Replay",
			Description: "Build a summarizer from a YAML policy " +
				"document and replay the scripted session",
			Run: RunPolicyScenario,
		},
	}
}

// -----------------------------------------------------------------------------
// Scenarios
// -----------------------------------------------------------------------------

// RunSlidingWindowScenario replays the scripted session through a
// sliding window. The trigger combines a turn limit with a token
// limit; with this script the turn limit fires first.
func RunSlidingWindowScenario(
	ctx context.Context,
	w io.Writer,
	config TestConfig,
) error {
	window := reduce.NewSlidingWindow(winnow.Config{
		Trigger: []winnow.ContextSize{
			winnow.Messages(12),
			winnow.Tokens(2000),
		},
		Keep: winnow.Messages(6),
	}).WithHooks(newEventLog(config))

	return replay(ctx, w, config, "SLIDING WINDOW REPLAY", window)
}

// RunSummarizerScenario replays the scripted session through a
// summarizer. With no DigestModel configured the digests come from
// the scripted mock, so the scenario is deterministic and offline.
func RunSummarizerScenario(
	ctx context.Context,
	w io.Writer,
	config TestConfig,
) error {
	model := config.DigestModel
	if model == nil {
		model = NewScriptedDigestModel()
	}

	summarizer := reduce.NewSummarizer(model, winnow.Config{
		Trigger: []winnow.ContextSize{winnow.Tokens(500)},
		Keep:    winnow.Messages(6),
	}).
		WithDigestInputBudget(800).
		WithHooks(newEventLog(config))

	return replay(ctx, w, config, "SUMMARIZER REPLAY", summarizer)
}

// policyDocument is the YAML policy the policy scenario builds its
// processor from. It exercises the config-file path end to end:
// schema validation, condition conversion, and digest options.
const policyDocument = `
strategy: summarizer
trigger:
  - kind: tokens
    value: 700
  - kind: fraction
    value: 0.25
keep:
  kind: messages
  value: 8
max_input_tokens: 4000
counter:
  type: estimate
digest:
  input_budget: 600
`

// RunPolicyScenario parses a YAML policy document, builds the
// processor it describes, and replays the scripted session through
// it.
func RunPolicyScenario(
	ctx context.Context,
	w io.Writer,
	config TestConfig,
) error {
	doc, err := policy.Parse([]byte(policyDocument))
	if err != nil {
		return fmt.Errorf("parse policy: %w", err)
	}

	model := config.DigestModel
	if model == nil {
		model = NewScriptedDigestModel()
	}

	proc, err := doc.Build(model, newEventLog(config))
	if err != nil {
		return fmt.Errorf("build policy processor: %w", err)
	}

	fmt.Fprintf(w, "policy: strategy=%s trigger=%d conditions\n",
		doc.Strategy, len(doc.Trigger))

	return replay(ctx, w, config, "POLICY FILE REPLAY", proc)
}

// -----------------------------------------------------------------------------
// Replay Runner
// -----------------------------------------------------------------------------

// replay feeds the scripted session to proc one turn at a time, the
// way a host agent would between model calls, and verifies the
// reduction invariants after every invocation:
//
//   - the processed transcript never grows
//   - no retained tool result lost its invocation to a cut
//
// It fails if the whole script replays without a single reduction,
// since every scenario is tuned to trigger at least once.
func replay(
	ctx context.Context,
	w io.Writer,
	config TestConfig,
	title string,
	proc winnow.Processor,
) error {
	fixture := NewFixture()

	fmt.Fprintf(w, "%s\n", strings.Repeat("=", 80))
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", 80))
	fmt.Fprintf(w, "replaying %d scripted turns\n\n", fixture.Len())

	dumper := loggers.NewLoggerHookWithWriter(w)

	transcript := make([]winnow.Turn, 0, fixture.Len())
	reductions := 0
	for i := 0; i < fixture.Len(); i++ {
		transcript = append(transcript, fixture.Turn(i))

		reduced, err := proc.Process(ctx, transcript)
		if err != nil {
			return fmt.Errorf("process after turn %d: %w", i, err)
		}
		if len(reduced) > len(transcript) {
			return fmt.Errorf(
				"process after turn %d grew the transcript: %d -> %d",
				i, len(transcript), len(reduced),
			)
		}
		if err := verifyPairings(reduced); err != nil {
			return fmt.Errorf("after turn %d: %w", i, err)
		}

		if len(reduced) != len(transcript) {
			reductions++
			fmt.Fprintf(w, "turn %d: reduced %d -> %d turns\n",
				i, len(transcript), len(reduced))
			if config.ShowTranscripts {
				dumper.LogTranscript("retained transcript", reduced)
				fmt.Fprintln(w)
			}
		}
		transcript = reduced
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("-", 80))
	fmt.Fprintf(w,
		"replay complete: %d scripted turns, %d reductions, "+
			"final transcript %d turns (~%d tokens)\n",
		fixture.Len(), reductions, len(transcript),
		winnow.EstimateTokens(transcript),
	)

	if reductions == 0 {
		return fmt.Errorf(
			"replay finished without a single reduction " +
				"(trigger never fired)",
		)
	}
	return nil
}

// verifyPairings checks that no retained tool result lost its
// invocation to a reduction. The script contains no orphans, so any
// orphan in a processed transcript means a pairing was split.
func verifyPairings(transcript []winnow.Turn) error {
	if orphans := winnow.OrphanedToolResults(transcript); len(orphans) > 0 {
		return fmt.Errorf(
			"reduction split tool pairings, orphaned results: %v",
			orphans,
		)
	}
	return nil
}

// newEventLog returns a registry with a LoggerHook on the config's
// LogWriter, or nil when event logging is disabled.
func newEventLog(config TestConfig) *hooks.Registry {
	if config.LogWriter == nil {
		return nil
	}
	return hooks.NewRegistry().Register(
		loggers.NewLoggerHookWithWriter(config.LogWriter),
	)
}
