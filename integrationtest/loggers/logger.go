// Package loggers provides reusable logging hooks for integration testing.
package loggers

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rickchristie/winnow"
	"github.com/tmc/langchaingo/llms"
	"gopkg.in/yaml.v3"
)

// LoggerHook implements all reduction hook interfaces to log everything
// the processors report. All event payloads are logged as YAML with
// block scalars for easy reading. Nothing is truncated - full content
// is always logged.
type LoggerHook struct {
	out io.Writer
}

// NewLoggerHook creates a new LoggerHook that writes to stdout.
func NewLoggerHook() *LoggerHook {
	return &LoggerHook{
		out: os.Stdout,
	}
}

// NewLoggerHookWithWriter creates a new LoggerHook that writes to the given writer.
func NewLoggerHookWithWriter(w io.Writer) *LoggerHook {
	return &LoggerHook{
		out: w,
	}
}

// logEvent logs an event header with timestamp.
func (h *LoggerHook) logEvent(name string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	fmt.Fprintf(h.out, "\n>>> [%s]: %s\n", name, timestamp)
}

// log writes a line without any prefix.
func (h *LoggerHook) log(format string, args ...any) {
	fmt.Fprintf(h.out, format+"\n", args...)
}

func (h *LoggerHook) logYAML(v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		h.log("(failed to marshal: %v)", err)
		return
	}
	fmt.Fprint(h.out, string(data))
}

// OnTriggerFired logs which condition fired and the transcript size
// at evaluation time.
func (h *LoggerHook) OnTriggerFired(
	ctx context.Context,
	event winnow.TriggerFiredEvent,
) {
	h.logEvent("TriggerFired")
	h.logYAML(map[string]any{
		"condition": event.Condition.String(),
		"turns":     event.Turns,
		"tokens":    event.Tokens,
	})
}

// OnReduced logs the reduction outcome with before/after sizes.
func (h *LoggerHook) OnReduced(
	ctx context.Context,
	event winnow.ReducedEvent,
) {
	h.logEvent(fmt.Sprintf("Reduced: %s", event.Strategy))
	h.logYAML(map[string]any{
		"strategy":      event.Strategy,
		"cut":           event.Cut,
		"turns_before":  event.TurnsBefore,
		"turns_after":   event.TurnsAfter,
		"tokens_before": event.TokensBefore,
		"tokens_after":  event.TokensAfter,
	})
}

// OnDigestFailed logs a failed digest model call. The host keeps the
// original transcript when this fires, so the log entry is the only
// trace of the attempt.
func (h *LoggerHook) OnDigestFailed(
	ctx context.Context,
	event winnow.DigestFailedEvent,
) {
	h.logEvent("DigestFailed")
	h.logYAML(map[string]any{
		"error":        event.Err.Error(),
		"prefix_turns": event.PrefixTurns,
	})
}

// OnOrphanedResults logs tool results that have no matching
// invocation in the transcript.
func (h *LoggerHook) OnOrphanedResults(
	ctx context.Context,
	event winnow.OrphanedResultsEvent,
) {
	h.logEvent("OrphanedResults")
	h.logYAML(map[string]any{
		"tool_call_ids": event.ToolCallIDs,
	})
}

// LogTranscript logs every turn of a transcript with its index, role,
// and full content. Useful for dumping state around a reduction.
func (h *LoggerHook) LogTranscript(label string, transcript []winnow.Turn) {
	h.log("%s (%d turns):", label, len(transcript))
	for i, turn := range transcript {
		h.log("  [%d] %s:", i, TurnLabel(turn))
		for _, line := range strings.Split(TurnContent(turn), "\n") {
			h.log("      %s", line)
		}
	}
}

// TurnLabel renders a human-readable role label for a turn.
func TurnLabel(turn winnow.Turn) string {
	switch {
	case turn.IsDigest():
		return "Digest"
	case turn.IsToolCall():
		return "Tool Call"
	case turn.IsToolResult():
		return "Tool Result"
	}
	switch turn.Role {
	case llms.ChatMessageTypeHuman:
		return "User"
	case llms.ChatMessageTypeAI:
		return "Assistant"
	case llms.ChatMessageTypeSystem:
		return "System"
	case llms.ChatMessageTypeTool:
		return "Tool"
	default:
		return string(turn.Role)
	}
}

// TurnContent renders a turn's parts as text, including tool call
// arguments and tool result payloads that Turn.Text skips.
func TurnContent(turn winnow.Turn) string {
	var parts []string
	for _, part := range turn.Parts {
		switch p := part.(type) {
		case llms.TextContent:
			parts = append(parts, p.Text)
		case llms.ToolCall:
			if p.FunctionCall != nil {
				parts = append(parts, fmt.Sprintf(
					"%s(%s)", p.FunctionCall.Name, p.FunctionCall.Arguments,
				))
			}
		case llms.ToolCallResponse:
			parts = append(parts, fmt.Sprintf("[%s] %s", p.Name, p.Content))
		}
	}
	return strings.Join(parts, "\n")
}

// Compile-time checks that LoggerHook implements all hook interfaces.
var (
	_ winnow.TriggerFiredHook    = (*LoggerHook)(nil)
	_ winnow.ReducedHook         = (*LoggerHook)(nil)
	_ winnow.DigestFailedHook    = (*LoggerHook)(nil)
	_ winnow.OrphanedResultsHook = (*LoggerHook)(nil)
)
