package winnow

import (
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// TurnOrigin distinguishes turns produced by the live
// conversation from synthetic turns injected by a reduction.
type TurnOrigin string

const (
	// TurnOriginConversation marks a turn produced by the
	// conversation itself (the zero value).
	TurnOriginConversation TurnOrigin = ""

	// TurnOriginDigest marks a synthetic turn holding the digest
	// of discarded conversation history.
	TurnOriginDigest TurnOrigin = "digest"
)

// Turn is one immutable unit of a transcript: a role-tagged
// message with opaque content parts.
//
// A transcript is an ordered []Turn owned by the caller. Order
// is the conversation order and is load-bearing: the engine
// never reorders turns, never mutates a Turn in place, and
// returns new slices (or the identical input slice for no-ops)
// rather than editing the caller's snapshot.
//
// Tool use rides on two turn shapes, mirroring how chat APIs
// represent it:
//
//   - A tool invocation is an assistant turn whose Parts contain
//     one or more [llms.ToolCall] entries.
//   - A tool result is a tool-role turn whose Parts contain one
//     or more [llms.ToolCallResponse] entries.
//
// The tool call ID ([llms.ToolCall.ID], echoed back as
// [llms.ToolCallResponse.ToolCallID]) is the pairing key that
// links an invocation to its result(s). Cutoff selection uses
// this key to avoid splitting a pair across a reduction
// boundary.
type Turn struct {
	// Role tags who produced the turn (human, AI, system, tool).
	Role llms.ChatMessageType

	// Parts holds the turn content. Text, tool calls, tool call
	// responses, and binary parts are all valid.
	Parts []llms.ContentPart

	// Origin is TurnOriginDigest for synthetic digest turns and
	// the zero value for everything else.
	Origin TurnOrigin
}

// NewUserTurn returns a human turn with a single text part.
func NewUserTurn(text string) Turn {
	return Turn{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextContent{Text: text}},
	}
}

// NewAssistantTurn returns an AI turn with a single text part.
func NewAssistantTurn(text string) Turn {
	return Turn{
		Role:  llms.ChatMessageTypeAI,
		Parts: []llms.ContentPart{llms.TextContent{Text: text}},
	}
}

// NewSystemTurn returns a system turn with a single text part.
func NewSystemTurn(text string) Turn {
	return Turn{
		Role:  llms.ChatMessageTypeSystem,
		Parts: []llms.ContentPart{llms.TextContent{Text: text}},
	}
}

// NewToolCallTurn returns an AI turn invoking the given tools.
func NewToolCallTurn(calls ...llms.ToolCall) Turn {
	parts := make([]llms.ContentPart, 0, len(calls))
	for _, call := range calls {
		parts = append(parts, call)
	}
	return Turn{Role: llms.ChatMessageTypeAI, Parts: parts}
}

// NewToolResultTurn returns a tool turn carrying the given
// responses.
func NewToolResultTurn(responses ...llms.ToolCallResponse) Turn {
	parts := make([]llms.ContentPart, 0, len(responses))
	for _, resp := range responses {
		parts = append(parts, resp)
	}
	return Turn{Role: llms.ChatMessageTypeTool, Parts: parts}
}

// NewDigestTurn returns a synthetic turn holding digest text.
// The turn uses the generic role so hosts can map it to
// whatever message type their model API expects.
func NewDigestTurn(text string) Turn {
	return Turn{
		Role:   llms.ChatMessageTypeGeneric,
		Parts:  []llms.ContentPart{llms.TextContent{Text: text}},
		Origin: TurnOriginDigest,
	}
}

// Text returns the concatenation of all text parts. Tool calls,
// tool responses, and binary parts are skipped.
func (t Turn) Text() string {
	var sb strings.Builder
	for _, part := range t.Parts {
		if textPart, ok := part.(llms.TextContent); ok {
			sb.WriteString(textPart.Text)
		}
	}
	return sb.String()
}

// ToolCallIDs returns the pairing keys of every tool call part,
// in part order. Empty for turns that invoke no tools.
func (t Turn) ToolCallIDs() []string {
	var ids []string
	for _, part := range t.Parts {
		if call, ok := part.(llms.ToolCall); ok && call.ID != "" {
			ids = append(ids, call.ID)
		}
	}
	return ids
}

// ToolResponseIDs returns the pairing keys of every tool call
// response part, in part order. Empty for turns that carry no
// tool results.
func (t Turn) ToolResponseIDs() []string {
	var ids []string
	for _, part := range t.Parts {
		resp, ok := part.(llms.ToolCallResponse)
		if ok && resp.ToolCallID != "" {
			ids = append(ids, resp.ToolCallID)
		}
	}
	return ids
}

// IsToolCall reports whether the turn invokes at least one tool.
func (t Turn) IsToolCall() bool {
	for _, part := range t.Parts {
		if _, ok := part.(llms.ToolCall); ok {
			return true
		}
	}
	return false
}

// IsToolResult reports whether the turn carries at least one
// tool call response.
func (t Turn) IsToolResult() bool {
	for _, part := range t.Parts {
		if _, ok := part.(llms.ToolCallResponse); ok {
			return true
		}
	}
	return false
}

// IsDigest reports whether the turn is a synthetic digest turn.
func (t Turn) IsDigest() bool {
	return t.Origin == TurnOriginDigest
}
