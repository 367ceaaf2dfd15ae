package tt

import (
	"fmt"

	"github.com/rickchristie/winnow"
	"github.com/tmc/langchaingo/llms"
)

// -----------------------------------------------------------------------------
// Transcript Builders
// -----------------------------------------------------------------------------

// PlainTurns returns n alternating user/assistant text turns
// ("user 1", "assistant 2", "user 3", ...). No tool pairings,
// so any cutoff through the result is safe.
func PlainTurns(n int) []winnow.Turn {
	turns := make([]winnow.Turn, 0, n)
	for i := 1; i <= n; i++ {
		if i%2 == 1 {
			turns = append(turns, winnow.NewUserTurn(
				fmt.Sprintf("user %d", i),
			))
		} else {
			turns = append(turns, winnow.NewAssistantTurn(
				fmt.Sprintf("assistant %d", i),
			))
		}
	}
	return turns
}

// ToolCall returns a tool call part with the given pairing key.
func ToolCall(id, name, args string) llms.ToolCall {
	return llms.ToolCall{
		ID:   id,
		Type: "function",
		FunctionCall: &llms.FunctionCall{
			Name:      name,
			Arguments: args,
		},
	}
}

// ToolResult returns a tool result part answering the given
// pairing key.
func ToolResult(id, name, content string) llms.ToolCallResponse {
	return llms.ToolCallResponse{
		ToolCallID: id,
		Name:       name,
		Content:    content,
	}
}

// ToolExchange returns the two-turn invocation/result pair for
// one tool call.
func ToolExchange(id, name string) []winnow.Turn {
	return []winnow.Turn{
		winnow.NewToolCallTurn(ToolCall(id, name, "{}")),
		winnow.NewToolResultTurn(ToolResult(id, name, "ok")),
	}
}
