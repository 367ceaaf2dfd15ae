package winnow

import "github.com/tmc/langchaingo/llms"

// TokenCounter estimates the number of tokens a sequence of
// turns would occupy in model context.
//
// Counters must be pure and deterministic: same turns, same
// count, no side effects. The engine calls a counter both on
// whole transcripts (trigger evaluation) and on single-turn
// slices (retention scans), so per-call overhead should be
// small.
//
// The default is [EstimateTokens]. An exact tokenizer-backed
// implementation is available from the tokens subpackage;
// callers can also supply their own.
type TokenCounter func(turns []Turn) int

// estimateCharsPerToken is the character-to-token ratio used by
// EstimateTokens. Roughly right for English prose under modern
// BPE tokenizers; it is a calibration constant, not a contract.
const estimateCharsPerToken = 4

// EstimateTokens approximates token usage from character
// length, at about four characters per token (ceiling
// division).
//
// Counted content: text parts, tool call names and arguments,
// and tool response names and payloads. Binary parts are not
// counted; supply a custom TokenCounter when transcripts carry
// images or other non-text content that matters for budgeting.
func EstimateTokens(turns []Turn) int {
	chars := 0
	for _, turn := range turns {
		for _, part := range turn.Parts {
			switch p := part.(type) {
			case llms.TextContent:
				chars += len(p.Text)
			case llms.ToolCall:
				if p.FunctionCall != nil {
					chars += len(p.FunctionCall.Name)
					chars += len(p.FunctionCall.Arguments)
				}
			case llms.ToolCallResponse:
				chars += len(p.Name)
				chars += len(p.Content)
			}
		}
	}
	if chars == 0 {
		return 0
	}
	return (chars + estimateCharsPerToken - 1) / estimateCharsPerToken
}
