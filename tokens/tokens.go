// Package tokens provides winnow.TokenCounter implementations
// backed by real tokenizers, for hosts that need tighter trigger
// accuracy than the default character estimate.
//
// Counters are built once and reused; construction may fetch the
// encoding dictionary (tiktoken caches it after the first load),
// counting itself is pure CPU.
package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rickchristie/winnow"
	"github.com/tmc/langchaingo/llms"
)

// perTurnOverhead approximates the framing tokens chat APIs add
// around each message (role markers, separators).
const perTurnOverhead = 3

// fallbackEncoding is used for model names tiktoken does not
// recognize. cl100k_base is the closest general-purpose choice
// for current chat models.
const fallbackEncoding = "cl100k_base"

// ForModel returns a TokenCounter using the tiktoken encoding
// registered for the given model name ("gpt-4o", "gpt-4.1-mini",
// ...). Unknown models fall back to cl100k_base rather than
// failing: an approximate count from a near-miss encoding still
// beats the character estimate.
func ForModel(model string) (winnow.TokenCounter, error) {
	encoder, err := tiktoken.EncodingForModel(model)
	if err != nil {
		fallback, fbErr := tiktoken.GetEncoding(fallbackEncoding)
		if fbErr != nil {
			return nil, fmt.Errorf("get encoding: %w", fbErr)
		}
		encoder = fallback
	}
	return counterFor(encoder), nil
}

// Encoding returns a TokenCounter for a named tiktoken encoding
// ("cl100k_base", "o200k_base", ...). Use this when the digest
// and conversation models share a tokenizer family and you want
// to name it directly.
func Encoding(name string) (winnow.TokenCounter, error) {
	encoder, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("get encoding: %w", err)
	}
	return counterFor(encoder), nil
}

// counterFor wraps an encoder into a TokenCounter that walks the
// same turn content the default estimate does: text parts, tool
// call names and arguments, tool result names and content.
// Binary parts are not counted.
func counterFor(encoder *tiktoken.Tiktoken) winnow.TokenCounter {
	return func(turns []winnow.Turn) int {
		total := 0
		for _, turn := range turns {
			total += perTurnOverhead
			for _, part := range turn.Parts {
				switch p := part.(type) {
				case llms.TextContent:
					total += count(encoder, p.Text)
				case llms.ToolCall:
					if p.FunctionCall == nil {
						continue
					}
					total += count(encoder, p.FunctionCall.Name)
					total += count(
						encoder, p.FunctionCall.Arguments,
					)
				case llms.ToolCallResponse:
					total += count(encoder, p.Name)
					total += count(encoder, p.Content)
				}
			}
		}
		return total
	}
}

func count(encoder *tiktoken.Tiktoken, text string) int {
	if text == "" {
		return 0
	}
	return len(encoder.Encode(text, nil, nil))
}
