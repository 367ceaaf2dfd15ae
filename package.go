// Package winnow keeps LLM agent transcripts inside a model's usable
// context by reducing them as they grow.
//
// A transcript is an ordered slice of [Turn]. On every agent turn the
// host hands the transcript snapshot to a [Processor]; below the
// configured trigger the processor returns it untouched, and past the
// trigger it reduces: either by replacing the oldest turns with a
// model-generated digest (reduce.Summarizer) or by dropping them
// outright (reduce.SlidingWindow). Both strategies split the
// transcript only at safe boundaries, so a tool invocation is never
// separated from its result.
//
// # Quick Start: Capping an Agent Transcript
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//
//	    "github.com/rickchristie/winnow"
//	    "github.com/rickchristie/winnow/models"
//	    "github.com/rickchristie/winnow/reduce"
//	)
//
//	func main() {
//	    // 1. A model for generating digests (any llms.Model works)
//	    model, err := models.NewGitHubModel("openai/gpt-4.1", token)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // 2. Configure when to reduce and how much to keep
//	    proc := reduce.NewSummarizer(model, winnow.Config{
//	        Trigger: []winnow.ContextSize{winnow.Tokens(170000)},
//	        Keep:    winnow.Messages(20),
//	    })
//
//	    // 3. Run it on every agent turn
//	    transcript := loadConversation()
//	    transcript, err = proc.Process(context.Background(), transcript)
//	    if err != nil {
//	        // Fail-open: transcript is still usable, the digest
//	        // call failed and nothing was reduced this turn.
//	        log.Printf("reduction skipped: %v", err)
//	    }
//	    callModelWith(transcript)
//	}
//
// # Transcripts and Turns
//
// [Turn] is one immutable role-tagged message built from langchaingo
// content parts. Tool use follows the chat-API shape: an invocation is
// an AI turn carrying [llms.ToolCall] parts, a result is a tool turn
// carrying [llms.ToolCallResponse] parts, and the tool call ID pairs
// them. Constructors cover the common shapes:
//
//	winnow.NewUserTurn("find flights to Osaka")
//	winnow.NewToolCallTurn(llms.ToolCall{ID: "c1", FunctionCall: &llms.FunctionCall{
//	    Name:      "search_flights",
//	    Arguments: `{"dest":"KIX"}`,
//	}})
//	winnow.NewToolResultTurn(llms.ToolCallResponse{ToolCallID: "c1", Content: "..."})
//
// The engine never mutates a transcript; it returns new slices, or the
// identical input slice when nothing needed doing.
//
// # Sizing and Triggers
//
// [ContextSize] expresses sizes in three kinds: Messages (turn count),
// Tokens (estimated), and Fraction (of Config.MaxInputTokens). The
// same type serves as trigger condition and retention target:
//
//	winnow.Config{
//	    // Reduce at 100 turns OR 80% of the context window.
//	    Trigger:        []winnow.ContextSize{winnow.Messages(100), winnow.Fraction(0.8)},
//	    Keep:           winnow.Messages(50),
//	    MaxInputTokens: 200000,
//	}
//
// Conditions OR together and compare with >=. Token sizes come from a
// pluggable [TokenCounter]; the default [EstimateTokens] approximates
// at ~4 characters per token, and the tokens subpackage provides an
// exact tiktoken-backed counter. Configuration is validated when the
// processor is constructed ([Config.Validate]): fraction sizes without
// MaxInputTokens panic at construction, never mid-conversation.
//
// # Safe Cutoffs
//
// [SafeCutoff] turns a retention count into an actual split index,
// walking backward from the naive split until no tool pairing straddles
// it. Retention only ever grows past the target, never shrinks; a
// transcript that is one unbroken pairing chain yields cut 0 and the
// reduction becomes a no-op. Tool results with no matching invocation
// (see [OrphanedToolResults]) are tolerated and reported, not fatal.
//
// # Hooks and Events
//
// Processors publish [TriggerFiredEvent], [ReducedEvent],
// [DigestFailedEvent], and [OrphanedResultsEvent] through a
// hooks.Registry. Implement the matching interfaces on one struct and
// register it:
//
//	registry := hooks.NewRegistry()
//	registry.Register(&LoggingHook{})
//	proc := reduce.NewSlidingWindow(cfg).WithHooks(registry)
//
// See hooks.go for the interfaces and events.go for the payloads.
//
// # Declarative Policies
//
// The policy subpackage loads reduction policies from YAML, validates
// them against a JSON Schema, and builds the configured processor:
//
//	doc, err := policy.Load("reduction.yaml")
//	proc, err := doc.Build(model, nil)
//
// This suits hosts that ship reduction tuning as configuration rather
// than code.
package winnow
