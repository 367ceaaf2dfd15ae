package reduce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rickchristie/winnow"
	"github.com/rickchristie/winnow/hooks"
	"github.com/tmc/langchaingo/llms"
)

// Summarizer defaults. The trigger leaves headroom below the
// ~200k context of current frontier models, and the keep
// target preserves enough recent turns for the agent to stay
// grounded without re-reading the digest.
const (
	// DefaultDigestTriggerTokens is the token estimate at
	// which NewDefaultSummarizer starts reducing.
	DefaultDigestTriggerTokens = 170000

	// DefaultDigestKeepTurns is how many tail turns
	// NewDefaultSummarizer retains untouched.
	DefaultDigestKeepTurns = 20

	// DefaultDigestInputBudget caps the token estimate of the
	// prefix handed to the digest model. NewSummarizer applies
	// it unless overridden with WithDigestInputBudget.
	DefaultDigestInputBudget = 4000
)

// digestHeader prefixes every digest turn so the model (and a
// human reading the transcript) can tell the digest apart from
// live conversation.
const digestHeader = "Summary of previous conversation:\n\n"

// toolResultPreviewLimit caps how much of each tool result is
// shown to the digest model. Raw tool payloads dominate
// transcript size but rarely carry information the digest
// needs in full.
const toolResultPreviewLimit = 500

// Summarizer reduces a transcript by replacing its oldest
// turns with a single model-generated digest turn. Recent
// turns are preserved untouched.
//
// On each Process call it evaluates the configured trigger;
// once fired, it finds the latest safe cutoff for the keep
// target, formats the discarded prefix as plain text, asks the
// digest model to extract the essential context, and returns
//
//	[digest] → [retained suffix...]
//
// The digest turn carries winnow.TurnOriginDigest and the
// generic role, so hosts can map it to whatever message type
// their API expects.
//
// # Fail-Open
//
// The digest model call is the only thing that can fail. When
// it does, Process returns the ORIGINAL transcript together
// with the error: the conversation proceeds with unreduced
// context instead of aborting, and a later turn gets another
// chance to reduce. A DigestFailedEvent fires when hooks are
// registered. Callers should treat the error as a log line,
// not as control flow.
//
// # Progressive Digestion
//
// There is no separate "existing summary" input. When a
// previous reduction left a digest turn at the head of the
// transcript, that turn is simply part of the next discarded
// prefix and is formatted into the next digest request, so
// digests accumulate across reductions without special
// casing.
//
// # Multi-Modal Handling
//
// Only text reaches the digest model: text parts, tool call
// names and arguments, and truncated tool results. Binary
// parts (images, audio) are dropped from the digest input,
// though the turns carrying them are still counted, cut, and
// discarded like any others.
//
// # Model Usage
//
// The strategy accepts any llms.Model. Digestion is a simpler
// task than the agent's primary reasoning, so a cheaper model
// than the conversation's main one is usually the right
// choice; the savings compound across reductions.
//
// # Example
//
//	summarizer := reduce.NewSummarizer(model, winnow.Config{
//	    Trigger: []winnow.ContextSize{winnow.Tokens(170000)},
//	    Keep:    winnow.Messages(20),
//	}).WithDigestInputBudget(8000)
type Summarizer struct {
	model        llms.Model
	sizer        *winnow.Sizer
	prompt       string
	digestBudget int
	registry     *hooks.Registry
}

// NewSummarizer creates a Summarizer that digests with the
// given model. Panics if model is nil or cfg is invalid; see
// winnow.Config.Validate.
func NewSummarizer(
	model llms.Model,
	cfg winnow.Config,
) *Summarizer {
	if model == nil {
		panic("winnow: Summarizer model must not be nil")
	}
	return &Summarizer{
		model:        model,
		sizer:        winnow.NewSizer(cfg),
		prompt:       DefaultDigestPrompt,
		digestBudget: DefaultDigestInputBudget,
	}
}

// NewDefaultSummarizer creates a Summarizer with the default
// tuning: digest down to the last 20 turns once the transcript
// reaches ~170k estimated tokens.
func NewDefaultSummarizer(model llms.Model) *Summarizer {
	return NewSummarizer(model, winnow.Config{
		Trigger: []winnow.ContextSize{
			winnow.Tokens(DefaultDigestTriggerTokens),
		},
		Keep: winnow.Messages(DefaultDigestKeepTurns),
	})
}

// WithPromptTemplate sets a custom digest prompt. The template
// must contain exactly one %s placeholder, which receives the
// formatted prefix; anything else panics. See
// [DefaultDigestPrompt] for guidance on writing one.
func (s *Summarizer) WithPromptTemplate(
	template string,
) *Summarizer {
	if strings.Count(template, "%s") != 1 {
		panic(
			"winnow: Summarizer prompt template must contain" +
				" exactly one %s placeholder",
		)
	}
	s.prompt = template
	return s
}

// WithDigestInputBudget caps the token estimate of the prefix
// handed to the digest model. When the discarded prefix
// exceeds the budget, only its newest turns that fit are
// formatted into the prompt; older ones vanish undigested.
// Zero disables the cap. Panics if tokens is negative.
func (s *Summarizer) WithDigestInputBudget(
	tokens int,
) *Summarizer {
	if tokens < 0 {
		panic(
			"winnow: Summarizer digest input budget must not" +
				" be negative",
		)
	}
	s.digestBudget = tokens
	return s
}

// WithHooks sets the registry that receives reduction events.
func (s *Summarizer) WithHooks(
	registry *hooks.Registry,
) *Summarizer {
	s.registry = registry
	return s
}

// DefaultDigestPrompt is the default prompt used by
// [Summarizer]. Override it with
// [Summarizer.WithPromptTemplate] to customize.
//
// The prompt takes one fmt.Sprintf placeholder:
//
//	%s — the formatted turns being discarded
//
// # Designing a Custom Digest Prompt
//
// The sections below explain the default's design so you can
// make informed tradeoffs when writing your own.
//
// # Extraction Framing
//
// The prompt asks the model to EXTRACT context rather than
// summarize. A generic "summarize this conversation" request
// yields narrative prose — what happened, in order, evenly
// weighted. Extraction framing, combined with the warning
// that the output will overwrite the history it describes,
// pushes the model to be selective: it keeps goals, decisions,
// and unresolved threads, and drops the play-by-play. The
// "avoid repeating completed actions" instruction reinforces
// this; a finished action only needs its outcome recorded,
// not its trace.
//
// # Why One Placeholder
//
// Progressive digestion needs no second slot for an existing
// summary. A digest turn produced by an earlier reduction
// travels at the head of the transcript, so when the next
// reduction fires it is part of the formatted prefix and the
// model folds it into the new digest naturally. Prompts with
// separate "existing summary" and "new messages" slots must
// teach the model how to merge them; presenting one unified
// history sidesteps the merge entirely.
//
// # Output Discipline
//
// "Respond ONLY with the extracted context" matters more here
// than in chat use: the response body becomes the digest
// turn's content verbatim. Preamble ("Here is the extracted
// context:") or closing language ("In summary, we...") would
// be injected into the agent's context on every subsequent
// turn. Closing language is the worse of the two — it reads
// as a conclusion and can convince the agent the work is
// done. Keep an equivalent rule in any custom prompt.
//
// # What Reaches the Model
//
// The placeholder receives one line per message: "User:",
// "Assistant:", "System:", "Tool Call [name]: args", and
// "Tool [name]: result" with results truncated to 500
// characters. Truncation is deliberate: full tool payloads
// are the bulk of most agent transcripts and the digest
// rarely needs more than their shape. If your tools return
// information the digest must preserve exactly, lower the
// trigger so reductions happen before payloads age out, or
// extend the budget with WithDigestInputBudget.
const DefaultDigestPrompt = `<role>
Context Extraction Assistant
</role>

<primary_objective>
Extract the most relevant context from the conversation ` +
	`history below.
</primary_objective>

<objective_information>
You're nearing the token limit and must extract key ` +
	`information. This context will overwrite the ` +
	`conversation history, so include only the most ` +
	`important information.
</objective_information>

<instructions>
The conversation history will be replaced with your ` +
	`extracted context. Extract and record the most ` +
	`important context. Focus on information relevant to ` +
	`the overall goal. Avoid repeating completed actions.
</instructions>

Read the message history carefully. Think about what is ` +
	`most important to preserve. Extract only essential ` +
	`context.

Respond ONLY with the extracted context. No additional ` +
	`information.

<messages>
Messages to summarize:
%s
</messages>`

// Process implements winnow.Processor.
func (s *Summarizer) Process(
	ctx context.Context,
	transcript []winnow.Turn,
) ([]winnow.Turn, error) {
	reportOrphans(ctx, s.registry, transcript)

	cond, fired := s.sizer.FiredCondition(transcript)
	if !fired {
		return transcript, nil
	}
	reportTrigger(ctx, s.registry, s.sizer, transcript, cond)

	retain := s.sizer.RetentionCount(transcript)
	cut := winnow.SafeCutoff(transcript, retain)
	if cut <= 0 {
		return transcript, nil
	}

	prefix := transcript[:cut]
	suffix := transcript[cut:]

	digest, err := s.digest(ctx, prefix)
	if err != nil {
		reportDigestFailed(ctx, s.registry, err, len(prefix))
		return transcript, err
	}

	reduced := make([]winnow.Turn, 0, 1+len(suffix))
	reduced = append(
		reduced, winnow.NewDigestTurn(digestHeader+digest),
	)
	reduced = append(reduced, suffix...)

	reportReduced(
		ctx, s.registry, s.sizer,
		"summarizer", cut, transcript, reduced,
	)
	return reduced, nil
}

// digest formats the prefix, bounded by the digest input
// budget, and asks the model to extract its context.
func (s *Summarizer) digest(
	ctx context.Context,
	prefix []winnow.Turn,
) (string, error) {
	if s.digestBudget > 0 {
		fit := s.sizer.TurnsWithinTokens(prefix, s.digestBudget)
		prefix = prefix[len(prefix)-fit:]
	}

	fullPrompt := fmt.Sprintf(
		s.prompt, formatTranscript(prefix),
	)

	// One-shot call: the entire response body becomes the
	// digest turn's content.
	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextContent{Text: fullPrompt},
			},
		},
	}
	response, err := s.model.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("digest model call: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf(
			"digest model returned no choices",
		)
	}
	return response.Choices[0].Content, nil
}

// formatTranscript renders turns as plain text for the digest
// prompt, one line per message part.
func formatTranscript(turns []winnow.Turn) string {
	if len(turns) == 0 {
		return "No previous conversation history."
	}
	var lines []string
	for _, turn := range turns {
		lines = append(lines, formatTurn(turn)...)
	}
	return strings.Join(lines, "\n")
}

// formatTurn renders one turn. Multi-part turns yield one line
// per part; binary parts are skipped.
func formatTurn(turn winnow.Turn) []string {
	var lines []string
	for _, part := range turn.Parts {
		switch p := part.(type) {
		case llms.TextContent:
			lines = append(lines, rolePrefix(turn)+p.Text)
		case llms.ToolCall:
			if p.FunctionCall == nil {
				continue
			}
			lines = append(lines, fmt.Sprintf(
				"Tool Call [%s]: %s",
				p.FunctionCall.Name,
				p.FunctionCall.Arguments,
			))
		case llms.ToolCallResponse:
			lines = append(lines, fmt.Sprintf(
				"Tool [%s]: %s",
				p.Name,
				truncate(p.Content, toolResultPreviewLimit),
			))
		}
	}
	return lines
}

func rolePrefix(turn winnow.Turn) string {
	if turn.IsDigest() {
		return "System: "
	}
	switch turn.Role {
	case llms.ChatMessageTypeHuman:
		return "User: "
	case llms.ChatMessageTypeSystem:
		return "System: "
	default:
		return "Assistant: "
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// Compile-time check.
var _ winnow.Processor = (*Summarizer)(nil)
