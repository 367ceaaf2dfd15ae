package policy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rickchristie/winnow"
	"github.com/rickchristie/winnow/hooks"
	"github.com/rickchristie/winnow/internal/tt"
	"github.com/rickchristie/winnow/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestParse(t *testing.T) {
	type expected struct {
		err             string
		isValidationErr bool
	}

	tests := []struct {
		name     string
		yaml     string
		expected expected
	}{
		{
			name: "full summarizer document",
			yaml: `
strategy: summarizer
trigger:
  - kind: tokens
    value: 170000
  - kind: fraction
    value: 0.8
keep:
  kind: messages
  value: 20
max_input_tokens: 200000
counter:
  type: estimate
digest:
  input_budget: 4000
`,
		},
		{
			name: "minimal sliding window document",
			yaml: `
strategy: sliding_window
keep:
  kind: messages
  value: 50
`,
		},
		{
			name: "invalid yaml syntax",
			yaml: "strategy: [unclosed",
			expected: expected{
				err: "parse policy yaml",
			},
		},
		{
			name: "missing strategy",
			yaml: `
keep:
  kind: messages
  value: 50
`,
			expected: expected{
				err:             "schema validation failed",
				isValidationErr: true,
			},
		},
		{
			name: "missing keep",
			yaml: `
strategy: sliding_window
`,
			expected: expected{
				err:             "schema validation failed",
				isValidationErr: true,
			},
		},
		{
			name: "unknown strategy",
			yaml: `
strategy: compactor
keep:
  kind: messages
  value: 50
`,
			expected: expected{
				err:             "schema validation failed",
				isValidationErr: true,
			},
		},
		{
			name: "unknown size kind",
			yaml: `
strategy: sliding_window
keep:
  kind: turns
  value: 50
`,
			expected: expected{
				err:             "schema validation failed",
				isValidationErr: true,
			},
		},
		{
			name: "negative trigger value",
			yaml: `
strategy: sliding_window
trigger:
  - kind: tokens
    value: -100
keep:
  kind: messages
  value: 50
`,
			expected: expected{
				err:             "schema validation failed",
				isValidationErr: true,
			},
		},
		{
			name: "keep value of wrong type",
			yaml: `
strategy: sliding_window
keep:
  kind: messages
  value: fifty
`,
			expected: expected{
				err:             "schema validation failed",
				isValidationErr: true,
			},
		},
		{
			name: "empty document",
			yaml: "",
			expected: expected{
				err:             "schema validation failed",
				isValidationErr: true,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Parse([]byte(tc.yaml))

			if tc.expected.err != "" {
				assert.Nil(t, doc)
				assert.ErrorContains(t, err, tc.expected.err)
				if tc.expected.isValidationErr {
					var verr *schema.ValidationError
					assert.True(t, errors.As(err, &verr),
						"expected *schema.ValidationError, got %T", err)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, doc)
		})
	}
}

func TestParse_DecodesFields(t *testing.T) {
	doc, err := Parse([]byte(`
strategy: summarizer
trigger:
  - kind: tokens
    value: 170000
  - kind: fraction
    value: 0.8
keep:
  kind: messages
  value: 20
max_input_tokens: 200000
counter:
  type: tiktoken
  model: gpt-4o-mini
digest:
  input_budget: 4000
  prompt_template: "Condense this: %s"
`))
	require.NoError(t, err)

	assert.Equal(t, StrategySummarizer, doc.Strategy)
	require.Len(t, doc.Trigger, 2)
	assert.Equal(t, Condition{Kind: "tokens", Value: 170000}, doc.Trigger[0])
	assert.Equal(t, Condition{Kind: "fraction", Value: 0.8}, doc.Trigger[1])
	assert.Equal(t, Condition{Kind: "messages", Value: 20}, doc.Keep)
	assert.Equal(t, 200000, doc.MaxInputTokens)
	require.NotNil(t, doc.Counter)
	assert.Equal(t, CounterTiktoken, doc.Counter.Type)
	assert.Equal(t, "gpt-4o-mini", doc.Counter.Model)
	require.NotNil(t, doc.Digest)
	require.NotNil(t, doc.Digest.InputBudget)
	assert.Equal(t, 4000, *doc.Digest.InputBudget)
	assert.Equal(t, "Condense this: %s", doc.Digest.PromptTemplate)
}

func TestDocument_Config(t *testing.T) {
	type expected struct {
		err     string
		trigger []winnow.ContextSize
		keep    winnow.ContextSize
	}

	tests := []struct {
		name     string
		doc      Document
		expected expected
	}{
		{
			name: "messages and tokens convert",
			doc: Document{
				Strategy: StrategySlidingWindow,
				Trigger: []Condition{
					{Kind: "messages", Value: 100},
					{Kind: "tokens", Value: 170000},
				},
				Keep: Condition{Kind: "messages", Value: 50},
			},
			expected: expected{
				trigger: []winnow.ContextSize{
					winnow.Messages(100),
					winnow.Tokens(170000),
				},
				keep: winnow.Messages(50),
			},
		},
		{
			name: "fraction converts with capacity",
			doc: Document{
				Strategy: StrategySlidingWindow,
				Trigger: []Condition{
					{Kind: "fraction", Value: 0.8},
				},
				Keep:           Condition{Kind: "fraction", Value: 0.25},
				MaxInputTokens: 200000,
			},
			expected: expected{
				trigger: []winnow.ContextSize{winnow.Fraction(0.8)},
				keep:    winnow.Fraction(0.25),
			},
		},
		{
			name: "fractional messages value rejected",
			doc: Document{
				Strategy: StrategySlidingWindow,
				Keep:     Condition{Kind: "messages", Value: 2.5},
			},
			expected: expected{
				err: "keep: value must be a positive integer",
			},
		},
		{
			name: "zero threshold rejected",
			doc: Document{
				Strategy: StrategySlidingWindow,
				Trigger: []Condition{
					{Kind: "tokens", Value: 0},
				},
				Keep: Condition{Kind: "messages", Value: 50},
			},
			expected: expected{
				err: "trigger[0]: value must be a positive integer",
			},
		},
		{
			name: "fraction above one rejected",
			doc: Document{
				Strategy:       StrategySlidingWindow,
				Keep:           Condition{Kind: "fraction", Value: 1.5},
				MaxInputTokens: 1000,
			},
			expected: expected{
				err: "keep: fraction value must be within (0, 1]",
			},
		},
		{
			name: "fraction without capacity rejected",
			doc: Document{
				Strategy: StrategySlidingWindow,
				Keep:     Condition{Kind: "fraction", Value: 0.5},
			},
			expected: expected{
				err: "winnow: Config.MaxInputTokens is required",
			},
		},
		{
			name: "missing keep rejected",
			doc: Document{
				Strategy: StrategySlidingWindow,
			},
			expected: expected{
				err: "winnow: Config.Keep is required",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := tc.doc.Config()

			if tc.expected.err != "" {
				assert.ErrorContains(t, err, tc.expected.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected.trigger, cfg.Trigger)
			assert.Equal(t, tc.expected.keep, cfg.Keep)
		})
	}
}

func TestDocument_Config_EstimateCounterIsDefault(t *testing.T) {
	doc := Document{
		Strategy: StrategySlidingWindow,
		Keep:     Condition{Kind: "messages", Value: 50},
		Counter:  &CounterSpec{Type: CounterEstimate},
	}
	cfg, err := doc.Config()
	require.NoError(t, err)
	assert.Nil(t, cfg.Counter)
}

func TestDocument_Config_TiktokenCounter(t *testing.T) {
	doc := Document{
		Strategy: StrategySlidingWindow,
		Keep:     Condition{Kind: "messages", Value: 50},
		Counter:  &CounterSpec{Type: CounterTiktoken, Model: "gpt-4o"},
	}
	cfg, err := doc.Config()
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}
	assert.NotNil(t, cfg.Counter)
	assert.Greater(t,
		cfg.Counter([]winnow.Turn{winnow.NewUserTurn("hi")}),
		0,
	)
}

func TestDocument_Build_SlidingWindow(t *testing.T) {
	doc, err := Parse([]byte(`
strategy: sliding_window
trigger:
  - kind: messages
    value: 4
keep:
  kind: messages
  value: 2
`))
	require.NoError(t, err)

	processor, err := doc.Build(nil, nil)
	require.NoError(t, err)

	result, err := processor.Process(
		context.Background(), tt.PlainTurns(6),
	)
	assert.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestDocument_Build_Summarizer(t *testing.T) {
	doc, err := Parse([]byte(`
strategy: summarizer
trigger:
  - kind: messages
    value: 6
keep:
  kind: messages
  value: 1
digest:
  input_budget: 4
  prompt_template: "Condense this: %s"
`))
	require.NoError(t, err)

	model := tt.NewMockModel().AddResponse("condensed")
	processor, err := doc.Build(model, nil)
	require.NoError(t, err)

	result, err := processor.Process(
		context.Background(), tt.PlainTurns(6),
	)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.True(t, result[0].IsDigest())

	// Both digest knobs took effect: the custom template wraps
	// the input, and the 4-token budget admits only the newest
	// prefix turn.
	prompt := model.CapturedMessages[0][0].
		Parts[0].(llms.TextContent).Text
	assert.Contains(t, prompt, "Condense this: ")
	assert.Contains(t, prompt, "User: user 5")
	assert.NotContains(t, prompt, "assistant 4")
}

func TestDocument_Build_SummarizerRequiresModel(t *testing.T) {
	doc := Document{
		Strategy: StrategySummarizer,
		Keep:     Condition{Kind: "messages", Value: 20},
	}
	processor, err := doc.Build(nil, nil)
	assert.Nil(t, processor)
	assert.ErrorContains(t, err, "requires a digest model")
}

func TestDocument_Build_BadPromptTemplate(t *testing.T) {
	doc := Document{
		Strategy: StrategySummarizer,
		Keep:     Condition{Kind: "messages", Value: 20},
		Digest:   &DigestSpec{PromptTemplate: "no placeholder"},
	}
	processor, err := doc.Build(tt.NewMockModel(), nil)
	assert.Nil(t, processor)
	assert.EqualError(t, err,
		"digest prompt_template must contain exactly one %s placeholder")
}

func TestDocument_Build_UnknownStrategy(t *testing.T) {
	doc := Document{
		Strategy: "compactor",
		Keep:     Condition{Kind: "messages", Value: 20},
	}
	processor, err := doc.Build(nil, nil)
	assert.Nil(t, processor)
	assert.ErrorContains(t, err, `unknown strategy "compactor"`)
}

func TestDocument_Build_WiresHooks(t *testing.T) {
	doc, err := Parse([]byte(`
strategy: sliding_window
trigger:
  - kind: messages
    value: 4
keep:
  kind: messages
  value: 2
`))
	require.NoError(t, err)

	hook := tt.NewRecordingHook()
	registry := hooks.NewRegistry().Register(hook)

	processor, err := doc.Build(nil, registry)
	require.NoError(t, err)

	_, err = processor.Process(
		context.Background(), tt.PlainTurns(6),
	)
	assert.NoError(t, err)
	assert.Len(t, hook.TriggerFired, 1)
	assert.Len(t, hook.Reduced, 1)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reduction.yaml")
	err := os.WriteFile(path, []byte(`
strategy: sliding_window
keep:
  kind: messages
  value: 50
`), 0o644)
	require.NoError(t, err)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StrategySlidingWindow, doc.Strategy)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read policy file")
}
