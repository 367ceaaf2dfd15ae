package policy

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rickchristie/winnow"
	"github.com/rickchristie/winnow/hooks"
	"github.com/rickchristie/winnow/reduce"
	"github.com/rickchristie/winnow/schema"
	"github.com/rickchristie/winnow/tokens"
	"github.com/tmc/langchaingo/llms"
)

// documentSchema validates the structure of a policy document
// before it is decoded: field types, strategy and kind enums,
// and required fields. Value semantics (positive thresholds,
// fraction range, capacity requirements) are checked by Config.
var documentSchema = schema.MustCompile(schema.Object(
	map[string]*schema.Property{
		"strategy": schema.String("Reduction strategy").
			Enum(StrategySummarizer, StrategySlidingWindow),
		"trigger": schema.Array(
			"Trigger conditions, OR-combined",
			schema.Object(conditionProps(), "kind", "value"),
		),
		"keep": schema.ObjectProp(
			"Retention target", conditionProps(), "kind", "value",
		),
		"max_input_tokens": schema.Integer(
			"Model context capacity in tokens",
		).Min(1),
		"counter": schema.ObjectProp(
			"Token counter selection",
			map[string]*schema.Property{
				"type": schema.String("Counter implementation").
					Enum(CounterEstimate, CounterTiktoken),
				"model": schema.String(
					"Model name for tiktoken encodings",
				),
			}, "type",
		),
		"digest": schema.ObjectProp(
			"Summarizer tuning",
			map[string]*schema.Property{
				"input_budget": schema.Integer(
					"Token budget for digest input, 0 disables",
				).Min(0),
				"prompt_template": schema.String(
					"Digest prompt with one %s placeholder",
				),
			},
		),
	}, "strategy", "keep",
))

func conditionProps() map[string]*schema.Property {
	return map[string]*schema.Property{
		"kind": schema.String("Size kind").
			Enum("messages", "tokens", "fraction"),
		"value": schema.Number("Threshold value").Min(0),
	}
}

// Config converts the document into a winnow.Config, building
// the configured token counter along the way. Returns an error
// for value-level problems the schema cannot express (zero
// thresholds, fractions above 1, fraction sizes without
// max_input_tokens).
func (d *Document) Config() (winnow.Config, error) {
	var cfg winnow.Config

	for i, cond := range d.Trigger {
		size, err := cond.size()
		if err != nil {
			return winnow.Config{}, fmt.Errorf(
				"trigger[%d]: %w", i, err,
			)
		}
		cfg.Trigger = append(cfg.Trigger, size)
	}

	if d.Keep != (Condition{}) {
		size, err := d.Keep.size()
		if err != nil {
			return winnow.Config{}, fmt.Errorf("keep: %w", err)
		}
		cfg.Keep = size
	}

	cfg.MaxInputTokens = d.MaxInputTokens

	if d.Counter != nil {
		counter, err := d.Counter.counter()
		if err != nil {
			return winnow.Config{}, fmt.Errorf("counter: %w", err)
		}
		cfg.Counter = counter
	}

	if err := cfg.Validate(); err != nil {
		return winnow.Config{}, err
	}
	return cfg, nil
}

// Build constructs the processor the document describes. The
// model is required for summarizer policies and ignored by
// sliding_window ones; registry may be nil when no hooks are
// wanted.
func (d *Document) Build(
	model llms.Model,
	registry *hooks.Registry,
) (winnow.Processor, error) {
	cfg, err := d.Config()
	if err != nil {
		return nil, err
	}

	switch d.Strategy {
	case StrategySlidingWindow:
		window := reduce.NewSlidingWindow(cfg)
		if registry != nil {
			window.WithHooks(registry)
		}
		return window, nil

	case StrategySummarizer:
		if model == nil {
			return nil, fmt.Errorf(
				"strategy %q requires a digest model", d.Strategy,
			)
		}
		summarizer := reduce.NewSummarizer(model, cfg)
		if d.Digest != nil {
			if err := d.applyDigest(summarizer); err != nil {
				return nil, err
			}
		}
		if registry != nil {
			summarizer.WithHooks(registry)
		}
		return summarizer, nil

	default:
		// Parse rejects unknown strategies; this is for
		// documents constructed in code.
		return nil, fmt.Errorf("unknown strategy %q", d.Strategy)
	}
}

func (d *Document) applyDigest(
	summarizer *reduce.Summarizer,
) error {
	if d.Digest.PromptTemplate != "" {
		if strings.Count(d.Digest.PromptTemplate, "%s") != 1 {
			return fmt.Errorf(
				"digest prompt_template must contain exactly" +
					" one %%s placeholder",
			)
		}
		summarizer.WithPromptTemplate(d.Digest.PromptTemplate)
	}
	if d.Digest.InputBudget != nil {
		if *d.Digest.InputBudget < 0 {
			return fmt.Errorf(
				"digest input_budget must not be negative, got %d",
				*d.Digest.InputBudget,
			)
		}
		summarizer.WithDigestInputBudget(*d.Digest.InputBudget)
	}
	return nil
}

func (c Condition) size() (winnow.ContextSize, error) {
	switch c.Kind {
	case "messages":
		n, err := positiveInt(c.Value)
		if err != nil {
			return winnow.ContextSize{}, err
		}
		return winnow.Messages(n), nil
	case "tokens":
		n, err := positiveInt(c.Value)
		if err != nil {
			return winnow.ContextSize{}, err
		}
		return winnow.Tokens(n), nil
	case "fraction":
		if c.Value <= 0 || c.Value > 1 {
			return winnow.ContextSize{}, fmt.Errorf(
				"fraction value must be within (0, 1], got %v",
				c.Value,
			)
		}
		return winnow.Fraction(c.Value), nil
	default:
		return winnow.ContextSize{}, fmt.Errorf(
			"unknown size kind %q", c.Kind,
		)
	}
}

func (c *CounterSpec) counter() (winnow.TokenCounter, error) {
	switch c.Type {
	case "", CounterEstimate:
		// Leave Config.Counter nil; the character estimate is
		// the default.
		return nil, nil
	case CounterTiktoken:
		return tokens.ForModel(c.Model)
	default:
		return nil, fmt.Errorf("unknown counter type %q", c.Type)
	}
}

func positiveInt(v float64) (int, error) {
	n := int(v)
	if float64(n) != v || n <= 0 {
		return 0, fmt.Errorf(
			"value must be a positive integer, got %v", v,
		)
	}
	return n, nil
}

// normalizeJSON round-trips a decoded YAML value through JSON so
// the schema validator sees the value types it expects (float64
// numbers, map[string]any objects, []any arrays).
func normalizeJSON(v any) (any, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize policy document: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(encoded, &normalized); err != nil {
		return nil, fmt.Errorf("normalize policy document: %w", err)
	}
	return normalized, nil
}
