// Package policy loads declarative reduction policies.
//
// A policy is a YAML document describing when and how a
// transcript should be reduced. Hosts that want reduction
// behavior configurable per deployment (or per agent) ship a
// policy file instead of hardcoding a strategy:
//
//	strategy: summarizer
//	trigger:
//	  - kind: tokens
//	    value: 170000
//	  - kind: fraction
//	    value: 0.8
//	keep:
//	  kind: messages
//	  value: 20
//	max_input_tokens: 200000
//	counter:
//	  type: tiktoken
//	  model: gpt-4o-mini
//	digest:
//	  input_budget: 4000
//
// Documents are validated against a JSON Schema before decoding,
// so malformed files fail with a field-level message rather than
// a zero-valued config:
//
//	doc, err := policy.Load("reduction.yaml")
//	if err != nil {
//	    return err
//	}
//	processor, err := doc.Build(digestModel, nil)
//
// Build never panics on bad file data; every construction-time
// panic of the underlying strategies is converted to an error
// here, because a policy file is host input, not programmer
// input.
package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Strategy names accepted by the "strategy" field.
const (
	// StrategySummarizer replaces the discarded prefix with a
	// model-generated digest turn. Requires a digest model.
	StrategySummarizer = "summarizer"

	// StrategySlidingWindow drops the discarded prefix outright.
	StrategySlidingWindow = "sliding_window"
)

// Counter types accepted by the "counter.type" field.
const (
	// CounterEstimate selects the built-in character estimate
	// (the default when no counter is configured).
	CounterEstimate = "estimate"

	// CounterTiktoken selects a tiktoken encoding chosen by
	// "counter.model".
	CounterTiktoken = "tiktoken"
)

// Document is a parsed reduction policy.
type Document struct {
	// Strategy selects the reduction strategy: "summarizer" or
	// "sliding_window".
	Strategy string `yaml:"strategy"`

	// Trigger lists the conditions that start a reduction,
	// OR-combined. An empty list never fires.
	Trigger []Condition `yaml:"trigger"`

	// Keep is the retention target: how much of the transcript
	// tail survives a reduction.
	Keep Condition `yaml:"keep"`

	// MaxInputTokens is the context capacity that fraction
	// conditions are resolved against.
	MaxInputTokens int `yaml:"max_input_tokens"`

	// Counter selects the token counter. Nil means the built-in
	// character estimate.
	Counter *CounterSpec `yaml:"counter"`

	// Digest tunes the summarizer strategy. Ignored by
	// sliding_window.
	Digest *DigestSpec `yaml:"digest"`
}

// Condition is one size threshold: a kind ("messages", "tokens",
// "fraction") and its value.
type Condition struct {
	Kind  string  `yaml:"kind"`
	Value float64 `yaml:"value"`
}

// CounterSpec selects a token counter implementation.
type CounterSpec struct {
	Type string `yaml:"type"`

	// Model names the tokenizer for CounterTiktoken ("gpt-4o",
	// ...). Unknown models fall back to cl100k_base.
	Model string `yaml:"model"`
}

// DigestSpec tunes the summarizer strategy.
type DigestSpec struct {
	// InputBudget caps the token estimate of the prefix handed
	// to the digest model. Zero disables the cap; nil keeps the
	// strategy default.
	InputBudget *int `yaml:"input_budget"`

	// PromptTemplate overrides the digest prompt. Must contain
	// exactly one %s placeholder.
	PromptTemplate string `yaml:"prompt_template"`
}

// Load reads and parses a policy file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse validates a YAML policy document against the policy
// schema and decodes it. Schema violations surface as
// *schema.ValidationError with the offending field in the
// message.
func Parse(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse policy yaml: %w", err)
	}

	normalized, err := normalizeJSON(raw)
	if err != nil {
		return nil, err
	}
	if err := documentSchema.Validate(normalized); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode policy: %w", err)
	}
	return &doc, nil
}
