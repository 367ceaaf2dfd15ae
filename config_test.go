package winnow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		err  string
	}{
		{
			name: "keep only is valid",
			cfg:  Config{Keep: Messages(20)},
		},
		{
			name: "trigger and keep valid",
			cfg: Config{
				Trigger: []ContextSize{
					Messages(100), Tokens(170000),
				},
				Keep: Messages(20),
			},
		},
		{
			name: "fraction with capacity valid",
			cfg: Config{
				Trigger:        []ContextSize{Fraction(0.8)},
				Keep:           Fraction(0.3),
				MaxInputTokens: 200000,
			},
		},
		{
			name: "missing keep",
			cfg:  Config{Trigger: []ContextSize{Messages(100)}},
			err:  "winnow: Config.Keep is required",
		},
		{
			name: "zero value trigger entry",
			cfg: Config{
				Trigger: []ContextSize{{}},
				Keep:    Messages(20),
			},
			err: "winnow: Config.Trigger contains a zero" +
				" ContextSize (use Messages, Tokens, or Fraction)",
		},
		{
			name: "fraction trigger without capacity",
			cfg: Config{
				Trigger: []ContextSize{Fraction(0.8)},
				Keep:    Messages(20),
			},
			err: "winnow: Config.MaxInputTokens is required when" +
				" Trigger or Keep uses fraction sizes",
		},
		{
			name: "fraction keep without capacity",
			cfg: Config{
				Trigger: []ContextSize{Messages(100)},
				Keep:    Fraction(0.5),
			},
			err: "winnow: Config.MaxInputTokens is required when" +
				" Trigger or Keep uses fraction sizes",
		},
		{
			name: "negative capacity",
			cfg: Config{
				Keep:           Messages(20),
				MaxInputTokens: -1,
			},
			err: "winnow: Config.MaxInputTokens must not be" +
				" negative",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.err == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tc.err)
			}
		})
	}
}

func TestConfig_CounterDefaultsToEstimate(t *testing.T) {
	cfg := Config{Keep: Messages(1)}
	counter := cfg.counter()
	// 5 chars -> 2 tokens under the default heuristic.
	assert.Equal(t, 2, counter([]Turn{NewUserTurn("hello")}))
}

func TestConfig_CounterUsesCustom(t *testing.T) {
	cfg := Config{
		Keep:    Messages(1),
		Counter: func(turns []Turn) int { return 42 * len(turns) },
	}
	counter := cfg.counter()
	assert.Equal(t, 84, counter(make([]Turn, 2)))
}
