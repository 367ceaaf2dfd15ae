package winnow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextSize_Constructors(t *testing.T) {
	type expected struct {
		kind  SizeKind
		value float64
		str   string
	}

	tests := []struct {
		name     string
		size     ContextSize
		expected expected
	}{
		{
			name: "messages",
			size: Messages(50),
			expected: expected{
				kind:  SizeMessages,
				value: 50,
				str:   "messages(50)",
			},
		},
		{
			name: "tokens",
			size: Tokens(170000),
			expected: expected{
				kind:  SizeTokens,
				value: 170000,
				str:   "tokens(170000)",
			},
		},
		{
			name: "fraction",
			size: Fraction(0.8),
			expected: expected{
				kind:  SizeFraction,
				value: 0.8,
				str:   "fraction(0.8)",
			},
		},
		{
			name: "fraction at upper bound",
			size: Fraction(1),
			expected: expected{
				kind:  SizeFraction,
				value: 1,
				str:   "fraction(1)",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected.kind, tc.size.Kind())
			assert.Equal(t, tc.expected.value, tc.size.Value())
			assert.Equal(t, tc.expected.str, tc.size.String())
			assert.False(t, tc.size.IsZero())
		})
	}
}

func TestContextSize_PanicsOnInvalidValues(t *testing.T) {
	tests := []struct {
		name      string
		construct func()
	}{
		{
			name:      "messages zero",
			construct: func() { Messages(0) },
		},
		{
			name:      "messages negative",
			construct: func() { Messages(-5) },
		},
		{
			name:      "tokens zero",
			construct: func() { Tokens(0) },
		},
		{
			name:      "tokens negative",
			construct: func() { Tokens(-100) },
		},
		{
			name:      "fraction zero",
			construct: func() { Fraction(0) },
		},
		{
			name:      "fraction negative",
			construct: func() { Fraction(-0.1) },
		},
		{
			name:      "fraction above one",
			construct: func() { Fraction(1.01) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Panics(t, tc.construct)
		})
	}
}

func TestContextSize_ZeroValue(t *testing.T) {
	var zero ContextSize
	assert.True(t, zero.IsZero())
	assert.Equal(t, SizeKind(""), zero.Kind())
	assert.Equal(t, 0.0, zero.Value())
}
