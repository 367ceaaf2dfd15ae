package winnow

import (
	"fmt"
	"strconv"
)

// SizeKind selects how transcript size is quantified.
type SizeKind string

const (
	// SizeMessages measures size as the number of turns.
	SizeMessages SizeKind = "messages"

	// SizeTokens measures size as the token estimate produced by
	// the configured TokenCounter.
	SizeTokens SizeKind = "tokens"

	// SizeFraction measures size as the token estimate divided
	// by Config.MaxInputTokens. Using it requires the capacity
	// to be set; Config.Validate enforces this at construction.
	SizeFraction SizeKind = "fraction"
)

// ContextSize is a tagged size value. It serves two roles with
// identical shape: as a trigger condition ("reduce the
// transcript when it reaches this size") and as a retention
// target ("keep this much of the tail after reducing").
//
// Construct values with [Messages], [Tokens], or [Fraction].
// The constructors validate eagerly and panic on out-of-range
// values, so an invalid ContextSize never reaches trigger
// evaluation. The zero value is invalid and rejected by
// Config.Validate.
type ContextSize struct {
	kind  SizeKind
	value float64
}

// Messages returns a ContextSize counted in turns. Panics if n
// is not positive.
func Messages(n int) ContextSize {
	if n <= 0 {
		panic(fmt.Sprintf(
			"winnow: Messages threshold must be > 0, got %d", n,
		))
	}
	return ContextSize{kind: SizeMessages, value: float64(n)}
}

// Tokens returns a ContextSize counted in tokens. Panics if n
// is not positive.
func Tokens(n int) ContextSize {
	if n <= 0 {
		panic(fmt.Sprintf(
			"winnow: Tokens threshold must be > 0, got %d", n,
		))
	}
	return ContextSize{kind: SizeTokens, value: float64(n)}
}

// Fraction returns a ContextSize expressed as a fraction of
// Config.MaxInputTokens. Panics unless 0 < f <= 1.
func Fraction(f float64) ContextSize {
	if f <= 0 || f > 1 {
		panic(fmt.Sprintf(
			"winnow: Fraction value must be within (0, 1], got %v", f,
		))
	}
	return ContextSize{kind: SizeFraction, value: f}
}

// Kind returns the size kind tag.
func (c ContextSize) Kind() SizeKind {
	return c.kind
}

// Value returns the raw threshold. For SizeMessages and
// SizeTokens this is a whole number of turns or tokens; for
// SizeFraction it is the fraction itself.
func (c ContextSize) Value() float64 {
	return c.value
}

// IsZero reports whether c is the invalid zero value.
func (c ContextSize) IsZero() bool {
	return c.kind == ""
}

// String renders the size as "kind(value)", e.g. "messages(50)"
// or "fraction(0.8)".
func (c ContextSize) String() string {
	if c.kind == SizeFraction {
		f := strconv.FormatFloat(c.value, 'g', -1, 64)
		return string(c.kind) + "(" + f + ")"
	}
	n := strconv.FormatInt(int64(c.value), 10)
	return string(c.kind) + "(" + n + ")"
}
