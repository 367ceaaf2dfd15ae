package winnow

import "errors"

// Config is the frozen configuration shared by every reduction
// strategy. It is assembled once, validated at processor
// construction, and never changes afterwards; each invocation
// re-evaluates it against a fresh transcript snapshot.
type Config struct {
	// Trigger holds the conditions that cause a reduction. They
	// combine with OR: any one satisfied condition fires. An
	// empty list means the processor never fires and always
	// returns the transcript unchanged; this is an explicit,
	// supported way to disable a processor, not an error.
	Trigger []ContextSize

	// Keep is how much of the transcript tail to retain after a
	// reduction. Required.
	Keep ContextSize

	// Counter estimates token usage for SizeTokens and
	// SizeFraction evaluation. Nil selects EstimateTokens.
	Counter TokenCounter

	// MaxInputTokens is the model context capacity that
	// SizeFraction sizes are relative to. Required when Trigger
	// or Keep uses SizeFraction, ignored otherwise.
	MaxInputTokens int
}

// Validate reports the first configuration violation, or nil.
//
// Processor constructors call Validate and panic on error, so
// misconfiguration surfaces at construction rather than on some
// later agent turn. Hosts that assemble Config from external
// input (config files, flags) can call it directly and handle
// the error without a panic; the policy package does this.
func (c Config) Validate() error {
	if c.Keep.IsZero() {
		return errors.New("winnow: Config.Keep is required")
	}
	for _, cond := range c.Trigger {
		if cond.IsZero() {
			return errors.New(
				"winnow: Config.Trigger contains a zero ContextSize" +
					" (use Messages, Tokens, or Fraction)",
			)
		}
	}
	if c.MaxInputTokens < 0 {
		return errors.New(
			"winnow: Config.MaxInputTokens must not be negative",
		)
	}
	if c.usesFraction() && c.MaxInputTokens == 0 {
		return errors.New(
			"winnow: Config.MaxInputTokens is required when Trigger" +
				" or Keep uses fraction sizes",
		)
	}
	return nil
}

// counter returns the configured TokenCounter or the default
// heuristic.
func (c Config) counter() TokenCounter {
	if c.Counter != nil {
		return c.Counter
	}
	return EstimateTokens
}

func (c Config) usesFraction() bool {
	if c.Keep.Kind() == SizeFraction {
		return true
	}
	for _, cond := range c.Trigger {
		if cond.Kind() == SizeFraction {
			return true
		}
	}
	return false
}
