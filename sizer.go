package winnow

// Sizer quantifies transcripts and resolves the trigger and
// retention semantics of a Config.
//
// It is the shared primitive under every reduction strategy:
// strategies ask it whether the transcript has grown past the
// configured trigger, and if so, how many tail turns the keep
// target translates to. It holds only frozen configuration, so
// a single Sizer is safe for concurrent use across distinct
// transcripts.
//
// # Trigger Semantics
//
// Conditions combine with OR and compare with >=. A fraction
// condition fires when the token estimate reaches value *
// MaxInputTokens. An empty condition list never fires.
//
// # Retention Semantics
//
// A messages keep target resolves to the threshold itself,
// clamped to the transcript length. A tokens keep target
// resolves by scanning from the newest turn backward,
// accumulating per-turn estimates while they fit in the budget;
// if even the newest turn alone exceeds the budget, one turn is
// still retained so a non-empty transcript never resolves to
// zero. A fraction keep target converts to a token budget
// first.
type Sizer struct {
	cfg     Config
	counter TokenCounter
}

// NewSizer returns a Sizer for cfg. Panics if cfg is invalid;
// see Config.Validate.
func NewSizer(cfg Config) *Sizer {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return &Sizer{cfg: cfg, counter: cfg.counter()}
}

// Measure returns the transcript size under the given kind:
// turn count for SizeMessages, token estimate for SizeTokens,
// and token estimate divided by MaxInputTokens for
// SizeFraction.
func (s *Sizer) Measure(transcript []Turn, kind SizeKind) float64 {
	switch kind {
	case SizeMessages:
		return float64(len(transcript))
	case SizeTokens:
		return float64(s.counter(transcript))
	case SizeFraction:
		tokens := float64(s.counter(transcript))
		return tokens / float64(s.cfg.MaxInputTokens)
	}
	panic("winnow: unsupported size kind: " + string(kind))
}

// ShouldTrigger reports whether any configured trigger
// condition is satisfied by the transcript. False when no
// conditions are configured.
func (s *Sizer) ShouldTrigger(transcript []Turn) bool {
	for _, cond := range s.cfg.Trigger {
		if s.satisfied(transcript, cond) {
			return true
		}
	}
	return false
}

// FiredCondition returns the first satisfied trigger condition
// and true, or the zero ContextSize and false when none fire.
func (s *Sizer) FiredCondition(transcript []Turn) (ContextSize, bool) {
	for _, cond := range s.cfg.Trigger {
		if s.satisfied(transcript, cond) {
			return cond, true
		}
	}
	return ContextSize{}, false
}

func (s *Sizer) satisfied(transcript []Turn, cond ContextSize) bool {
	switch cond.Kind() {
	case SizeMessages:
		return float64(len(transcript)) >= cond.Value()
	case SizeTokens:
		return float64(s.counter(transcript)) >= cond.Value()
	case SizeFraction:
		budget := cond.Value() * float64(s.cfg.MaxInputTokens)
		return float64(s.counter(transcript)) >= budget
	}
	panic("winnow: unsupported size kind: " + string(cond.Kind()))
}

// RetentionCount resolves the configured keep target to a tail
// length in turns for the given transcript.
func (s *Sizer) RetentionCount(transcript []Turn) int {
	keep := s.cfg.Keep
	switch keep.Kind() {
	case SizeMessages:
		n := int(keep.Value())
		if n > len(transcript) {
			n = len(transcript)
		}
		return n
	case SizeTokens:
		return s.TurnsWithinTokens(transcript, int(keep.Value()))
	case SizeFraction:
		budget := keep.Value() * float64(s.cfg.MaxInputTokens)
		return s.TurnsWithinTokens(transcript, int(budget))
	}
	panic("winnow: unsupported size kind: " + string(keep.Kind()))
}

// TurnsWithinTokens counts how many tail turns fit in a token
// budget, scanning newest to oldest with per-turn estimates.
// A non-empty transcript always yields at least 1, even when
// the newest turn alone exceeds the budget. Besides retention,
// the summarizer uses this to bound how much of a discarded
// prefix is handed to the digest model.
func (s *Sizer) TurnsWithinTokens(transcript []Turn, budget int) int {
	if len(transcript) == 0 {
		return 0
	}
	total := 0
	count := 0
	for i := len(transcript) - 1; i >= 0; i-- {
		cost := s.counter(transcript[i : i+1])
		if total+cost > budget {
			break
		}
		total += cost
		count++
	}
	if count == 0 {
		// Even the newest turn exceeds the budget. Retaining
		// zero turns would discard the message currently being
		// answered, so keep that one turn regardless.
		return 1
	}
	return count
}
