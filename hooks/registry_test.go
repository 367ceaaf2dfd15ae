package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rickchristie/winnow"
	"github.com/rickchristie/winnow/internal/tt"
)

// reducedOnlyHook implements just winnow.ReducedHook.
type reducedOnlyHook struct {
	name   string
	events []winnow.ReducedEvent
	order  *[]string
}

func (h *reducedOnlyHook) OnReduced(
	_ context.Context,
	event winnow.ReducedEvent,
) {
	h.events = append(h.events, event)
	if h.order != nil {
		*h.order = append(*h.order, h.name)
	}
}

func TestRegistry_RegisterAndLen(t *testing.T) {
	registry := NewRegistry()
	assert.Equal(t, 0, registry.Len())

	registry.Register(tt.NewRecordingHook()).
		Register(&reducedOnlyHook{})

	assert.Equal(t, 2, registry.Len())

	registry.Clear()
	assert.Equal(t, 0, registry.Len())
}

func TestRegistry_DispatchesToImplementersOnly(t *testing.T) {
	registry := NewRegistry()
	full := tt.NewRecordingHook()
	partial := &reducedOnlyHook{}
	registry.Register(full).Register(partial)

	ctx := context.Background()
	registry.FireTriggerFired(ctx, winnow.TriggerFiredEvent{
		Condition: winnow.Messages(12),
		Turns:     12,
	})
	registry.FireReduced(ctx, winnow.ReducedEvent{
		Strategy: "sliding_window",
		Cut:      6,
	})

	// The full hook sees both events; the partial hook only the
	// one it implements.
	assert.Len(t, full.TriggerFired, 1)
	assert.Equal(t, 12, full.TriggerFired[0].Turns)
	assert.Len(t, full.Reduced, 1)

	assert.Len(t, partial.events, 1)
	assert.Equal(t, "sliding_window", partial.events[0].Strategy)
}

func TestRegistry_CallsHooksInRegistrationOrder(t *testing.T) {
	var order []string
	registry := NewRegistry()
	registry.Register(&reducedOnlyHook{name: "first", order: &order})
	registry.Register(&reducedOnlyHook{name: "second", order: &order})

	registry.FireReduced(
		context.Background(), winnow.ReducedEvent{},
	)

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestRegistry_FiresAllEventTypes(t *testing.T) {
	registry := NewRegistry()
	hook := tt.NewRecordingHook()
	registry.Register(hook)

	ctx := context.Background()
	registry.FireTriggerFired(ctx, winnow.TriggerFiredEvent{})
	registry.FireReduced(ctx, winnow.ReducedEvent{})
	registry.FireDigestFailed(ctx, winnow.DigestFailedEvent{
		Err: errors.New("model unavailable"),
	})
	registry.FireOrphanedResults(ctx, winnow.OrphanedResultsEvent{
		ToolCallIDs: []string{"call-1"},
	})

	assert.Len(t, hook.TriggerFired, 1)
	assert.Len(t, hook.Reduced, 1)
	assert.Len(t, hook.DigestFailed, 1)
	assert.EqualError(t, hook.DigestFailed[0].Err, "model unavailable")
	assert.Len(t, hook.OrphanedResults, 1)
	assert.Equal(
		t, []string{"call-1"}, hook.OrphanedResults[0].ToolCallIDs,
	)
}
