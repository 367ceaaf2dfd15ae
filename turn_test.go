package winnow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tmc/langchaingo/llms"
)

func TestTurn_Constructors(t *testing.T) {
	tests := []struct {
		name     string
		turn     Turn
		role     llms.ChatMessageType
		text     string
		isDigest bool
	}{
		{
			name: "user turn",
			turn: NewUserTurn("hi"),
			role: llms.ChatMessageTypeHuman,
			text: "hi",
		},
		{
			name: "assistant turn",
			turn: NewAssistantTurn("hello"),
			role: llms.ChatMessageTypeAI,
			text: "hello",
		},
		{
			name: "system turn",
			turn: NewSystemTurn("be brief"),
			role: llms.ChatMessageTypeSystem,
			text: "be brief",
		},
		{
			name:     "digest turn",
			turn:     NewDigestTurn("summary of it all"),
			role:     llms.ChatMessageTypeGeneric,
			text:     "summary of it all",
			isDigest: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.role, tc.turn.Role)
			assert.Equal(t, tc.text, tc.turn.Text())
			assert.Equal(t, tc.isDigest, tc.turn.IsDigest())
		})
	}
}

func TestTurn_Text(t *testing.T) {
	turn := Turn{
		Role: llms.ChatMessageTypeAI,
		Parts: []llms.ContentPart{
			llms.TextContent{Text: "first"},
			llms.ToolCall{
				ID:   "call-1",
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name: "lookup",
				},
			},
			llms.TextContent{Text: " second"},
			llms.BinaryContent{MIMEType: "image/png", Data: []byte{1}},
		},
	}
	assert.Equal(t, "first second", turn.Text())
	assert.Empty(t, Turn{}.Text())
}

func TestTurn_ToolCallIDs(t *testing.T) {
	assert.Equal(t,
		[]string{"call-a", "call-b"},
		callTurn("call-a", "call-b").ToolCallIDs(),
	)
	assert.Empty(t, NewUserTurn("hi").ToolCallIDs())
	assert.Empty(t, resultTurn("call-a").ToolCallIDs())

	// Calls with no ID cannot pair with anything and are not
	// pairing keys.
	noID := NewToolCallTurn(llms.ToolCall{
		Type:         "function",
		FunctionCall: &llms.FunctionCall{Name: "lookup"},
	})
	assert.Empty(t, noID.ToolCallIDs())
	assert.True(t, noID.IsToolCall())
}

func TestTurn_ToolResponseIDs(t *testing.T) {
	assert.Equal(t,
		[]string{"call-a", "call-b"},
		resultTurn("call-a", "call-b").ToolResponseIDs(),
	)
	assert.Empty(t, NewAssistantTurn("hello").ToolResponseIDs())
	assert.Empty(t, callTurn("call-a").ToolResponseIDs())

	noID := NewToolResultTurn(llms.ToolCallResponse{
		Name:    "lookup",
		Content: "ok",
	})
	assert.Empty(t, noID.ToolResponseIDs())
	assert.True(t, noID.IsToolResult())
}

func TestTurn_ToolPredicates(t *testing.T) {
	assert.True(t, callTurn("call-1").IsToolCall())
	assert.False(t, callTurn("call-1").IsToolResult())

	assert.True(t, resultTurn("call-1").IsToolResult())
	assert.False(t, resultTurn("call-1").IsToolCall())

	assert.False(t, NewUserTurn("hi").IsToolCall())
	assert.False(t, NewUserTurn("hi").IsToolResult())
	assert.False(t, NewUserTurn("hi").IsDigest())
}
