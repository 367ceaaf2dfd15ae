// Package tt provides test doubles shared by winnow package
// tests and integration tests.
package tt

import (
	"context"

	"github.com/tmc/langchaingo/llms"
)

// -----------------------------------------------------------------------------
// MockModel - implements llms.Model with scripted responses
// -----------------------------------------------------------------------------

// MockModel is a configurable mock that implements llms.Model.
// Responses and errors are consumed in FIFO order; calls past
// the scripted entries get a default response.
type MockModel struct {
	responses []*llms.ContentResponse
	errors    []error
	callCount int

	// CapturedMessages stores the messages passed to each
	// GenerateContent call. Populated automatically on every
	// call.
	CapturedMessages [][]llms.MessageContent
}

// NewMockModel creates a new MockModel.
func NewMockModel() *MockModel {
	return &MockModel{}
}

// AddResponse queues a single-choice text response.
func (m *MockModel) AddResponse(content string) *MockModel {
	m.responses = append(m.responses, &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content}},
	})
	return m
}

// AddRawResponse queues a raw ContentResponse.
// Use this when you need full control over the response
// structure (e.g., empty Choices slice).
func (m *MockModel) AddRawResponse(
	resp *llms.ContentResponse,
) *MockModel {
	m.responses = append(m.responses, resp)
	return m
}

// AddError queues an error for the next call.
func (m *MockModel) AddError(err error) *MockModel {
	// Extend responses slice if needed to match errors length
	for len(m.responses) <= len(m.errors) {
		m.responses = append(m.responses, nil)
	}
	m.errors = append(m.errors, err)
	return m
}

// CallCount returns the number of times GenerateContent has
// been called.
func (m *MockModel) CallCount() int {
	return m.callCount
}

// GenerateContent implements llms.Model.
func (m *MockModel) GenerateContent(
	ctx context.Context,
	messages []llms.MessageContent,
	opts ...llms.CallOption,
) (*llms.ContentResponse, error) {
	idx := m.callCount
	m.callCount++

	// Capture messages for test verification
	m.CapturedMessages = append(m.CapturedMessages, messages)

	if idx < len(m.errors) && m.errors[idx] != nil {
		return nil, m.errors[idx]
	}
	if idx < len(m.responses) && m.responses[idx] != nil {
		return m.responses[idx], nil
	}

	// Default response for tests that don't care about the
	// digest content.
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "mock digest"}},
	}, nil
}

// Call implements llms.Model.
func (m *MockModel) Call(
	ctx context.Context,
	prompt string,
	opts ...llms.CallOption,
) (string, error) {
	resp, err := m.GenerateContent(
		ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		},
		opts...,
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}

// Compile-time check.
var _ llms.Model = (*MockModel)(nil)
