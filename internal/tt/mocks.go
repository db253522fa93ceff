package tt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// ErrNoResponseQueued is returned when MockLLM is called more often than
// responses were queued.
var ErrNoResponseQueued = errors.New("tt: no response queued")

// -----------------------------------------------------------------------------
// MockLLM - implements llms.Model, streaming through the call options
// -----------------------------------------------------------------------------

// MockCall records one GenerateContent call.
type MockCall struct {
	Messages []llms.MessageContent
	Options  llms.CallOptions
}

type mockReply struct {
	chunks []string
	err    error
}

// MockLLM is a configurable llms.Model that replays queued responses in order.
//
// When the call carries a streaming callback (llms.WithStreamingFunc or
// llms.WithStreamingReasoningFunc) each queued chunk is delivered through it
// before the call returns, the way a provider client does.
type MockLLM struct {
	mu         sync.Mutex
	replies    []mockReply
	calls      []MockCall
	chunkDelay time.Duration
}

// NewMockLLM creates an empty MockLLM.
func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// WithChunkDelay makes every streamed chunk wait d first. The wait ends early
// when the call's context is cancelled.
func (m *MockLLM) WithChunkDelay(d time.Duration) *MockLLM {
	m.chunkDelay = d
	return m
}

// AddResponse queues a response delivered as a single chunk.
func (m *MockLLM) AddResponse(content string) *MockLLM {
	return m.AddChunks(content)
}

// AddChunks queues a response streamed as the given chunks. The full response
// content is their concatenation.
func (m *MockLLM) AddChunks(chunks ...string) *MockLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, mockReply{chunks: chunks})
	return m
}

// AddError queues a call that fails before producing any content.
func (m *MockLLM) AddError(err error) *MockLLM {
	return m.AddStreamError(err)
}

// AddStreamError queues a call that streams chunks and then fails with err.
func (m *MockLLM) AddStreamError(err error, chunks ...string) *MockLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, mockReply{chunks: chunks, err: err})
	return m
}

// Calls returns the recorded calls in order.
func (m *MockLLM) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of GenerateContent calls.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// GenerateContent implements llms.Model.
func (m *MockLLM) GenerateContent(
	ctx context.Context,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}

	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Messages: messages, Options: opts})
	if len(m.replies) == 0 {
		m.mu.Unlock()
		return nil, ErrNoResponseQueued
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	m.mu.Unlock()

	var content string
	for _, chunk := range reply.chunks {
		if err := m.wait(ctx); err != nil {
			return nil, err
		}
		if err := deliver(ctx, opts, chunk); err != nil {
			return nil, err
		}
		content += chunk
	}
	if reply.err != nil {
		return nil, reply.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:    content,
			StopReason: "stop",
			GenerationInfo: map[string]any{
				"PromptTokens":     len(messages) * 10,
				"CompletionTokens": len(reply.chunks),
			},
		}},
	}, nil
}

// Call implements llms.Model.
func (m *MockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func (m *MockLLM) wait(ctx context.Context) error {
	if m.chunkDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.chunkDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func deliver(ctx context.Context, opts llms.CallOptions, chunk string) error {
	switch {
	case opts.StreamingReasoningFunc != nil:
		return opts.StreamingReasoningFunc(ctx, nil, []byte(chunk))
	case opts.StreamingFunc != nil:
		return opts.StreamingFunc(ctx, []byte(chunk))
	}
	return nil
}

// Compile-time check that MockLLM implements llms.Model.
var _ llms.Model = (*MockLLM)(nil)
