package revkit

import (
	"context"
	"sync"
	"time"

	"github.com/revkit/revkit/internal/buffer"
	"github.com/tmc/langchaingo/llms"
)

// StreamBuffer implements Stream on top of an unbounded queue.
// Send never blocks, even when:
//   - There is no listener on the channel
//   - The listener is re-rendering sections slowly
//
// The producer side (Send*, Complete) is used by model adapters; consumers only
// see the Stream interface.
type StreamBuffer struct {
	queue     *buffer.Unbounded[StreamChunk]
	startTime time.Time

	mu             sync.Mutex
	closed         bool
	contentAccum   []byte
	reasoningAccum []byte

	responseMu   sync.Mutex
	response     *ContentResponse
	responseErr  error
	responseDone chan struct{}
}

// NewStreamBuffer creates a stream that is ready to receive chunks via Send.
func NewStreamBuffer() *StreamBuffer {
	return &StreamBuffer{
		queue:        buffer.NewUnbounded[StreamChunk](),
		startTime:    time.Now(),
		responseDone: make(chan struct{}),
	}
}

// Send adds a chunk to the stream. This method never blocks.
// Sends after Complete or Close are ignored.
func (s *StreamBuffer) Send(chunk StreamChunk) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if chunk.Content != "" {
		s.contentAccum = append(s.contentAccum, chunk.Content...)
	}
	if chunk.ReasoningContent != "" {
		s.reasoningAccum = append(s.reasoningAccum, chunk.ReasoningContent...)
	}
	s.mu.Unlock()

	s.queue.Send(chunk)
}

// SendContent is a convenience method to send a content-only chunk.
func (s *StreamBuffer) SendContent(content string) {
	s.Send(StreamChunk{Content: content})
}

// SendReasoning is a convenience method to send a reasoning-only chunk.
func (s *StreamBuffer) SendReasoning(reasoning string) {
	s.Send(StreamChunk{ReasoningContent: reasoning})
}

// Complete marks the stream as finished with the final response.
// A non-nil err is delivered as the last chunk before the channel closes.
func (s *StreamBuffer) Complete(response *ContentResponse, err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.setResponse(response, err)
		return
	}
	s.closed = true
	s.mu.Unlock()

	if err != nil {
		s.queue.Send(StreamChunk{Err: err})
	}
	s.queue.Close()
	s.setResponse(response, err)
}

func (s *StreamBuffer) setResponse(response *ContentResponse, err error) {
	s.responseMu.Lock()
	defer s.responseMu.Unlock()

	select {
	case <-s.responseDone:
		return
	default:
	}
	s.response = response
	s.responseErr = err
	close(s.responseDone)
}

// Chunks implements Stream.Chunks.
func (s *StreamBuffer) Chunks() <-chan StreamChunk {
	return s.queue.Receive()
}

// Response implements Stream.Response. It blocks until the stream completes or
// is closed; a closed stream that never completed returns (nil, nil).
func (s *StreamBuffer) Response() (*ContentResponse, error) {
	<-s.responseDone
	s.responseMu.Lock()
	defer s.responseMu.Unlock()
	return s.response, s.responseErr
}

// Close implements Stream.Close. Pending chunks are dropped and the chunk
// channel closes even if nobody drains it.
func (s *StreamBuffer) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.queue.Abort()

	s.responseMu.Lock()
	select {
	case <-s.responseDone:
	default:
		close(s.responseDone)
	}
	s.responseMu.Unlock()
}

// AccumulatedContent returns the content accumulated so far.
func (s *StreamBuffer) AccumulatedContent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.contentAccum)
}

// AccumulatedReasoning returns the reasoning content accumulated so far.
func (s *StreamBuffer) AccumulatedReasoning() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.reasoningAccum)
}

// Duration returns the time elapsed since the stream was created.
func (s *StreamBuffer) Duration() time.Duration {
	return time.Since(s.startTime)
}

// StreamingCallback returns a LangChainGo call option that feeds both reasoning
// and content chunks into s. Using the reasoning callback alone avoids the
// duplicate content that registering WithStreamingFunc as well would cause.
func (s *StreamBuffer) StreamingCallback() llms.CallOption {
	return llms.WithStreamingReasoningFunc(
		func(_ context.Context, reasoningChunk, contentChunk []byte) error {
			if len(reasoningChunk) > 0 {
				s.SendReasoning(string(reasoningChunk))
			}
			if len(contentChunk) > 0 {
				s.SendContent(string(contentChunk))
			}
			return nil
		},
	)
}

// Compile-time check that StreamBuffer implements Stream.
var _ Stream = (*StreamBuffer)(nil)
