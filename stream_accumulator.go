package revkit

import (
	"strings"
	"sync"
)

// StreamAccumulator accumulates StreamChunks into the full buffer a renderer
// works from. Section parsing is always re-run on the whole buffer, never on the
// delta, so the accumulator is the single source of truth while a stream is live.
//
// Usage:
//
//	acc := NewStreamAccumulator()
//	for chunk := range stream.Chunks() {
//	    if chunk.Err != nil {
//	        return chunk.Err
//	    }
//	    if acc.Add(chunk) {
//	        sections := format.Sections(acc.Content())
//	        // re-render
//	    }
//	}
type StreamAccumulator struct {
	mu               sync.Mutex
	content          strings.Builder
	reasoningContent strings.Builder
	chunks           int
	lastError        error
}

// NewStreamAccumulator creates a new StreamAccumulator.
func NewStreamAccumulator() *StreamAccumulator {
	return &StreamAccumulator{}
}

// Add adds a chunk to the accumulator and reports whether the visible content
// changed. Reasoning-only and empty chunks return false.
// If the chunk carries an error, it is stored and can be retrieved via Error().
func (a *StreamAccumulator) Add(chunk StreamChunk) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.chunks++
	if chunk.ReasoningContent != "" {
		a.reasoningContent.WriteString(chunk.ReasoningContent)
	}
	if chunk.Err != nil {
		a.lastError = chunk.Err
	}
	if chunk.Content == "" {
		return false
	}
	a.content.WriteString(chunk.Content)
	return true
}

// Content returns the accumulated content so far.
func (a *StreamAccumulator) Content() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.content.String()
}

// ReasoningContent returns the accumulated reasoning content so far.
func (a *StreamAccumulator) ReasoningContent() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reasoningContent.String()
}

// ChunkCount returns how many chunks were added, including empty ones.
func (a *StreamAccumulator) ChunkCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chunks
}

// Error returns the last error encountered, if any.
func (a *StreamAccumulator) Error() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastError
}

// Response builds a ContentResponse from the accumulated chunks, taking token
// counts and duration from the stream's own response when it has one.
func (a *StreamAccumulator) Response(streamResponse *ContentResponse) *ContentResponse {
	a.mu.Lock()
	defer a.mu.Unlock()

	response := &ContentResponse{
		Choices: []*ContentChoice{
			{
				Content:          a.content.String(),
				ReasoningContent: a.reasoningContent.String(),
			},
		},
	}
	if streamResponse != nil && streamResponse.Info != nil {
		response.Info = streamResponse.Info
	}
	return response
}

// Reset clears the accumulator for reuse.
func (a *StreamAccumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.content.Reset()
	a.reasoningContent.Reset()
	a.chunks = 0
	a.lastError = nil
}
