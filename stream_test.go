package revkit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestStreamBuffer_CompleteDeliversAllChunks(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewStreamBuffer()
	s.SendReasoning("plan")
	s.SendContent("## A\n")
	s.SendContent("foo\n")
	s.Complete(&ContentResponse{Info: &GenerationInfo{OutputTokens: 3}}, nil)
	s.SendContent("ignored")

	var got []StreamChunk
	for chunk := range s.Chunks() {
		got = append(got, chunk)
	}

	assert.Equal(t, []StreamChunk{
		{ReasoningContent: "plan"},
		{Content: "## A\n"},
		{Content: "foo\n"},
	}, got)
	assert.Equal(t, "## A\nfoo\n", s.AccumulatedContent())
	assert.Equal(t, "plan", s.AccumulatedReasoning())

	resp, err := s.Response()
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Info.OutputTokens)
}

func TestStreamBuffer_ErrorIsLastChunk(t *testing.T) {
	defer goleak.VerifyNone(t)

	callErr := errors.New("provider_error")
	s := NewStreamBuffer()
	s.SendContent("partial")
	s.Complete(nil, callErr)

	var last StreamChunk
	for chunk := range s.Chunks() {
		last = chunk
	}
	assert.ErrorIs(t, last.Err, callErr)

	_, err := s.Response()
	assert.ErrorIs(t, err, callErr)
}

func TestStreamBuffer_CloseWithoutConsumer(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewStreamBuffer()
	for range 50 {
		s.SendContent("x")
	}
	s.Close()

	done := make(chan struct{})
	go func() {
		for range s.Chunks() {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("chunks channel not closed after Close")
	}

	resp, err := s.Response()
	assert.Nil(t, resp)
	assert.NoError(t, err)

	// Completing after Close must not panic or block.
	s.Complete(nil, nil)
}
