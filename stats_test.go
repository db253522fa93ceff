package revkit

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_RecordUsage(t *testing.T) {
	s := NewStats()
	s.RecordUsage("google/gemini-2.5-flash", &GenerationInfo{InputTokens: 120, OutputTokens: 30})
	s.RecordUsage("openai/gpt-4o", &GenerationInfo{InputTokens: 10, OutputTokens: 5})
	s.RecordUsage("openai/gpt-4o", nil)

	assert.Equal(t, int64(130), s.GetTotalInputTokens())
	assert.Equal(t, int64(35), s.GetTotalOutputTokens())
	assert.Equal(t, int64(165), s.GetTotalTokens())
	assert.Equal(t, int64(10), s.GetCounter(KeyInputTokensFor.For("openai/gpt-4o")))
	assert.Equal(t, int64(30), s.GetCounter(KeyOutputTokensFor.For("google/gemini-2.5-flash")))
}

func TestStats_RecordCall(t *testing.T) {
	s := NewStats()
	s.RecordCall("brief", nil)
	s.RecordCall("brief", errors.New("boom"))
	s.RecordCall("icp", nil)

	assert.Equal(t, int64(3), s.GetToolCallCount())
	assert.Equal(t, int64(2), s.GetCounter(KeyToolCallsFor.For("brief")))
	assert.Equal(t, int64(1), s.GetCounter(KeyToolErrors))
	assert.Equal(t, int64(0), s.GetCounter(KeyToolErrorsFor.For("icp")))
}

func TestStats_Concurrent(t *testing.T) {
	s := NewStats()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.IncrCounter(KeySearchFallbacks, 2)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(100), s.GetCounter(KeySearchFallbacks))
}

func TestStats_CountersIsACopy(t *testing.T) {
	s := NewStats()
	s.IncrCounter(KeyInvalidJSON, 1)

	c := s.Counters()
	c[KeyInvalidJSON] = 99
	assert.Equal(t, int64(1), s.GetCounter(KeyInvalidJSON))
}

func TestStats_NilAndNegative(t *testing.T) {
	var s *Stats
	s.IncrCounter(KeyToolCalls, 1)
	s.RecordCall("brief", nil)
	assert.Zero(t, s.GetToolCallCount())
	assert.Empty(t, s.Counters())

	assert.Panics(t, func() { NewStats().IncrCounter(KeyToolCalls, -1) })
}

func TestStatKey_HasPrefix(t *testing.T) {
	assert.True(t, KeyToolCallsFor.For("brief").HasPrefix(KeyPrefix))
	assert.False(t, StatKey("myapp:calls").HasPrefix(KeyPrefix))
}
