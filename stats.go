package revkit

import (
	"maps"
	"sync"
)

// Stats holds monotonically increasing counters for tool calls and token
// usage. All standard keys are prefixed with "revkit:"; see stats_keys.go.
//
// All methods are safe for concurrent use. A nil *Stats ignores writes and
// reads as zero, so callers never need to check before recording.
type Stats struct {
	mu       sync.RWMutex
	counters map[StatKey]int64
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{counters: make(map[StatKey]int64)}
}

// IncrCounter increments a counter by delta. Creates the counter if it
// doesn't exist.
//
// Panics if delta is negative (counters only go up).
func (s *Stats) IncrCounter(key StatKey, delta int64) {
	if delta < 0 {
		panic("revkit: counter delta must not be negative: " + string(key))
	}
	if s == nil || delta == 0 {
		return
	}
	s.mu.Lock()
	s.counters[key] += delta
	s.mu.Unlock()
}

// GetCounter returns the current value of a counter, or 0 if not set.
func (s *Stats) GetCounter(key StatKey) int64 {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[key]
}

// Counters returns a copy of all counters.
func (s *Stats) Counters() map[StatKey]int64 {
	if s == nil {
		return map[StatKey]int64{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.counters)
}

// RecordUsage adds the token counts of one response under the total and the
// per-model keys. A nil info is ignored.
func (s *Stats) RecordUsage(model string, info *GenerationInfo) {
	if info == nil {
		return
	}
	s.IncrCounter(KeyInputTokens, int64(info.InputTokens))
	s.IncrCounter(KeyInputTokensFor.For(model), int64(info.InputTokens))
	s.IncrCounter(KeyOutputTokens, int64(info.OutputTokens))
	s.IncrCounter(KeyOutputTokensFor.For(model), int64(info.OutputTokens))
}

// RecordCall counts one tool call, and one error when err is non-nil.
func (s *Stats) RecordCall(tool string, err error) {
	s.IncrCounter(KeyToolCalls, 1)
	s.IncrCounter(KeyToolCallsFor.For(tool), 1)
	if err != nil {
		s.IncrCounter(KeyToolErrors, 1)
		s.IncrCounter(KeyToolErrorsFor.For(tool), 1)
	}
}

// GetTotalInputTokens returns the input tokens across all models.
func (s *Stats) GetTotalInputTokens() int64 {
	return s.GetCounter(KeyInputTokens)
}

// GetTotalOutputTokens returns the output tokens across all models.
func (s *Stats) GetTotalOutputTokens() int64 {
	return s.GetCounter(KeyOutputTokens)
}

// GetTotalTokens returns input plus output tokens.
func (s *Stats) GetTotalTokens() int64 {
	return s.GetTotalInputTokens() + s.GetTotalOutputTokens()
}

// GetToolCallCount returns the number of tool calls.
func (s *Stats) GetToolCallCount() int64 {
	return s.GetCounter(KeyToolCalls)
}
