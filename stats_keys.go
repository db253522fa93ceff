package revkit

import "strings"

// StatKey names a counter in Stats.
type StatKey string

// KeyPrefix prefixes every key revkit records. Callers adding their own
// counters should use a different prefix.
const KeyPrefix = "revkit:"

// Token tracking keys.
const (
	KeyInputTokens     StatKey = "revkit:input_tokens"
	KeyInputTokensFor  StatKey = "revkit:input_tokens:"  // + model name
	KeyOutputTokens    StatKey = "revkit:output_tokens"
	KeyOutputTokensFor StatKey = "revkit:output_tokens:" // + model name
)

// Tool call tracking keys.
const (
	KeyToolCalls     StatKey = "revkit:tool_calls"
	KeyToolCallsFor  StatKey = "revkit:tool_calls:"  // + tool name
	KeyToolErrors    StatKey = "revkit:tool_errors"
	KeyToolErrorsFor StatKey = "revkit:tool_errors:" // + tool name
)

// KeySearchFallbacks counts retries without the ":online" model.
const KeySearchFallbacks StatKey = "revkit:search_fallbacks"

// KeyInvalidJSON counts responses that could not be extracted or failed
// validation.
const KeyInvalidJSON StatKey = "revkit:invalid_json"

// For returns the per-name variant of a prefix key such as KeyToolCallsFor.
func (k StatKey) For(name string) StatKey {
	return k + StatKey(name)
}

// HasPrefix reports whether k starts with prefix.
func (k StatKey) HasPrefix(prefix StatKey) bool {
	return strings.HasPrefix(string(k), string(prefix))
}
