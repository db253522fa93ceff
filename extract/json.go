package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/revkit/revkit"
)

// Strategy identifies which extraction step produced a value.
type Strategy int

const (
	// StrategyJSONFence parsed the first fence tagged json or jsonc, or untagged.
	StrategyJSONFence Strategy = iota + 1

	// StrategyFence parsed the first fenced block of any language.
	StrategyFence

	// StrategyBraces parsed the first brace-balanced region.
	StrategyBraces

	// StrategyWhole parsed the entire response.
	StrategyWhole
)

func (s Strategy) String() string {
	switch s {
	case StrategyJSONFence:
		return "json fence"
	case StrategyFence:
		return "fence"
	case StrategyBraces:
		return "brace scan"
	case StrategyWhole:
		return "whole content"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Result is a JSON value found in a model response.
type Result struct {
	// Value is the decoded value: map[string]any for an object.
	Value any

	// Raw is the exact JSON text that was parsed.
	Raw json.RawMessage

	// Strategy is the step that succeeded.
	Strategy Strategy
}

// Object returns Value as a JSON object, or nil when it is not one.
func (r *Result) Object() map[string]any {
	obj, _ := r.Value.(map[string]any)
	return obj
}

// JSON finds and parses the JSON value in a complete model response. It tries,
// in order and stopping at the first success:
//
//  1. the first fence tagged json or jsonc (or with no tag)
//  2. the first fence of any language
//  3. the first brace-balanced region starting at the first '{'
//  4. the whole text
//
// When every step fails it returns a *revkit.MalformedModelOutputError that
// holds the text and the failure of each step that had a candidate.
func JSON(text string) (*Result, error) {
	var attempts []error

	try := func(strategy Strategy, candidate string) *Result {
		raw := []byte(strings.TrimSpace(candidate))
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			attempts = append(attempts, fmt.Errorf("%s: %w", strategy, err))
			return nil
		}
		return &Result{Value: v, Raw: raw, Strategy: strategy}
	}

	fences := findFences(text)

	tried := -1
	for i, f := range fences {
		if f.isJSON() {
			tried = i
			if r := try(StrategyJSONFence, f.body); r != nil {
				return r, nil
			}
			break
		}
	}

	// The first fence was already tried when it is the json one.
	if len(fences) > 0 && tried != 0 {
		if r := try(StrategyFence, fences[0].body); r != nil {
			return r, nil
		}
	}

	if region, ok := firstBalancedObject(text); ok {
		if r := try(StrategyBraces, region); r != nil {
			return r, nil
		}
	}

	if strings.TrimSpace(text) != "" {
		if r := try(StrategyWhole, text); r != nil {
			return r, nil
		}
	}

	return nil, &revkit.MalformedModelOutputError{Output: text, Attempts: attempts}
}

// Into extracts the JSON value from text and decodes it into T.
func Into[T any](text string) (T, error) {
	var out T
	r, err := JSON(text)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(r.Raw, &out); err != nil {
		return out, fmt.Errorf("%w: %v", revkit.ErrInvalidJSON, err)
	}
	return out, nil
}

const fenceMarker = "```"

// fence is one closed ``` block.
type fence struct {
	lang string
	body string
}

func (f fence) isJSON() bool {
	return f.lang == "" || strings.EqualFold(f.lang, "json") || strings.EqualFold(f.lang, "jsonc")
}

// findFences returns the closed fenced blocks of text in order. The language
// tag is the run of non-space characters directly after the opening marker.
// An opening marker with no closing marker is ignored.
func findFences(text string) []fence {
	var fences []fence
	rest := text
	for {
		start := strings.Index(rest, fenceMarker)
		if start < 0 {
			return fences
		}
		after := rest[start+len(fenceMarker):]

		tagEnd := strings.IndexFunc(after, func(r rune) bool {
			return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '{' || r == '[' || r == '`'
		})
		if tagEnd < 0 {
			tagEnd = len(after)
		}
		lang := after[:tagEnd]
		content := after[tagEnd:]
		end := strings.Index(content, fenceMarker)
		if end < 0 {
			return fences
		}
		fences = append(fences, fence{lang: lang, body: content[:end]})
		rest = content[end+len(fenceMarker):]
	}
}

// firstBalancedObject returns the text from the first '{' to the brace that
// closes it. Braces inside string literals do not count, and a backslash
// inside a string consumes the next byte.
func firstBalancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
