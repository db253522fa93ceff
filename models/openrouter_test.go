package models

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/revkit/revkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// capturedRequest is what the fake OpenRouter endpoint saw.
type capturedRequest struct {
	path    string
	auth    string
	referer string
	title   string
	body    map[string]any
}

func newFakeOpenRouter(t *testing.T, handle func(w http.ResponseWriter, body map[string]any)) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		captured.referer = r.Header.Get("HTTP-Referer")
		captured.title = r.Header.Get("X-Title")
		_ = json.Unmarshal(raw, &captured.body)
		handle(w, captured.body)
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func TestNewOpenRouter_GenerateContent(t *testing.T) {
	srv, captured := newFakeOpenRouter(t, func(w http.ResponseWriter, _ map[string]any) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "gen-1",
			"object": "chat.completion",
			"created": 1,
			"model": "openai/gpt-4.1-mini",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "{\"ok\": true}"},
				"finish_reason": "stop"
			}],
			"usage": {"prompt_tokens": 11, "completion_tokens": 4, "total_tokens": 15}
		}`)
	})

	model, err := NewOpenRouter(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   revkit.ModelOpenAIGPT41Mini,
		BaseURL: srv.URL,
		Referer: "https://example.com",
		Title:   "revkit",
	})
	require.NoError(t, err)
	assert.Equal(t, revkit.ModelOpenAIGPT41Mini, model.ModelName())

	resp, err := model.GenerateContent(context.Background(),
		revkit.Messages("Return JSON.", "ping"), llms.WithJSONMode())
	require.NoError(t, err)

	assert.Equal(t, `{"ok": true}`, resp.Content())
	assert.Equal(t, 11, resp.Info.InputTokens)
	assert.Equal(t, 4, resp.Info.OutputTokens)

	assert.Equal(t, "/chat/completions", captured.path)
	assert.Equal(t, "Bearer sk-or-test", captured.auth)
	assert.Equal(t, "https://example.com", captured.referer)
	assert.Equal(t, "revkit", captured.title)
	assert.Equal(t, revkit.ModelOpenAIGPT41Mini, captured.body["model"])
}

func TestNewOpenRouter_Stream(t *testing.T) {
	srv, captured := newFakeOpenRouter(t, func(w http.ResponseWriter, _ map[string]any) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, part := range []string{"## 🏢 Company", " Snapshot\n", "- **HQ:** Austin\n"} {
			chunk, _ := json.Marshal(map[string]any{
				"id":      "gen-2",
				"object":  "chat.completion.chunk",
				"created": 1,
				"model":   "google/gemini-2.5-flash",
				"choices": []any{map[string]any{
					"index": 0,
					"delta": map[string]any{"role": "assistant", "content": part},
				}},
			})
			fmt.Fprintf(w, "data: %s\n\n", chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	model, err := NewOpenRouter(OpenRouterConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	stream, err := model.GenerateContentStream(context.Background(),
		revkit.Messages("", "report"), llms.WithModel(OnlineModel(revkit.ModelGemini25Flash)))
	require.NoError(t, err)

	var sb strings.Builder
	for chunk := range stream.Chunks() {
		require.NoError(t, chunk.Err)
		sb.WriteString(chunk.Content)
	}
	assert.Equal(t, "## 🏢 Company Snapshot\n- **HQ:** Austin\n", sb.String())

	_, err = stream.Response()
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-flash:online", captured.body["model"])
	assert.Empty(t, captured.referer)
}

func TestNewOpenRouter_MissingKey(t *testing.T) {
	model, err := NewOpenRouter(OpenRouterConfig{APIKey: "  "})
	assert.Nil(t, model)
	assert.Error(t, err)
}

func TestOnlineModel(t *testing.T) {
	assert.Equal(t, "openai/gpt-4.1-mini:online", OnlineModel("openai/gpt-4.1-mini"))
	assert.Equal(t, "openai/gpt-4.1-mini:online", OnlineModel("openai/gpt-4.1-mini:online"))
}

func TestOpenRouterLive(t *testing.T) {
	apiKey := os.Getenv("REVKIT_TEST_OPENROUTER_KEY")
	if apiKey == "" {
		t.Skip("REVKIT_TEST_OPENROUTER_KEY not set")
	}

	model, err := NewOpenRouter(OpenRouterConfig{APIKey: apiKey, Model: revkit.ModelGemini25Flash})
	require.NoError(t, err)

	content, err := revkit.Generate(context.Background(), model,
		"Reply with one word.", "Say hello.")
	require.NoError(t, err)
	assert.NotEmpty(t, content)
}
