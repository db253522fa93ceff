package revkit

import (
	"context"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// Model is revkit's model interface. It wraps LangChainGo's llms.Model but provides
// a cleaner interface with normalized token usage information.
type Model interface {
	// GenerateContent generates content from a sequence of messages.
	// Unlike llms.Model, this returns a GenerationInfo struct with normalized
	// token counts that work across all providers.
	GenerateContent(
		ctx context.Context,
		messages []llms.MessageContent,
		options ...llms.CallOption,
	) (
		*ContentResponse,
		error,
	)
}

// StreamingModel is a Model that can also deliver its output token by token.
type StreamingModel interface {
	Model

	// GenerateContentStream starts generation and returns immediately. Chunks are
	// delivered on Stream.Chunks() as they arrive; the final response (with token
	// counts) is available from Stream.Response() once the channel is closed.
	GenerateContentStream(
		ctx context.Context,
		messages []llms.MessageContent,
		options ...llms.CallOption,
	) (
		Stream,
		error,
	)
}

// StreamChunk is one increment of a streamed response.
// A chunk with a non-nil Err is the last chunk of a failed stream.
type StreamChunk struct {
	Content          string
	ReasoningContent string
	Err              error
}

// Stream is the consumer side of a streaming model call.
type Stream interface {
	// Chunks returns the channel that receives chunks in order.
	// The channel is closed when the call completes, fails, or the stream is closed.
	Chunks() <-chan StreamChunk

	// Response blocks until the call completes and returns the final response.
	Response() (*ContentResponse, error)

	// Close stops delivery. Pending chunks are discarded.
	Close()
}

// ContentResponse is the response from a GenerateContent call.
type ContentResponse struct {
	// Choices contains the generated content choices.
	Choices []*ContentChoice

	// Info contains generation metadata including normalized token counts.
	Info *GenerationInfo
}

// Content returns the textual content of the first choice, or "" if there is none.
func (r *ContentResponse) Content() string {
	if r == nil || len(r.Choices) == 0 || r.Choices[0] == nil {
		return ""
	}
	return r.Choices[0].Content
}

// ContentChoice is a single content choice from the model.
type ContentChoice struct {
	// Content is the textual content of the response.
	Content string

	// StopReason is the reason the model stopped generating.
	StopReason string

	// ReasoningContent contains reasoning/thinking content if supported.
	ReasoningContent string
}

// GenerationInfo contains metadata about the generation including normalized token counts.
type GenerationInfo struct {
	// InputTokens is the number of input/prompt tokens used.
	// This is normalized across providers:
	//   - OpenAI / OpenRouter: PromptTokens
	//   - Anthropic: InputTokens
	//   - Google: input_tokens / PromptTokens
	InputTokens int

	// OutputTokens is the number of output/completion tokens generated.
	// This is normalized across providers:
	//   - OpenAI / OpenRouter: CompletionTokens
	//   - Anthropic: OutputTokens
	//   - Google: output_tokens / CompletionTokens
	OutputTokens int

	// TotalTokens is the total token count (InputTokens + OutputTokens).
	// Some providers return this directly; otherwise it's computed.
	TotalTokens int

	// ReasoningTokens is the number of tokens used for reasoning/thinking.
	ReasoningTokens int

	// RawGenerationInfo contains the original provider-specific GenerationInfo map.
	RawGenerationInfo map[string]any

	// Duration is how long the generation took.
	Duration time.Duration
}
