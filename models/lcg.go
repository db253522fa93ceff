package models

import (
	"context"
	"time"

	"github.com/revkit/revkit"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// LCGWrapper wraps an llms.Model and implements revkit's Model and
// StreamingModel interfaces. It normalizes token usage across providers and
// logs every call.
//
// Example usage:
//
//	llm, _ := openai.New(openai.WithToken(apiKey), openai.WithBaseURL(revkit.OpenRouterBaseURL))
//	model := models.NewLCGWrapper(llm).
//	    WithModelName(revkit.DefaultReportModel).
//	    WithLogger(logger)
//
//	response, err := model.GenerateContent(ctx, messages)
type LCGWrapper struct {
	model     llms.Model
	modelName string
	logger    *zap.Logger
}

// NewLCGWrapper creates a new LCGWrapper wrapping the given llms.Model.
func NewLCGWrapper(model llms.Model) *LCGWrapper {
	return &LCGWrapper{
		model:  model,
		logger: zap.NewNop(),
	}
}

// WithModelName sets the model name used in log entries.
// Returns the model for chaining.
func (m *LCGWrapper) WithModelName(name string) *LCGWrapper {
	m.modelName = name
	return m
}

// WithLogger sets the logger. A nil logger disables logging.
func (m *LCGWrapper) WithLogger(logger *zap.Logger) *LCGWrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	m.logger = logger
	return m
}

// ModelName returns the name set with WithModelName.
func (m *LCGWrapper) ModelName() string {
	return m.modelName
}

// Unwrap returns the underlying llms.Model.
func (m *LCGWrapper) Unwrap() llms.Model {
	return m.model
}

// GenerateContent implements revkit.Model.
func (m *LCGWrapper) GenerateContent(
	ctx context.Context,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*revkit.ContentResponse, error) {
	startTime := time.Now()
	lcgResponse, err := m.model.GenerateContent(ctx, messages, options...)
	duration := time.Since(startTime)

	var response *revkit.ContentResponse
	if lcgResponse != nil {
		response = convertLCGResponse(lcgResponse, duration)
	}

	m.logCall("generate", options, response, duration, err)
	return response, err
}

// GenerateContentStream implements revkit.StreamingModel.
//
// The call runs in its own goroutine and pushes chunks into an unbounded
// buffer, so the HTTP reader never waits on a slow consumer. Closing the
// returned stream drops pending chunks; cancel ctx to stop the request itself.
func (m *LCGWrapper) GenerateContentStream(
	ctx context.Context,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (revkit.Stream, error) {
	stream := revkit.NewStreamBuffer()

	// The streaming callback goes last so callers cannot replace it.
	opts := make([]llms.CallOption, 0, len(options)+1)
	opts = append(opts, options...)
	opts = append(opts, stream.StreamingCallback())

	go func() {
		lcgResponse, err := m.model.GenerateContent(ctx, messages, opts...)
		duration := stream.Duration()

		var response *revkit.ContentResponse
		if lcgResponse != nil && err == nil {
			response = convertLCGResponse(lcgResponse, duration)
		} else if err == nil {
			// Build response from accumulated content
			response = &revkit.ContentResponse{
				Choices: []*revkit.ContentChoice{
					{
						Content:          stream.AccumulatedContent(),
						ReasoningContent: stream.AccumulatedReasoning(),
					},
				},
				Info: &revkit.GenerationInfo{Duration: duration},
			}
		}

		m.logCall("stream", options, response, duration, err)
		stream.Complete(response, err)
	}()

	return stream, nil
}

func (m *LCGWrapper) logCall(
	kind string,
	options []llms.CallOption,
	response *revkit.ContentResponse,
	duration time.Duration,
	err error,
) {
	fields := []zap.Field{
		zap.String("model", m.requestModel(options)),
		zap.String("kind", kind),
		zap.Duration("duration", duration),
	}
	if response != nil && response.Info != nil {
		fields = append(fields,
			zap.Int("input_tokens", response.Info.InputTokens),
			zap.Int("output_tokens", response.Info.OutputTokens),
		)
	}
	if err != nil {
		m.logger.Warn("model call failed", append(fields, zap.Error(err))...)
		return
	}
	m.logger.Debug("model call", fields...)
}

// requestModel returns the model a call targets: the llms.WithModel option
// when given, otherwise the wrapper's name.
func (m *LCGWrapper) requestModel(options []llms.CallOption) string {
	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}
	if opts.Model != "" {
		return opts.Model
	}
	return m.modelName
}

// convertLCGResponse converts an llms.ContentResponse to revkit.ContentResponse
// with normalized tokens.
func convertLCGResponse(
	lcgResponse *llms.ContentResponse,
	duration time.Duration,
) *revkit.ContentResponse {
	response := &revkit.ContentResponse{
		Choices: make([]*revkit.ContentChoice, len(lcgResponse.Choices)),
		Info:    &revkit.GenerationInfo{Duration: duration},
	}

	for i, choice := range lcgResponse.Choices {
		response.Choices[i] = &revkit.ContentChoice{
			Content:          choice.Content,
			StopReason:       choice.StopReason,
			ReasoningContent: choice.ReasoningContent,
		}
	}

	// Token info lives on the first choice's GenerationInfo
	if len(lcgResponse.Choices) > 0 && lcgResponse.Choices[0].GenerationInfo != nil {
		rawInfo := lcgResponse.Choices[0].GenerationInfo
		response.Info.RawGenerationInfo = rawInfo
		response.Info.InputTokens = firstInt(rawInfo, "PromptTokens", "InputTokens", "input_tokens")
		response.Info.OutputTokens = firstInt(rawInfo, "CompletionTokens", "OutputTokens", "output_tokens")
		response.Info.TotalTokens = firstInt(rawInfo, "TotalTokens", "total_tokens")
		if response.Info.TotalTokens == 0 {
			response.Info.TotalTokens = response.Info.InputTokens + response.Info.OutputTokens
		}
		response.Info.ReasoningTokens = firstInt(rawInfo,
			"ReasoningTokens", "CompletionReasoningTokens", "ThinkingTokens")
	}

	return response
}

// firstInt returns the first positive count found under keys. Providers report
// the same figure under different names:
//
//	OpenAI / OpenRouter: PromptTokens, CompletionTokens, TotalTokens
//	Anthropic:           InputTokens, OutputTokens
//	Google / Bedrock:    input_tokens, output_tokens, total_tokens
func firstInt(info map[string]any, keys ...string) int {
	for _, key := range keys {
		if v := getIntFromMap(info, key); v > 0 {
			return v
		}
	}
	return 0
}

// getIntFromMap extracts an int value from a map, handling various numeric types.
func getIntFromMap(m map[string]any, key string) int {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}

// Compile-time check that LCGWrapper implements revkit.StreamingModel.
var _ revkit.StreamingModel = (*LCGWrapper)(nil)
