package revkit

// =============================================================================
// OpenRouter endpoint
// https://openrouter.ai/docs/api-reference/overview
// =============================================================================

const (
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// OnlineSuffix appended to a model ID enables OpenRouter web search grounding.
	OnlineSuffix = ":online"
)

// =============================================================================
// Models used by the tools (OpenRouter IDs)
// =============================================================================

const (
	// Streamed Markdown report and interview pack
	ModelGemini25FlashPreview = "google/gemini-2.5-flash-preview-09-2025"
	ModelGemini25Flash        = "google/gemini-2.5-flash"

	// JSON tools (brief, objections, scoring, battlecard)
	ModelOpenAIGPT41Mini = "openai/gpt-4.1-mini"
	ModelOpenAIGPT4oMini = "openai/gpt-4o-mini"

	ModelAnthropicClaude45Haiku = "anthropic/claude-haiku-4.5"
)

// Defaults applied when configuration leaves a field empty.
const (
	DefaultReportModel = ModelGemini25FlashPreview
	DefaultJSONModel   = ModelGemini25FlashPreview
	DefaultTemperature = 0.2
)
