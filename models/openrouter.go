package models

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/revkit/revkit"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// OpenRouterConfig configures an OpenRouter-backed model.
type OpenRouterConfig struct {
	// APIKey is the OpenRouter key. Required.
	APIKey string

	// Model is the default model ID, e.g. "google/gemini-2.5-flash-preview-09-2025".
	// Individual calls may override it with llms.WithModel.
	Model string

	// BaseURL overrides revkit.OpenRouterBaseURL.
	BaseURL string

	// Referer and Title are sent as the HTTP-Referer and X-Title attribution
	// headers. Empty values are not sent.
	Referer string
	Title   string

	// HTTPClient performs the requests. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	Logger *zap.Logger
}

// openRouterHeaderTransport injects the OpenRouter attribution headers into
// every request.
type openRouterHeaderTransport struct {
	client  *http.Client
	referer string
	title   string
}

func (t *openRouterHeaderTransport) Do(req *http.Request) (*http.Response, error) {
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	return t.client.Do(req)
}

// NewOpenRouter creates a model backed by the OpenRouter chat completions API.
//
// Additional openai.Option values are applied after the defaults so they can
// override them.
//
// Example:
//
//	model, err := models.NewOpenRouter(models.OpenRouterConfig{
//	    APIKey: os.Getenv("OPENROUTER_API_KEY"),
//	    Model:  revkit.DefaultReportModel,
//	    Title:  "revkit",
//	})
func NewOpenRouter(cfg OpenRouterConfig, opts ...openai.Option) (*LCGWrapper, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openrouter api key is required: create one at https://openrouter.ai/keys")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = revkit.OpenRouterBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = revkit.DefaultReportModel
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	baseOpts := []openai.Option{
		openai.WithBaseURL(baseURL),
		openai.WithToken(cfg.APIKey),
		openai.WithModel(model),
		openai.WithHTTPClient(&openRouterHeaderTransport{
			client:  client,
			referer: cfg.Referer,
			title:   cfg.Title,
		}),
	}

	llm, err := openai.New(append(baseOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenRouter client: %w", err)
	}

	return NewLCGWrapper(llm).WithModelName(model).WithLogger(cfg.Logger), nil
}

// OnlineModel returns the web-search variant of an OpenRouter model ID.
// It is idempotent.
func OnlineModel(model string) string {
	if strings.HasSuffix(model, revkit.OnlineSuffix) {
		return model
	}
	return model + revkit.OnlineSuffix
}
