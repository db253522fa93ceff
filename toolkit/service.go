package toolkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/revkit/revkit"
	"github.com/revkit/revkit/config"
	"github.com/revkit/revkit/extract"
	"github.com/revkit/revkit/models"
	"github.com/revkit/revkit/schema"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// Service runs the tools against one streaming model.
// Create one with NewService or FromConfig; it is safe for concurrent use.
type Service struct {
	model       revkit.StreamingModel
	logger      *zap.Logger
	reportModel string
	jsonModel   string
	temperature float64
	webSearch   bool
	timeout     time.Duration
	stats       *revkit.Stats
	clock       revkit.TimeProvider
}

// NewService creates a Service with default models and settings.
func NewService(model revkit.StreamingModel) *Service {
	return &Service{
		model:       model,
		logger:      zap.NewNop(),
		reportModel: revkit.DefaultReportModel,
		jsonModel:   revkit.DefaultJSONModel,
		temperature: revkit.DefaultTemperature,
		webSearch:   true,
		stats:       revkit.NewStats(),
		clock:       revkit.NewDefaultTimeProvider(),
	}
}

// FromConfig validates cfg and creates a Service backed by OpenRouter.
func FromConfig(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model, err := models.NewOpenRouter(models.OpenRouterConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.ReportModel,
		BaseURL: cfg.BaseURL,
		Referer: cfg.Referer,
		Title:   cfg.Title,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	return NewService(model).
		WithLogger(logger).
		WithReportModel(cfg.ReportModel).
		WithJSONModel(cfg.JSONModel).
		WithTemperature(cfg.Temperature).
		WithWebSearch(cfg.WebSearch).
		WithTimeout(cfg.RequestTimeout()), nil
}

// WithLogger sets the logger. A nil logger disables logging.
func (s *Service) WithLogger(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s.logger = logger
	return s
}

// WithReportModel sets the model that streams the prospect report.
// Empty names are ignored.
func (s *Service) WithReportModel(model string) *Service {
	if model != "" {
		s.reportModel = model
	}
	return s
}

// WithJSONModel sets the model for the JSON tools. Empty names are ignored.
func (s *Service) WithJSONModel(model string) *Service {
	if model != "" {
		s.jsonModel = model
	}
	return s
}

// WithTemperature sets the sampling temperature for every call.
func (s *Service) WithTemperature(t float64) *Service {
	s.temperature = t
	return s
}

// WithWebSearch controls whether research tools try the ":online" model first.
func (s *Service) WithWebSearch(enabled bool) *Service {
	s.webSearch = enabled
	return s
}

// WithTimeout bounds every tool call. Zero disables the bound.
func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

// WithStats records usage into stats instead of a private counter set, so
// several services can share totals.
func (s *Service) WithStats(stats *revkit.Stats) *Service {
	if stats != nil {
		s.stats = stats
	}
	return s
}

// Stats returns the counters the service records tool calls and token usage
// into.
func (s *Service) Stats() *revkit.Stats {
	return s.stats
}

// WithTimeProvider sets the clock used for the date in research prompts.
func (s *Service) WithTimeProvider(tp revkit.TimeProvider) *Service {
	if tp != nil {
		s.clock = tp
	}
	return s
}

// dated appends today's date to a research system prompt.
func (s *Service) dated(system string) string {
	today := fmt.Sprintf("Today is %s, %s.", s.clock.Weekday(), s.clock.Today())
	if system = strings.TrimSpace(system); system == "" {
		return today
	}
	return system + "\n\n" + today
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// candidates returns the model IDs to try in order.
func (s *Service) candidates(model string, search bool) []string {
	if search && s.webSearch {
		return []string{models.OnlineModel(model), model}
	}
	return []string{model}
}

// jsonCall describes one JSON tool request.
type jsonCall struct {
	tool   string
	system string
	user   string
	shape  *schema.Schema
	search bool
}

// generateJSON sends the request in JSON mode, extracts the JSON value from
// the response, validates it against the call's shape and decodes it into out.
func (s *Service) generateJSON(ctx context.Context, call jsonCall, out any) (err error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	defer func() { s.stats.RecordCall(call.tool, err) }()

	logger := s.logger.With(zap.String("tool", call.tool))
	system := call.system
	if call.search {
		system = s.dated(system)
	}
	messages := revkit.Messages(system, call.user)

	var content string
	targets := s.candidates(s.jsonModel, call.search)
	for i, model := range targets {
		content, err = s.generate(ctx, messages, model)
		if err == nil || ctx.Err() != nil || i == len(targets)-1 {
			break
		}
		s.stats.IncrCounter(revkit.KeySearchFallbacks, 1)
		logger.Warn("web search unavailable, retrying without search",
			zap.String("model", model), zap.Error(err))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", call.tool, err)
	}

	result, err := extract.JSON(content)
	if err != nil {
		s.stats.IncrCounter(revkit.KeyInvalidJSON, 1)
		logger.Warn("no JSON in model output", zap.Int("bytes", len(content)), zap.Error(err))
		return fmt.Errorf("%s: %w", call.tool, err)
	}
	logger.Debug("extracted JSON", zap.Stringer("strategy", result.Strategy))

	if err := call.shape.Validate(result.Value); err != nil {
		s.stats.IncrCounter(revkit.KeyInvalidJSON, 1)
		return fmt.Errorf("%s: %w: %w", call.tool, revkit.ErrInvalidJSON, err)
	}
	if err := json.Unmarshal(result.Raw, out); err != nil {
		return fmt.Errorf("%s: %w: %v", call.tool, revkit.ErrInvalidJSON, err)
	}
	return nil
}

func (s *Service) generate(ctx context.Context, messages []llms.MessageContent, model string) (string, error) {
	resp, err := s.model.GenerateContent(ctx, messages,
		llms.WithModel(model),
		llms.WithTemperature(s.temperature),
		llms.WithJSONMode(),
	)
	if err != nil {
		return "", err
	}
	s.stats.RecordUsage(model, resp.Info)
	content := resp.Content()
	if strings.TrimSpace(content) == "" {
		return "", revkit.ErrEmptyResponse
	}
	return content, nil
}

// requireText trims value and fails with revkit.ErrEmptyInput when nothing is
// left.
func requireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s: %w", field, revkit.ErrEmptyInput)
	}
	return value, nil
}

// IsRetryable reports whether err came from the model rather than the input,
// so asking again may succeed.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, revkit.ErrEmptyInput), errors.Is(err, config.ErrMissingAPIKey):
		return false
	case errors.Is(err, context.Canceled):
		return false
	}
	return true
}
