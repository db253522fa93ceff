// Package config loads revkit settings from YAML files and the environment.
//
// Sources, later ones winning:
//
//  1. built-in defaults
//  2. ~/.revkit/config.yaml
//  3. ./.revkit/config.yaml
//  4. OPENROUTER_API_KEY, REVKIT_MODEL, REVKIT_JSON_MODEL
//  5. command line flags (applied by the caller)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/revkit/revkit"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned by Validate when no API key is configured.
var ErrMissingAPIKey = errors.New(
	"OpenRouter API key not configured (set OPENROUTER_API_KEY, api_key in ~/.revkit/config.yaml, or --api-key)")

const (
	dirName  = ".revkit"
	fileName = "config.yaml"
)

// Config holds everything the tools need to reach the model.
type Config struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`

	// Attribution headers sent to OpenRouter.
	Referer string `yaml:"referer,omitempty"`
	Title   string `yaml:"title,omitempty"`

	// ReportModel streams the prospect report; JSONModel serves the JSON tools.
	ReportModel string `yaml:"report_model,omitempty"`
	JSONModel   string `yaml:"json_model,omitempty"`

	Temperature float64 `yaml:"temperature"`

	// WebSearch targets the ":online" variant of the model first for the
	// research tools.
	WebSearch bool `yaml:"web_search"`

	// Timeout bounds a single tool call ("90s", "2m"). Zero means no timeout.
	Timeout string `yaml:"timeout,omitempty"`

	// Path of the project file that was loaded last, for display.
	Source string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseURL:     revkit.OpenRouterBaseURL,
		Title:       "revkit",
		ReportModel: revkit.DefaultReportModel,
		JSONModel:   revkit.DefaultJSONModel,
		Temperature: revkit.DefaultTemperature,
		WebSearch:   true,
		Timeout:     "3m",
	}
}

// DefaultPaths returns the global and project config file paths in load order.
func DefaultPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, dirName, fileName))
	}
	return append(paths, filepath.Join(dirName, fileName))
}

// GlobalPath returns ~/.revkit/config.yaml.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home dir: %w", err)
	}
	return filepath.Join(home, dirName, fileName), nil
}

// Load starts from Default, overlays each existing file in paths, then applies
// environment overrides. Missing files are skipped; fields absent from a file
// keep their previous value.
func Load(paths ...string) (*Config, error) {
	cfg := Default()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.Source = path
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// ApplyEnv applies environment overrides through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if key, ok := lookup("OPENROUTER_API_KEY"); ok && key != "" {
		c.APIKey = key
	}
	if model, ok := lookup("REVKIT_MODEL"); ok && model != "" {
		c.ReportModel = model
	}
	if model, ok := lookup("REVKIT_JSON_MODEL"); ok && model != "" {
		c.JSONModel = model
	}
	if v, ok := lookup("REVKIT_WEB_SEARCH"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.WebSearch = b
		}
	}
}

// SaveAPIKey stores key in the config file at path, creating the file and its
// directory when needed. Other settings in the file are kept as written;
// defaults and environment overrides are never copied into it. The file is
// readable only by the owner since it holds the API key.
func SaveAPIKey(path, key string) error {
	values := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if values == nil {
		values = map[string]any{}
	}
	values["api_key"] = key

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	out, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// RequestTimeout returns Timeout as a duration, or 0 when it is empty or
// unparseable.
func (c *Config) RequestTimeout() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Validate checks that the configuration can reach a model.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("invalid temperature %v: must be between 0 and 2", c.Temperature)
	}
	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
		}
	}
	return nil
}

// MaskedKey returns the API key with all but the last four characters hidden.
func (c *Config) MaskedKey() string {
	if len(c.APIKey) <= 4 {
		if c.APIKey == "" {
			return ""
		}
		return "****"
	}
	return "****" + c.APIKey[len(c.APIKey)-4:]
}
