package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/revkit/revkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func noEnv(string) (string, bool) { return "", false }

func TestLoad(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("REVKIT_MODEL", "")
	t.Setenv("REVKIT_JSON_MODEL", "")
	t.Setenv("REVKIT_WEB_SEARCH", "")

	dir := t.TempDir()
	global := writeFile(t, dir, "global.yaml", `
api_key: sk-global
report_model: google/gemini-2.5-flash
temperature: 0.5
`)
	project := writeFile(t, dir, "project.yaml", `
report_model: openai/gpt-4.1-mini
web_search: false
`)

	type input struct {
		paths []string
	}

	type expected struct {
		cfg *Config
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "no files gives defaults",
			input:    input{paths: []string{filepath.Join(dir, "missing.yaml")}},
			expected: expected{cfg: Default()},
		},
		{
			name:  "project overrides global field by field",
			input: input{paths: []string{global, project}},
			expected: expected{cfg: &Config{
				APIKey:      "sk-global",
				BaseURL:     revkit.OpenRouterBaseURL,
				Title:       "revkit",
				ReportModel: "openai/gpt-4.1-mini",
				JSONModel:   revkit.DefaultJSONModel,
				Temperature: 0.5,
				WebSearch:   false,
				Timeout:     "3m",
				Source:      project,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.input.paths...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected.cfg, cfg)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "api_key: [unterminated")
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"OPENROUTER_API_KEY": "sk-env",
		"REVKIT_MODEL":       "anthropic/claude-haiku-4.5",
		"REVKIT_JSON_MODEL":  "",
		"REVKIT_WEB_SEARCH":  "false",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, "sk-env", cfg.APIKey)
	assert.Equal(t, "anthropic/claude-haiku-4.5", cfg.ReportModel)
	assert.Equal(t, revkit.DefaultJSONModel, cfg.JSONModel)
	assert.False(t, cfg.WebSearch)

	untouched := Default()
	untouched.ApplyEnv(noEnv)
	assert.Equal(t, Default(), untouched)
}

func TestSaveAPIKey(t *testing.T) {
	t.Run("creates file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".revkit", "config.yaml")

		require.NoError(t, SaveAPIKey(path, "sk-saved"))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "api_key: sk-saved\n", string(data))

		t.Setenv("OPENROUTER_API_KEY", "")
		t.Setenv("REVKIT_MODEL", "")
		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "sk-saved", loaded.APIKey)
		assert.Equal(t, revkit.DefaultTemperature, loaded.Temperature)
		assert.True(t, loaded.WebSearch)
	})

	t.Run("keeps file settings and skips environment", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "config.yaml", "api_key: sk-old\nreport_model: team/model\ntemperature: 0.7\n")
		t.Setenv("REVKIT_MODEL", "env/model")
		t.Setenv("REVKIT_JSON_MODEL", "env/json")

		require.NoError(t, SaveAPIKey(path, "sk-new"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "env/")
		assert.NotContains(t, string(data), "web_search")
		assert.NotContains(t, string(data), "base_url")

		t.Setenv("REVKIT_MODEL", "")
		t.Setenv("REVKIT_JSON_MODEL", "")
		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "sk-new", loaded.APIKey)
		assert.Equal(t, "team/model", loaded.ReportModel)
		assert.Equal(t, revkit.DefaultJSONModel, loaded.JSONModel)
		assert.Equal(t, 0.7, loaded.Temperature)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", "api_key: [unclosed\n")
		assert.Error(t, SaveAPIKey(path, "sk-new"))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
		wantMsg string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) { c.APIKey = "k" },
		},
		{
			name:    "missing key",
			mutate:  func(c *Config) {},
			wantErr: ErrMissingAPIKey,
		},
		{
			name:    "temperature out of range",
			mutate:  func(c *Config) { c.APIKey = "k"; c.Temperature = 3 },
			wantMsg: "invalid temperature",
		},
		{
			name:    "bad timeout",
			mutate:  func(c *Config) { c.APIKey = "k"; c.Timeout = "soon" },
			wantMsg: "invalid timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantMsg != "":
				assert.ErrorContains(t, err, tt.wantMsg)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3*time.Minute, cfg.RequestTimeout())

	cfg.Timeout = ""
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout())

	cfg.Timeout = "nonsense"
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout())
}

func TestMaskedKey(t *testing.T) {
	assert.Equal(t, "", (&Config{}).MaskedKey())
	assert.Equal(t, "****", (&Config{APIKey: "abc"}).MaskedKey())
	assert.Equal(t, "****wxyz", (&Config{APIKey: "sk-or-v1-wxyz"}).MaskedKey())
}

func TestDefaultPaths(t *testing.T) {
	paths := DefaultPaths()
	require.NotEmpty(t, paths)
	assert.Equal(t, filepath.Join(".revkit", "config.yaml"), paths[len(paths)-1])
}
