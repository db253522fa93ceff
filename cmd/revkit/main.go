// Command revkit runs the sales toolkit from the terminal.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/revkit/revkit"
	"github.com/revkit/revkit/config"
	"github.com/revkit/revkit/toolkit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath string
	verbose    bool
	apiKey     string
	model      string

	logger = zap.NewNop()
	stats  = revkit.NewStats()
)

var rootCmd = &cobra.Command{
	Use:   "revkit",
	Short: "AI sales toolkit: briefs, objections, ICP scoring, battlecards and more",
	Long: `revkit runs sales research tools against models served by OpenRouter.

Configuration is read from ~/.revkit/config.yaml, then ./.revkit/config.yaml,
then OPENROUTER_API_KEY / REVKIT_MODEL, then flags.

Run without arguments to start the interactive prompt.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if calls := stats.GetToolCallCount(); calls > 0 {
			logger.Info("usage",
				zap.Int64("tool_calls", calls),
				zap.Int64("input_tokens", stats.GetTotalInputTokens()),
				zap.Int64("output_tokens", stats.GetTotalOutputTokens()))
		}
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.revkit/config.yaml then ./.revkit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "OpenRouter API key (or set OPENROUTER_API_KEY)")
	rootCmd.PersistentFlags().StringVarP(&model, "model", "m", "", "Model ID for every tool")

	rootCmd.AddCommand(briefCmd)
	rootCmd.AddCommand(objectionCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(battlecardCmd)
	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(prospectCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(interactiveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the config files and applies flag overrides.
func loadConfig() (*config.Config, error) {
	paths := config.DefaultPaths()
	if configPath != "" {
		paths = []string{configPath}
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, apiKey, model)
	return cfg, nil
}

// applyFlags overrides cfg with non-empty flag values. --model applies to
// both the report and the JSON tools.
func applyFlags(cfg *config.Config, key, modelID string) {
	if key != "" {
		cfg.APIKey = key
	}
	if modelID != "" {
		cfg.ReportModel = modelID
		cfg.JSONModel = modelID
	}
}

func newService() (*toolkit.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded",
		zap.String("source", cfg.Source),
		zap.String("report_model", cfg.ReportModel),
		zap.String("json_model", cfg.JSONModel),
		zap.String("api_key", cfg.MaskedKey()))
	svc, err := toolkit.FromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	return svc.WithStats(stats), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
