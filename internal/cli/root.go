package cli

import (
	"context"
	"fmt"

	"prepcoach/internal/common"
	"prepcoach/internal/config"
	"prepcoach/internal/errors"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var configFile string

var rootCmd = &cobra.Command{
	Use:   "prepcoach",
	Short: "An AI interview preparation coach",
	Long: `Prepcoach helps you practice for job interviews using AI. It derives a
competency profile from a job description, generates behavioral questions,
scores typed answers against the STAR method, and evaluates spoken answers
for both content and vocal delivery.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfigFrom(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger, err := errors.New(cfg.App.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("Starting prepcoach",
			"version", Version,
			"log_level", cfg.App.LogLevel,
			"ai_provider", cfg.AI.Provider)

		// Attach the config and logger to the context, making them available to all subcommands
		ctx := context.WithValue(cmd.Context(), configKey, cfg)
		ctx = context.WithValue(ctx, loggerKey, logger)
		cmd.SetContext(ctx)
		return nil
	},
}

func Execute(ctx context.Context) error {
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, fmt.Errorf("configuration not found in command context")
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger, nil
	}
	return nil, fmt.Errorf("logger not found in command context")
}

// addOutputFlags registers the output flags every result-producing command shares.
func addOutputFlags(cmd *cobra.Command, cmdConfig *common.CommandConfig) {
	cmd.Flags().StringVarP(&cmdConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cmdConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion)
}

// formatCompletion completes --format from the configured supported formats.
// Completion runs without the persistent hooks, so fall back to the
// built-in set when no config is attached.
func formatCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return []string{"json", "text", "markdown"}, cobra.ShellCompDirectiveNoFileComp
	}
	return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
}

// difficultyCompletion completes --difficulty with the accepted levels.
func difficultyCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return common.ValidDifficulties, cobra.ShellCompDirectiveNoFileComp
}

// resolveOutputFormat applies the configured default format and validates
// the result against the supported formats.
func resolveOutputFormat(cmd *cobra.Command, cmdConfig *common.CommandConfig) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	if cmdConfig.OutputFormat == "" {
		cmdConfig.OutputFormat = cfg.App.DefaultFormat
	}
	return common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default: search ., $HOME/.prepcoach, /etc/prepcoach)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(questionCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(deliveryCmd)
	rootCmd.AddCommand(voiceCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
