package cli

import (
	"context"
	"fmt"

	"prepcoach/internal/ai"
	"prepcoach/internal/common"
	"prepcoach/internal/delivery"
	"prepcoach/internal/types"

	"github.com/spf13/cobra"
)

var deliveryCmd = &cobra.Command{
	Use:   "delivery [audio-file]",
	Short: "Coach vocal delivery from a spoken answer",
	Long: `Analyze how a spoken answer sounds rather than what it says. The recording
is scored on pace, clarity, confidence, tone, energy, and filler patterns,
each with targeted feedback and coaching tips.

Pass --question so the coach knows what was being answered, and --industry
to calibrate against the communication style that field expects.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &deliveryConfig)
	},
	RunE: runDelivery,
}

var (
	deliveryConfig     common.CommandConfig
	deliveryQuestion   string
	deliveryCompetency string
	deliveryIndustry   string
)

func init() {
	addOutputFlags(deliveryCmd, &deliveryConfig)
	deliveryCmd.Flags().StringVar(&deliveryQuestion, "question", "", "Question the recording answers")
	deliveryCmd.Flags().StringVar(&deliveryCompetency, "competency", "", "Competency the question probes")
	deliveryCmd.Flags().StringVar(&deliveryIndustry, "industry", "", "Industry for delivery style expectations")
}

func runDelivery(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	// Create AI service for the delivery operation
	deliveryAIConfig := cfg.GetDeliveryConfig()
	aiService, err := ai.NewService(&deliveryAIConfig, "delivery", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	coach := delivery.NewCoach(aiService.Provider, cfg.Audio, logger)

	createInput := func(audio []byte, mimeType string) (types.AnalyzeDeliveryInput, error) {
		return types.AnalyzeDeliveryInput{
			Audio:        audio,
			MIMEType:     mimeType,
			QuestionText: deliveryQuestion,
			Competency:   deliveryCompetency,
			Industry:     deliveryIndustry,
		}, nil
	}

	logDetails := func(input types.AnalyzeDeliveryInput, cfg common.CommandConfig) {
		logger.Info("Starting delivery analysis",
			"audio_bytes", len(input.Audio),
			"mime_type", input.MIMEType,
			"industry", input.Industry,
			"output_format", cfg.OutputFormat)
	}

	deliveryOperation := func(ctx context.Context, input types.AnalyzeDeliveryInput) (*types.DeliveryEvaluation, *ai.TokenUsage, error) {
		speech := delivery.SpeechContext{
			QuestionText: input.QuestionText,
			Competency:   input.Competency,
			Industry:     input.Industry,
		}
		return coach.Analyze(ctx, input.Audio, input.MIMEType, speech)
	}

	err = common.RunAudioCommand(
		cmd.Context(),
		logger,
		deliveryConfig,
		args[0],
		createInput,
		deliveryOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze delivery: %w", err)
	}
	logger.Info("Delivery analysis completed successfully")
	return nil
}
