package cli

import (
	"context"
	"fmt"

	"prepcoach/internal/ai"
	"prepcoach/internal/common"
	"prepcoach/internal/transcript"
	"prepcoach/internal/types"

	"github.com/spf13/cobra"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [audio-file]",
	Short: "Transcribe a spoken answer to text",
	Long: `Transcribe an audio recording of a spoken answer. The transcript is
validated before it is accepted: recordings shorter than a second, empty
transcripts, and low-confidence results are rejected with a reason.

Supported formats: wav, mp3, webm, ogg, m4a, flac. Formats outside the
provider's native set are converted with ffmpeg before transcription.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &transcribeConfig)
	},
	RunE: runTranscribe,
}

var transcribeConfig common.CommandConfig

func init() {
	addOutputFlags(transcribeCmd, &transcribeConfig)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	// Create AI service for the transcribe operation
	transcribeAIConfig := cfg.GetTranscribeConfig()
	aiService, err := ai.NewService(&transcribeAIConfig, "transcribe", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	transcripts := transcript.NewService(aiService.Provider, cfg.Audio, logger)

	createInput := func(audio []byte, mimeType string) (types.TranscribeAudioInput, error) {
		return types.TranscribeAudioInput{Audio: audio, MIMEType: mimeType}, nil
	}

	logDetails := func(input types.TranscribeAudioInput, cfg common.CommandConfig) {
		logger.Info("Starting transcription",
			"audio_bytes", len(input.Audio),
			"mime_type", input.MIMEType,
			"output_format", cfg.OutputFormat)
	}

	transcribeOperation := func(ctx context.Context, input types.TranscribeAudioInput) (*types.TranscriptionResult, *ai.TokenUsage, error) {
		return transcripts.Transcribe(ctx, input.Audio, input.MIMEType)
	}

	err = common.RunAudioCommand(
		cmd.Context(),
		logger,
		transcribeConfig,
		args[0],
		createInput,
		transcribeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to transcribe audio: %w", err)
	}
	logger.Info("Transcription completed successfully")
	return nil
}
