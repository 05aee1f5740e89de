package cli

import (
	"fmt"

	"prepcoach/internal/ai"
	"prepcoach/internal/common"
	"prepcoach/internal/config"
	"prepcoach/internal/delivery"
	"prepcoach/internal/evaluation"
	"prepcoach/internal/profile"
	"prepcoach/internal/transcript"
	"prepcoach/internal/types"
	"prepcoach/internal/workflow"

	"github.com/spf13/cobra"
)

var voiceCmd = &cobra.Command{
	Use:   "voice [job-description-file] [audio-file]",
	Short: "Run the full voice practice pipeline",
	Long: `Run a complete voice practice round in one shot: analyze the job
description, generate an interview question, transcribe the recorded
answer, evaluate its content and delivery, and synthesize a combined
readiness report.

The command takes two arguments: the path to the job description file and
the path to the audio recording. The recording is treated as the answer to
the generated question, so record after previewing the question with the
question command, or pass --competency to steer which question is asked.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := resolveOutputFormat(cmd, &voiceConfig); err != nil {
			return err
		}
		return common.ValidateDifficulty(voiceDifficulty)
	},
	RunE: runVoice,
}

var (
	voiceConfig        common.CommandConfig
	voiceCompetency    string
	voiceSubCompetency string
	voiceDifficulty    string
)

func init() {
	addOutputFlags(voiceCmd, &voiceConfig)
	voiceCmd.Flags().StringVar(&voiceCompetency, "competency", "", "Competency to practice (default: top competency from the profile)")
	voiceCmd.Flags().StringVar(&voiceSubCompetency, "sub-competency", "", "Sub-competency to target")
	voiceCmd.Flags().StringVar(&voiceDifficulty, "difficulty", "", "Question difficulty: easy, medium, or hard")
	_ = voiceCmd.RegisterFlagCompletionFunc("difficulty", difficultyCompletion)
}

func runVoice(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := getConfigFromContext(ctx)
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(ctx)
	if err != nil {
		return err
	}

	// One AI service per pipeline stage so each honors its own model,
	// fallback, and resilience settings.
	build := func(opCfg config.OperationAIConfig, operation string) (*ai.Service, error) {
		svc, err := ai.NewService(&opCfg, operation, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s AI service: %w", operation, err)
		}
		return svc, nil
	}

	analyzeSvc, err := build(cfg.GetAnalyzeConfig(), "analyze")
	if err != nil {
		return err
	}
	questionSvc, err := build(cfg.GetQuestionConfig(), "question")
	if err != nil {
		return err
	}
	evaluateSvc, err := build(cfg.GetEvaluateConfig(), "evaluate")
	if err != nil {
		return err
	}
	transcribeSvc, err := build(cfg.GetTranscribeConfig(), "transcribe")
	if err != nil {
		return err
	}
	deliverySvc, err := build(cfg.GetDeliveryConfig(), "delivery")
	if err != nil {
		return err
	}
	synthesizeSvc, err := build(cfg.GetSynthesizeConfig(), "synthesize")
	if err != nil {
		return err
	}

	fileProcessor := common.NewFileProcessor(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args[0])
	if err != nil {
		return err
	}

	logger.Info("Starting voice practice pipeline",
		"job_chars", len(contents[0]),
		"audio_file", args[1],
		"output_format", voiceConfig.OutputFormat)

	analyzer := profile.NewAnalyzer(analyzeSvc.Provider, logger)
	jobProfile, usage, err := analyzer.Analyze(ctx, contents[0])
	if err != nil {
		return fmt.Errorf("failed to analyze job description: %w", err)
	}
	common.LogTokenUsage(logger, usage)

	competency := voiceCompetency
	if competency == "" && len(jobProfile.Competencies) > 0 {
		competency = jobProfile.Competencies[0].Name
	}
	if competency == "" {
		return fmt.Errorf("no competency to practice, provide --competency")
	}

	questioner := evaluation.NewEvaluator(questionSvc.Provider, logger)
	question, usage, err := questioner.GenerateQuestion(ctx, jobProfile, competency, voiceSubCompetency, voiceDifficulty)
	if err != nil {
		return fmt.Errorf("failed to generate question: %w", err)
	}
	common.LogTokenUsage(logger, usage)
	logger.Info("Practice question generated",
		"competency", question.Competency,
		"difficulty", question.Difficulty,
		"question", question.QuestionText)

	audio, mimeType, err := fileProcessor.ReadAudioFile(args[1])
	if err != nil {
		return err
	}

	transcripts := transcript.NewService(transcribeSvc.Provider, cfg.Audio, logger)
	evaluator := evaluation.NewEvaluator(evaluateSvc.Provider, logger)
	coach := delivery.NewCoach(deliverySvc.Provider, cfg.Audio, logger)
	workflows := workflow.NewOrchestrator(transcripts, evaluator, coach, synthesizeSvc.Provider, logger)

	result, err := workflows.EvaluateVoiceAnswer(ctx, jobProfile, question, types.VoiceAnswer{
		Audio:    audio,
		MIMEType: mimeType,
	})
	if err != nil {
		return fmt.Errorf("failed to evaluate voice answer: %w", err)
	}

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(result, voiceConfig); err != nil {
		return fmt.Errorf("failed to handle output: %w", err)
	}

	logger.Info("Voice practice pipeline completed successfully",
		"workflow_id", result.WorkflowID,
		"status", result.Status)
	return nil
}
