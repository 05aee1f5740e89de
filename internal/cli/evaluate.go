package cli

import (
	"context"
	"fmt"

	"prepcoach/internal/ai"
	"prepcoach/internal/common"
	"prepcoach/internal/evaluation"
	"prepcoach/internal/types"

	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [question-file] [answer-file]",
	Short: "Score a written answer to an interview question",
	Long: `Evaluate a written answer against the question it responds to. The answer
is scored 0-10 on substance, checked for STAR structure (situation, task,
action, result), and returned with strengths, improvements, and a sample
answer.

The command takes two arguments: the path to a file holding the question
text and the path to a file holding the answer. Use --competency and
--industry to sharpen the evaluation context.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &evaluateConfig)
	},
	RunE: runEvaluate,
}

var (
	evaluateConfig        common.CommandConfig
	evaluateCompetency    string
	evaluateSubCompetency string
	evaluateJobTitle      string
	evaluateIndustry      string
)

func init() {
	addOutputFlags(evaluateCmd, &evaluateConfig)
	evaluateCmd.Flags().StringVar(&evaluateCompetency, "competency", "", "Competency the question probes")
	evaluateCmd.Flags().StringVar(&evaluateSubCompetency, "sub-competency", "", "Sub-competency the question targets")
	evaluateCmd.Flags().StringVar(&evaluateJobTitle, "job-title", "", "Job title for evaluation context")
	evaluateCmd.Flags().StringVar(&evaluateIndustry, "industry", "", "Industry for evaluation context")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	// Create AI service for the evaluate operation
	evaluateAIConfig := cfg.GetEvaluateConfig()
	aiService, err := ai.NewService(&evaluateAIConfig, "evaluate", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	evaluator := evaluation.NewEvaluator(aiService.Provider, logger)

	createInput := func(contents []string) (types.EvaluateAnswerInput, error) {
		if len(contents) != 2 {
			return types.EvaluateAnswerInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.EvaluateAnswerInput{
			QuestionText:  contents[0],
			AnswerText:    contents[1],
			Competency:    evaluateCompetency,
			SubCompetency: evaluateSubCompetency,
			JobTitle:      evaluateJobTitle,
			Industry:      evaluateIndustry,
		}, nil
	}

	logDetails := func(input types.EvaluateAnswerInput, cfg common.CommandConfig) {
		logger.Info("Starting answer evaluation",
			"question_chars", len(input.QuestionText),
			"answer_chars", len(input.AnswerText),
			"competency", input.Competency,
			"output_format", cfg.OutputFormat)
	}

	evaluateOperation := func(ctx context.Context, input types.EvaluateAnswerInput) (*types.ContentEvaluation, *ai.TokenUsage, error) {
		question := &types.Question{
			QuestionText:  input.QuestionText,
			Competency:    input.Competency,
			SubCompetency: input.SubCompetency,
		}
		jobProfile := &types.JobProfile{
			JobTitle: input.JobTitle,
			Industry: input.Industry,
		}
		return evaluator.EvaluateAnswer(ctx, question, input.AnswerText, jobProfile)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		evaluateConfig,
		args,
		createInput,
		evaluateOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to evaluate answer: %w", err)
	}
	logger.Info("Answer evaluation completed successfully")
	return nil
}
