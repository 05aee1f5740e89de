package cli

import (
	"fmt"

	"prepcoach/internal/ai"
	"prepcoach/internal/common"
	"prepcoach/internal/evaluation"
	"prepcoach/internal/profile"
	"prepcoach/internal/types"

	"github.com/spf13/cobra"
)

var questionCmd = &cobra.Command{
	Use:   "question [job-description-file]",
	Short: "Generate a behavioral interview question",
	Long: `Generate a behavioral interview question for a competency.

With a job description file the competency defaults to the strongest match
from the derived profile. Without a file, --competency is required and
--job-title and --industry supply the role context.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := resolveOutputFormat(cmd, &questionConfig); err != nil {
			return err
		}
		if len(args) == 0 && questionCompetency == "" {
			return fmt.Errorf("either a job description file or --competency is required")
		}
		return common.ValidateDifficulty(questionDifficulty)
	},
	RunE: runQuestion,
}

var (
	questionConfig        common.CommandConfig
	questionCompetency    string
	questionSubCompetency string
	questionDifficulty    string
	questionJobTitle      string
	questionIndustry      string
)

func init() {
	addOutputFlags(questionCmd, &questionConfig)
	questionCmd.Flags().StringVar(&questionCompetency, "competency", "", "Competency to practice (default: first from the derived profile)")
	questionCmd.Flags().StringVar(&questionSubCompetency, "sub-competency", "", "Sub-competency to target")
	questionCmd.Flags().StringVar(&questionDifficulty, "difficulty", "", "Question difficulty: easy, medium, or hard")
	questionCmd.Flags().StringVar(&questionJobTitle, "job-title", "", "Job title when no job description file is given")
	questionCmd.Flags().StringVar(&questionIndustry, "industry", "", "Industry when no job description file is given")

	_ = questionCmd.RegisterFlagCompletionFunc("difficulty", difficultyCompletion)
}

func runQuestion(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	jobProfile := &types.JobProfile{
		JobTitle: questionJobTitle,
		Industry: questionIndustry,
	}

	if len(args) == 1 {
		// Derive the profile from the job description first
		analyzeAIConfig := cfg.GetAnalyzeConfig()
		analyzeService, err := ai.NewService(&analyzeAIConfig, "analyze", logger)
		if err != nil {
			return fmt.Errorf("failed to create AI service: %w", err)
		}

		contents, err := common.NewFileProcessor(logger).ValidateAndReadFiles(args[0])
		if err != nil {
			return err
		}

		analyzer := profile.NewAnalyzer(analyzeService.Provider, logger)
		derived, usage, err := analyzer.Analyze(ctx, contents[0])
		if err != nil {
			return fmt.Errorf("failed to analyze job description: %w", err)
		}
		common.LogTokenUsage(logger, usage)
		jobProfile = derived
	}

	competency := questionCompetency
	if competency == "" && len(jobProfile.Competencies) > 0 {
		competency = jobProfile.Competencies[0].Name
	}
	if competency == "" {
		return fmt.Errorf("no competency to practice, provide --competency")
	}

	questionAIConfig := cfg.GetQuestionConfig()
	questionService, err := ai.NewService(&questionAIConfig, "question", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	questioner := evaluation.NewEvaluator(questionService.Provider, logger)

	logger.Info("Starting question generation",
		"competency", competency,
		"sub_competency", questionSubCompetency,
		"difficulty", questionDifficulty,
		"output_format", questionConfig.OutputFormat)

	question, usage, err := questioner.GenerateQuestion(ctx, jobProfile, competency, questionSubCompetency, questionDifficulty)
	if err != nil {
		return fmt.Errorf("failed to generate question: %w", err)
	}
	common.LogTokenUsage(logger, usage)

	if err := common.NewOutputHandler(logger).HandleOutput(question, questionConfig); err != nil {
		return err
	}
	logger.Info("Question generation completed successfully")
	return nil
}
