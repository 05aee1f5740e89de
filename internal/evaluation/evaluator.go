// Package evaluation generates competency-scoped interview questions and
// scores free-text answers. Both operations degrade to deterministic
// fallbacks when the AI call fails, so callers always receive a complete
// result for well-formed input.
package evaluation

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"prepcoach/internal/ai"
	"prepcoach/internal/errors"
	"prepcoach/internal/types"
)

// minQuestionChars is the exclusive lower bound on usable question text.
// AI output at or below it is discarded in favor of the fallback bank.
const minQuestionChars = 20

// Evaluator runs question generation and answer evaluation.
type Evaluator struct {
	provider ai.AIProvider
	logger   *errors.Logger
}

func NewEvaluator(provider ai.AIProvider, logger *errors.Logger) *Evaluator {
	return &Evaluator{provider: provider, logger: logger}
}

// GenerateQuestion produces an interview question for one competency. A
// failed or unusable AI generation falls back to the template bank and
// marks the question degraded; the error is never surfaced.
func (e *Evaluator) GenerateQuestion(ctx context.Context, profile *types.JobProfile, competency, subCompetency, difficulty string) (*types.Question, *ai.TokenUsage, error) {
	if strings.TrimSpace(competency) == "" {
		return nil, nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "Competency must not be empty", nil)
	}
	if difficulty == "" {
		difficulty = types.DifficultyMedium
	}

	generated, usage, err := e.provider.GenerateQuestion(ctx, types.GenerateQuestionInput{
		JobTitle:      profile.JobTitle,
		Industry:      profile.Industry,
		Competency:    competency,
		SubCompetency: subCompetency,
		Difficulty:    difficulty,
	})

	questionText := collapseWhitespace(generated.QuestionText)
	if err != nil || len(questionText) <= minQuestionChars {
		if err != nil {
			e.logger.Warn("AI question generation failed, using fallback template",
				"competency", competency, "error", err)
		} else {
			e.logger.Warn("AI question text too short, using fallback template",
				"competency", competency, "length", len(questionText))
		}
		return fallbackQuestion(profile, competency, subCompetency, difficulty), usage, nil
	}

	question := &types.Question{
		ID:                     uuid.NewString(),
		Competency:             competency,
		SubCompetency:          subCompetency,
		Difficulty:             difficulty,
		QuestionText:           questionText,
		ExpectedAnswerGuidance: strings.TrimSpace(generated.ExpectedAnswerGuidance),
		EvaluationCriteria:     generated.EvaluationCriteria,
		Status:                 types.StatusOk,
	}

	e.logger.Debug("Question generated",
		"question_id", question.ID,
		"competency", competency,
		"difficulty", difficulty)

	return question, usage, nil
}

// EvaluateAnswer scores an answer against the question's competency. The
// score is clamped to [0,10]; AI failure yields the heuristic fallback
// evaluation, marked degraded.
func (e *Evaluator) EvaluateAnswer(ctx context.Context, question *types.Question, answer string, profile *types.JobProfile) (*types.ContentEvaluation, *ai.TokenUsage, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "Answer must not be empty", nil)
	}

	evaluation, usage, err := e.provider.EvaluateAnswer(ctx, types.EvaluateAnswerInput{
		QuestionText:  question.QuestionText,
		AnswerText:    answer,
		Competency:    question.Competency,
		SubCompetency: question.SubCompetency,
		Industry:      profile.Industry,
		JobTitle:      profile.JobTitle,
	})
	if err != nil {
		e.logger.Warn("AI answer evaluation failed, using heuristic fallback",
			"competency", question.Competency, "error", err)
		return fallbackEvaluation(answer, question.Competency, profile.Industry), usage, nil
	}

	evaluation.Score = clampScore(evaluation.Score)
	evaluation.Status = types.StatusOk

	e.logger.Debug("Answer evaluated",
		"competency", question.Competency,
		"score", evaluation.Score)

	return &evaluation, usage, nil
}

// clampScore forces a score into the closed range [0,10].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

// collapseWhitespace trims the text and folds internal whitespace runs,
// including newlines, into single spaces.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
