// Package workflow orchestrates the parallel evaluation of a spoken answer:
// a content branch (transcription then rubric scoring) and a delivery branch
// run concurrently, and a synthesis pass combines both verdicts into one
// result.
//
// The content branch is load-bearing: if it fails, the workflow reports a
// failed result with a zero score. The delivery branch is best-effort: its
// failure substitutes a fallback evaluation and the workflow continues.
// No branch failure ever propagates as a raised error; the orchestrator
// always returns a well-formed WorkflowResult for valid input.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"prepcoach/internal/ai"
	"prepcoach/internal/delivery"
	"prepcoach/internal/errors"
	"prepcoach/internal/evaluation"
	"prepcoach/internal/transcript"
	"prepcoach/internal/types"
)

// Stage names reported in failed results and timing maps.
const (
	stageTranscription   = "transcription"
	stageContentAnalysis = "content_analysis"
	stageSynthesis       = "synthesis"
)

// weightPair is an industry's content/delivery weighting. The pair is
// advisory text in the synthesis prompt and the multiplier in the
// deterministic fallback combination.
type weightPair struct {
	Content  float64
	Delivery float64
}

var industryWeights = map[string]weightPair{
	"technology": {Content: 0.70, Delivery: 0.30},
	"sales":      {Content: 0.40, Delivery: 0.60},
	"consulting": {Content: 0.50, Delivery: 0.50},
	"healthcare": {Content: 0.60, Delivery: 0.40},
	"finance":    {Content: 0.65, Delivery: 0.35},
	"marketing":  {Content: 0.45, Delivery: 0.55},
	"education":  {Content: 0.60, Delivery: 0.40},
}

var defaultWeights = weightPair{Content: 0.60, Delivery: 0.40}

func weightsFor(industry string) weightPair {
	if weights, ok := industryWeights[industry]; ok {
		return weights
	}
	return defaultWeights
}

// Stats reports the lifetime workflow counters.
type Stats struct {
	SuccessfulWorkflows int64 `json:"successfulWorkflows"`
	FailedWorkflows     int64 `json:"failedWorkflows"`
}

// Orchestrator runs the parallel voice evaluation pipeline.
type Orchestrator struct {
	transcripts *transcript.Service
	evaluator   *evaluation.Evaluator
	coach       *delivery.Coach
	provider    ai.AIProvider
	logger      *errors.Logger

	successfulWorkflows atomic.Int64
	failedWorkflows     atomic.Int64
}

// NewOrchestrator wires the three analysis services and the provider used
// for the synthesis call.
func NewOrchestrator(
	transcripts *transcript.Service,
	evaluator *evaluation.Evaluator,
	coach *delivery.Coach,
	provider ai.AIProvider,
	logger *errors.Logger,
) *Orchestrator {
	return &Orchestrator{
		transcripts: transcripts,
		evaluator:   evaluator,
		coach:       coach,
		provider:    provider,
		logger:      logger,
	}
}

// contentOutcome is the content branch's result: either an evaluation over
// a validated transcript, or the stage that failed.
type contentOutcome struct {
	transcription *types.TranscriptionResult
	evaluation    *types.ContentEvaluation
	failedStage   string
	err           error
}

// EvaluateVoiceAnswer runs both analysis branches concurrently, gates on
// the content branch, and synthesizes the combined verdict. The returned
// error is reserved for invalid input; every analysis failure is folded
// into the result itself.
func (o *Orchestrator) EvaluateVoiceAnswer(ctx context.Context, profile *types.JobProfile, question *types.Question, voice types.VoiceAnswer) (*types.WorkflowResult, error) {
	if profile == nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "Job profile is required", nil)
	}
	if question == nil || strings.TrimSpace(question.QuestionText) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "Question must not be empty", nil)
	}
	if len(voice.Audio) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "Voice answer must include audio data", nil)
	}

	industry := strings.TrimSpace(profile.Industry)
	if industry == "" {
		industry = "technology"
	}

	workflowID := uuid.NewString()
	started := time.Now()
	stages := make(map[string]float64, 4)

	o.logger.Info("Starting voice evaluation workflow",
		"workflowId", workflowID,
		"competency", question.Competency,
		"audioBytes", len(voice.Audio),
	)

	var (
		content         contentOutcome
		deliveryEval    *types.DeliveryEvaluation
		contentSeconds  float64
		deliverySeconds float64
	)

	// Both branches always run to completion; a failure in one never
	// cancels the other.
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		branchStart := time.Now()
		defer func() {
			if r := recover(); r != nil {
				content = contentOutcome{
					failedStage: stageContentAnalysis,
					err:         fmt.Errorf("content analysis panicked: %v", r),
				}
			}
			contentSeconds = time.Since(branchStart).Seconds()
		}()
		content = o.analyzeContent(ctx, profile, question, voice)
	}()

	go func() {
		defer wg.Done()
		branchStart := time.Now()
		defer func() {
			if r := recover(); r != nil {
				deliveryEval = delivery.FallbackEvaluation(
					len(voice.Audio),
					fmt.Sprintf("delivery analysis panicked: %v", r),
					industry,
				)
			}
			deliverySeconds = time.Since(branchStart).Seconds()
		}()
		result, _, err := o.coach.Analyze(ctx, voice.Audio, voice.MIMEType, delivery.SpeechContext{
			QuestionText: question.QuestionText,
			Competency:   question.Competency,
			Industry:     industry,
		})
		if err != nil {
			deliveryEval = delivery.FallbackEvaluation(len(voice.Audio), err.Error(), industry)
			return
		}
		deliveryEval = result
	}()

	wg.Wait()
	stages["content"] = contentSeconds
	stages["delivery"] = deliverySeconds

	if content.failedStage != "" {
		stages["total"] = time.Since(started).Seconds()
		o.failedWorkflows.Add(1)
		o.logger.Warn("Voice evaluation workflow failed",
			"workflowId", workflowID,
			"stage", content.failedStage,
			"error", content.err,
		)
		return failedResult(workflowID, content.failedStage, content.transcription, stages), nil
	}

	synthesisStart := time.Now()
	synthesized := o.synthesize(ctx, industry, question, content, deliveryEval)
	stages[stageSynthesis] = time.Since(synthesisStart).Seconds()
	stages["total"] = time.Since(started).Seconds()

	status := types.StatusOk
	if content.evaluation.Status == types.StatusDegraded ||
		deliveryEval.Status == types.StatusDegraded ||
		synthesized.Status == types.StatusDegraded {
		status = types.StatusDegraded
	}

	o.successfulWorkflows.Add(1)
	o.logger.Info("Voice evaluation workflow complete",
		"workflowId", workflowID,
		"overallScore", synthesized.OverallScore,
		"status", status,
	)

	return &types.WorkflowResult{
		WorkflowID:    workflowID,
		Status:        status,
		Transcription: content.transcription,
		Content:       content.evaluation,
		Delivery:      deliveryEval,
		Evaluation:    synthesized,
		StageSeconds:  stages,
	}, nil
}

// Stats returns the lifetime success and failure counters.
func (o *Orchestrator) Stats() Stats {
	return Stats{
		SuccessfulWorkflows: o.successfulWorkflows.Load(),
		FailedWorkflows:     o.failedWorkflows.Load(),
	}
}

// analyzeContent transcribes the audio and, when the transcript passes
// validation, scores the answer content against the question.
func (o *Orchestrator) analyzeContent(ctx context.Context, profile *types.JobProfile, question *types.Question, voice types.VoiceAnswer) contentOutcome {
	transcription, _, err := o.transcripts.Transcribe(ctx, voice.Audio, voice.MIMEType)
	if err != nil {
		return contentOutcome{failedStage: stageTranscription, err: err}
	}
	if transcription.Status != types.StatusOk || !transcription.Valid {
		return contentOutcome{
			transcription: transcription,
			failedStage:   stageTranscription,
			err:           errors.NewAudioError(errors.ErrCodeTranscriptRejected, "Transcript failed quality validation", nil),
		}
	}

	contentEval, _, err := o.evaluator.EvaluateAnswer(ctx, question, transcription.Text, profile)
	if err != nil {
		return contentOutcome{
			transcription: transcription,
			failedStage:   stageContentAnalysis,
			err:           err,
		}
	}

	return contentOutcome{transcription: transcription, evaluation: contentEval}
}

// synthesize asks the AI to combine both branch verdicts; if that call
// fails, it combines them deterministically with the industry weights.
func (o *Orchestrator) synthesize(ctx context.Context, industry string, question *types.Question, content contentOutcome, deliveryEval *types.DeliveryEvaluation) *types.SynthesizedEvaluation {
	weights := weightsFor(industry)

	output, _, err := o.provider.SynthesizeEvaluation(ctx, types.SynthesizeEvaluationInput{
		QuestionText:   question.QuestionText,
		Competency:     question.Competency,
		Industry:       industry,
		Transcript:     content.transcription.Text,
		Content:        *content.evaluation,
		Delivery:       *deliveryEval,
		ContentWeight:  weights.Content,
		DeliveryWeight: weights.Delivery,
	})
	if err != nil {
		o.logger.Warn("AI synthesis failed, combining deterministically", "error", err)
		return fallbackSynthesis(content.evaluation, deliveryEval, weights, industry)
	}

	return &types.SynthesizedEvaluation{
		OverallScore:            clampOverall(output.OverallScore),
		ComprehensiveAssessment: output.ComprehensiveAssessment,
		CombinedStrengths:       output.CombinedStrengths,
		PriorityImprovements:    output.PriorityImprovements,
		IndustryFeedback:        output.IndustryFeedback,
		InterviewReadiness:      output.InterviewReadiness,
		DevelopmentPlan:         output.DevelopmentPlan,
		ComponentScores: types.ComponentScores{
			ContentScore:  content.evaluation.Score,
			DeliveryScore: deliveryEval.OverallScore,
		},
		Status: types.StatusOk,
	}
}

// fallbackSynthesis combines the branch results without the AI: the
// industry weight pair applied to the branch scores, strengths and
// improvements drawn from both branches (two from content, one from
// delivery).
func fallbackSynthesis(content *types.ContentEvaluation, deliveryEval *types.DeliveryEvaluation, weights weightPair, industry string) *types.SynthesizedEvaluation {
	overall := float64(content.Score)*weights.Content + float64(deliveryEval.OverallScore)*weights.Delivery

	return &types.SynthesizedEvaluation{
		OverallScore: clampOverall(overall),
		ComprehensiveAssessment: fmt.Sprintf(
			"Combined content and delivery analysis completed. Content scored %d/10, delivery scored %d/10.",
			content.Score, deliveryEval.OverallScore,
		),
		CombinedStrengths:    combineLists(content.Strengths, deliveryEval.Strengths, 2, 1),
		PriorityImprovements: combineLists(content.Improvements, deliveryEval.Improvements, 2, 1),
		IndustryFeedback: fmt.Sprintf(
			"For %s interviews, continue developing both content knowledge and professional delivery.",
			industry,
		),
		InterviewReadiness: "Developing - continue practicing both content and delivery",
		DevelopmentPlan:    "Practice regularly with focus on both technical content and clear communication delivery",
		ComponentScores: types.ComponentScores{
			ContentScore:  content.Score,
			DeliveryScore: deliveryEval.OverallScore,
		},
		Status: types.StatusDegraded,
	}
}

// failedResult is the envelope returned when the content branch fails:
// zero score, stage-tagged assessment, and retry guidance.
func failedResult(workflowID, stage string, transcription *types.TranscriptionResult, stages map[string]float64) *types.WorkflowResult {
	return &types.WorkflowResult{
		WorkflowID:    workflowID,
		Status:        types.StatusFailed,
		FailedStage:   stage,
		Transcription: transcription,
		Evaluation: &types.SynthesizedEvaluation{
			OverallScore:            0,
			ComprehensiveAssessment: fmt.Sprintf("Analysis failed at %s stage. Please try again.", stage),
			PriorityImprovements: []string{
				"Try recording again with clear audio",
				"Ensure stable internet connection",
			},
			Status: types.StatusFailed,
		},
		StageSeconds: stages,
	}
}

func combineLists(a, b []string, takeA, takeB int) []string {
	combined := make([]string, 0, takeA+takeB)
	combined = append(combined, firstN(a, takeA)...)
	combined = append(combined, firstN(b, takeB)...)
	return combined
}

func firstN(items []string, n int) []string {
	return items[:min(n, len(items))]
}

func clampOverall(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
