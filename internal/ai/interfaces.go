package ai

import (
	"context"

	"prepcoach/internal/types"
)

// AIProvider interface for different AI implementations
// All methods return token usage information - callers can ignore it if not needed
type AIProvider interface {
	AnalyzeJob(ctx context.Context, input types.AnalyzeJobInput) (types.JobExtraction, *TokenUsage, error)
	GenerateQuestion(ctx context.Context, input types.GenerateQuestionInput) (types.GeneratedQuestion, *TokenUsage, error)
	EvaluateAnswer(ctx context.Context, input types.EvaluateAnswerInput) (types.ContentEvaluation, *TokenUsage, error)
	TranscribeAudio(ctx context.Context, input types.TranscribeAudioInput) (types.Transcript, *TokenUsage, error)
	AnalyzeDelivery(ctx context.Context, input types.AnalyzeDeliveryInput) (types.DeliveryEvaluation, *TokenUsage, error)
	SynthesizeEvaluation(ctx context.Context, input types.SynthesizeEvaluationInput) (types.SynthesisOutput, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
