// Package delivery scores how a spoken interview answer sounds, independent
// of what it says.
//
// The coach is best-effort by contract: audio too short to carry a vocal
// signal, and any AI failure, yield a fully populated fallback evaluation
// with every axis at the neutral midpoint rather than an error. Callers
// always receive a complete DeliveryEvaluation.
package delivery

import (
	"context"
	"fmt"
	"math"
	"strings"

	"prepcoach/internal/ai"
	"prepcoach/internal/config"
	"prepcoach/internal/errors"
	"prepcoach/internal/types"
)

// neutralScore is assigned to every axis when the recording cannot be analyzed.
const neutralScore = 5

// defaultIndustry stands in when the caller supplies no industry context.
const defaultIndustry = "technology"

// reasonTooShort explains the size-gate rejection inside the fallback assessment.
const reasonTooShort = "audio shorter than the minimum for delivery analysis"

// axisWeights fixes each delivery dimension's share of the overall score.
// The weights sum to 1.0.
var axisWeights = map[string]float64{
	"pace":           0.20,
	"clarity":        0.25,
	"confidence":     0.20,
	"tone":           0.15,
	"energy":         0.10,
	"fillerPatterns": 0.10,
}

// axisFallbackLabels names each axis inside generated fallback feedback.
var axisFallbackLabels = map[string]string{
	"pace":           "pace",
	"clarity":        "clarity",
	"confidence":     "confidence",
	"tone":           "tone",
	"energy":         "energy",
	"fillerPatterns": "patterns",
}

// communicationStyles maps an industry to the speaking register its
// interviews reward.
var communicationStyles = map[string]string{
	"technology": "Clear technical explanations, confident problem-solving discussion, collaborative tone",
	"healthcare": "Compassionate but authoritative, clear patient communication, professional confidence",
	"finance":    "Precise and analytical, confident with numbers, trustworthy and measured",
	"consulting": "Persuasive and strategic, client-focused, confident advisory tone",
	"marketing":  "Engaging and creative, persuasive storytelling, enthusiastic and dynamic",
	"education":  "Clear explanatory style, patient and supportive, authoritative but approachable",
	"sales":      "Persuasive and confident, relationship-building, energetic and engaging",
}

const defaultCommunicationStyle = "Professional, clear, and confident communication"

// CommunicationStyleFor returns the speaking register expected in an
// industry's interviews. Unknown industries get the generic professional
// register.
func CommunicationStyleFor(industry string) string {
	if style, ok := communicationStyles[strings.ToLower(strings.TrimSpace(industry))]; ok {
		return style
	}
	return defaultCommunicationStyle
}

// SpeechContext carries the question being answered and the role it belongs
// to, so delivery feedback can reference both.
type SpeechContext struct {
	QuestionText string
	Competency   string
	Industry     string
}

// Coach analyzes vocal delivery through the AI provider.
type Coach struct {
	provider ai.AIProvider
	cfg      config.AudioConfig
	logger   *errors.Logger
}

// NewCoach creates a delivery coach backed by the given provider.
func NewCoach(provider ai.AIProvider, cfg config.AudioConfig, logger *errors.Logger) *Coach {
	return &Coach{
		provider: provider,
		cfg:      cfg,
		logger:   logger,
	}
}

// Analyze scores the six delivery axes of a spoken answer and derives the
// overall score from their fixed weights. Recordings below the configured
// minimum size skip the provider entirely; those and provider failures both
// return a degraded fallback evaluation instead of an error.
func (c *Coach) Analyze(ctx context.Context, data []byte, mimeType string, speech SpeechContext) (*types.DeliveryEvaluation, *ai.TokenUsage, error) {
	industry := strings.TrimSpace(speech.Industry)
	if industry == "" {
		industry = defaultIndustry
	}

	if len(data) < c.cfg.MinBytes {
		c.logger.Info("Audio below delivery analysis minimum, skipping remote call",
			"sizeBytes", len(data),
			"minBytes", c.cfg.MinBytes,
		)
		return FallbackEvaluation(len(data), reasonTooShort, industry), nil, nil
	}

	c.logger.Debug("Starting delivery analysis",
		"sizeBytes", len(data),
		"mimeType", mimeType,
		"competency", speech.Competency,
	)

	evaluation, usage, err := c.provider.AnalyzeDelivery(ctx, types.AnalyzeDeliveryInput{
		Audio:         data,
		MIMEType:      mimeType,
		QuestionText:  speech.QuestionText,
		Competency:    speech.Competency,
		Industry:      industry,
		ExpectedStyle: CommunicationStyleFor(industry),
	})
	if err != nil {
		c.logger.Warn("AI delivery analysis failed, substituting fallback", "error", err)
		return FallbackEvaluation(len(data), err.Error(), industry), usage, nil
	}

	normalizeAxes(&evaluation)
	evaluation.OverallScore = weightedOverall(evaluation.DetailedScores)
	evaluation.Status = types.StatusOk

	c.logger.Debug("Delivery analysis complete",
		"overallScore", evaluation.OverallScore,
		"competency", speech.Competency,
	)
	return &evaluation, usage, nil
}

// FallbackEvaluation builds the complete evaluation substituted when a
// recording cannot be analyzed: every axis at the neutral midpoint and an
// assessment naming the audio size and the failure.
func FallbackEvaluation(sizeBytes int, reason, industry string) *types.DeliveryEvaluation {
	detailed := make(map[string]types.AxisScore, len(types.DeliveryAxes))
	for _, axis := range types.DeliveryAxes {
		detailed[axis] = types.AxisScore{
			Score:    neutralScore,
			Feedback: fmt.Sprintf("Unable to analyze %s due to processing error", axisFallbackLabels[axis]),
		}
	}

	return &types.DeliveryEvaluation{
		OverallScore: neutralScore,
		DeliveryAssessment: fmt.Sprintf(
			"Speech analysis temporarily unavailable. Audio received (%.1f KB) but processing failed: %s.",
			float64(sizeBytes)/1024,
			reason,
		),
		DetailedScores: detailed,
		Strengths: []string{
			"Audio was successfully recorded",
			fmt.Sprintf("Appropriate recording length for %s interview", industry),
			"Attempted to provide comprehensive response",
		},
		Improvements: []string{
			"Ensure clear audio quality for optimal analysis",
			"Check microphone settings and environment",
			"Try again with stable internet connection",
		},
		CoachingTips: []string{
			fmt.Sprintf("Practice speaking clearly for %s interviews", industry),
			"Record in a quiet environment for best results",
			"Speak at a moderate pace for technical discussions",
		},
		IndustryAdvice: fmt.Sprintf(
			"For %s interviews, focus on clear, confident communication that demonstrates technical expertise and professional demeanor.",
			industry,
		),
		Status: types.StatusDegraded,
	}
}

// normalizeAxes clamps every axis score and fills any axis the response
// omitted with the neutral midpoint, so the weighted overall always ranges
// over all six dimensions.
func normalizeAxes(evaluation *types.DeliveryEvaluation) {
	if evaluation.DetailedScores == nil {
		evaluation.DetailedScores = make(map[string]types.AxisScore, len(types.DeliveryAxes))
	}
	for _, axis := range types.DeliveryAxes {
		detail, ok := evaluation.DetailedScores[axis]
		if !ok {
			detail = types.AxisScore{Score: neutralScore}
		}
		detail.Score = clampScore(detail.Score)
		evaluation.DetailedScores[axis] = detail
	}
}

// weightedOverall combines the axis scores into one 0-10 score using the
// fixed axis weights.
func weightedOverall(scores map[string]types.AxisScore) int {
	var sum float64
	for _, axis := range types.DeliveryAxes {
		sum += float64(scores[axis].Score) * axisWeights[axis]
	}
	return clampScore(int(math.Round(sum)))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
