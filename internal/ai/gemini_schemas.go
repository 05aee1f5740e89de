package ai

import (
	"google.golang.org/genai"

	"prepcoach/internal/types"
)

// buildAnalyzeSchema creates the schema for job analysis requests
func (g *GeminiProvider) buildAnalyzeSchema() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"jobTitle": {Type: genai.TypeString},
				"skills": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"technologies": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"responsibilities": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"jobTitle", "skills", "technologies", "responsibilities"},
		},
	}

	// Apply temperature configuration if set
	if *g.config.Temperature > 0 {
		config.Temperature = g.config.Temperature
	}

	return config
}

// buildQuestionSchema creates the schema for question generation requests
func (g *GeminiProvider) buildQuestionSchema() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"questionText":           {Type: genai.TypeString},
				"expectedAnswerGuidance": {Type: genai.TypeString},
				"evaluationCriteria": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"questionText", "expectedAnswerGuidance", "evaluationCriteria"},
		},
	}

	// Apply temperature configuration if set
	if *g.config.Temperature > 0 {
		config.Temperature = g.config.Temperature
	}

	return config
}

// buildEvaluateSchema creates the schema for answer evaluation requests
func (g *GeminiProvider) buildEvaluateSchema() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"score":             {Type: genai.TypeInteger},
				"overallAssessment": {Type: genai.TypeString},
				"starAnalysis": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"situation": {Type: genai.TypeString},
						"task":      {Type: genai.TypeString},
						"action":    {Type: genai.TypeString},
						"result":    {Type: genai.TypeString},
					},
					Required: []string{"situation", "task", "action", "result"},
				},
				"strengths": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"improvements": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"missingElements": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"advice":       {Type: genai.TypeString},
				"sampleAnswer": {Type: genai.TypeString},
			},
			Required: []string{"score", "overallAssessment", "starAnalysis", "strengths", "improvements", "missingElements", "advice", "sampleAnswer"},
		},
	}

	// Apply temperature configuration if set
	if *g.config.Temperature > 0 {
		config.Temperature = g.config.Temperature
	}

	return config
}

// buildTranscribeSchema creates the schema for transcription requests
func (g *GeminiProvider) buildTranscribeSchema() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"text": {Type: genai.TypeString},
			},
			Required: []string{"text"},
		},
	}

	// Apply temperature configuration if set
	if *g.config.Temperature > 0 {
		config.Temperature = g.config.Temperature
	}

	return config
}

// buildDeliverySchema creates the schema for delivery analysis requests
func (g *GeminiProvider) buildDeliverySchema() *genai.GenerateContentConfig {
	// The schema requires every axis so the response always parses into a
	// complete score map.
	axisProperties := make(map[string]*genai.Schema, len(types.DeliveryAxes))
	for _, axis := range types.DeliveryAxes {
		axisProperties[axis] = axisScoreSchema()
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"overallScore":       {Type: genai.TypeInteger},
				"deliveryAssessment": {Type: genai.TypeString},
				"detailedScores": {
					Type:       genai.TypeObject,
					Properties: axisProperties,
					Required:   types.DeliveryAxes,
				},
				"strengths": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"improvements": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"coachingTips": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"industryAdvice": {Type: genai.TypeString},
			},
			Required: []string{"overallScore", "deliveryAssessment", "detailedScores", "strengths", "improvements", "coachingTips", "industryAdvice"},
		},
	}

	// Apply temperature configuration if set
	if *g.config.Temperature > 0 {
		config.Temperature = g.config.Temperature
	}

	return config
}

// buildSynthesizeSchema creates the schema for evaluation synthesis requests
func (g *GeminiProvider) buildSynthesizeSchema() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"overallScore":            {Type: genai.TypeNumber},
				"comprehensiveAssessment": {Type: genai.TypeString},
				"combinedStrengths": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"priorityImprovements": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"industryFeedback":   {Type: genai.TypeString},
				"interviewReadiness": {Type: genai.TypeString},
				"developmentPlan":    {Type: genai.TypeString},
			},
			Required: []string{"overallScore", "comprehensiveAssessment", "combinedStrengths", "priorityImprovements", "industryFeedback", "interviewReadiness", "developmentPlan"},
		},
	}

	// Apply temperature configuration if set
	if *g.config.Temperature > 0 {
		config.Temperature = g.config.Temperature
	}

	return config
}

// axisScoreSchema returns the schema for one scored delivery dimension
func axisScoreSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score":    {Type: genai.TypeInteger},
			"feedback": {Type: genai.TypeString},
		},
		Required: []string{"score", "feedback"},
	}
}
