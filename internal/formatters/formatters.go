package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"prepcoach/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "JobProfile", &ProfileTextFormatter{})
	registry.RegisterFormatter("markdown", "JobProfile", &ProfileMarkdownFormatter{})
	registry.RegisterFormatter("text", "Question", &QuestionTextFormatter{})
	registry.RegisterFormatter("markdown", "Question", &QuestionMarkdownFormatter{})
	registry.RegisterFormatter("text", "ContentEvaluation", &EvaluationTextFormatter{})
	registry.RegisterFormatter("markdown", "ContentEvaluation", &EvaluationMarkdownFormatter{})
	registry.RegisterFormatter("text", "TranscriptionResult", &TranscriptTextFormatter{})
	registry.RegisterFormatter("markdown", "TranscriptionResult", &TranscriptMarkdownFormatter{})
	registry.RegisterFormatter("text", "DeliveryEvaluation", &DeliveryTextFormatter{})
	registry.RegisterFormatter("markdown", "DeliveryEvaluation", &DeliveryMarkdownFormatter{})
	registry.RegisterFormatter("text", "WorkflowResult", &VoiceTextFormatter{})
	registry.RegisterFormatter("markdown", "WorkflowResult", &VoiceMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.JobProfile, *types.JobProfile:
		return "JobProfile"
	case types.Question, *types.Question:
		return "Question"
	case types.ContentEvaluation, *types.ContentEvaluation:
		return "ContentEvaluation"
	case types.TranscriptionResult, *types.TranscriptionResult:
		return "TranscriptionResult"
	case types.DeliveryEvaluation, *types.DeliveryEvaluation:
		return "DeliveryEvaluation"
	case types.WorkflowResult, *types.WorkflowResult:
		return "WorkflowResult"
	default:
		return "any"
	}
}

// assertType unwraps data into T, accepting either the value or a
// non-nil pointer to it. Coaching services hand out pointers.
func assertType[T any](data any) (T, bool) {
	if value, ok := data.(T); ok {
		return value, true
	}
	if ptr, ok := data.(*T); ok && ptr != nil {
		return *ptr, true
	}
	var zero T
	return zero, false
}

// axisLabels maps delivery axis keys to their display names.
var axisLabels = map[string]string{
	"pace":           "Pace",
	"clarity":        "Clarity",
	"confidence":     "Confidence",
	"tone":           "Tone",
	"energy":         "Energy",
	"fillerPatterns": "Filler Patterns",
}

func axisLabel(axis string) string {
	if label, ok := axisLabels[axis]; ok {
		return label
	}
	return axis
}

// stageOrder fixes the rendering order of workflow stage timings.
var stageOrder = []string{"content", "delivery", "synthesis", "total"}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ProfileTextFormatter handles text formatting for job profiles
type ProfileTextFormatter struct{}

func (ptf *ProfileTextFormatter) Format(data any) (string, error) {
	result, ok := assertType[types.JobProfile](data)
	if !ok {
		return "", fmt.Errorf("expected JobProfile, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== JOB PROFILE ===\n\n")
	output.WriteString(fmt.Sprintf("Job Title: %s\n", result.JobTitle))
	output.WriteString(fmt.Sprintf("Industry: %s\n", result.Industry))
	output.WriteString(fmt.Sprintf("Experience Level: %s\n\n", result.ExperienceLevel))

	if len(result.Skills) > 0 {
		output.WriteString("Skills:\n")
		for _, skill := range result.Skills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.Technologies) > 0 {
		output.WriteString("Technologies:\n")
		for _, tech := range result.Technologies {
			output.WriteString(fmt.Sprintf("- %s\n", tech))
		}
		output.WriteString("\n")
	}

	output.WriteString("=== COMPETENCY FOCUS ===\n")
	for i, competency := range result.Competencies {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, competency.Name))
		if len(competency.SubCompetencies) > 0 {
			output.WriteString(fmt.Sprintf("   Sub-competencies: %s\n", strings.Join(competency.SubCompetencies, ", ")))
		}
	}

	if result.Status == types.StatusDegraded {
		output.WriteString("\nNote: heuristic profile, AI analysis was unavailable.\n")
	}

	return output.String(), nil
}

func (ptf *ProfileTextFormatter) SupportedType() string {
	return "JobProfile"
}

// ProfileMarkdownFormatter handles markdown formatting for job profiles
type ProfileMarkdownFormatter struct{}

func (pmf *ProfileMarkdownFormatter) Format(data any) (string, error) {
	result, ok := assertType[types.JobProfile](data)
	if !ok {
		return "", fmt.Errorf("expected JobProfile, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Job Profile\n\n")
	output.WriteString(fmt.Sprintf("**Job Title:** %s\n", result.JobTitle))
	output.WriteString(fmt.Sprintf("**Industry:** %s\n", result.Industry))
	output.WriteString(fmt.Sprintf("**Experience Level:** %s\n\n", result.ExperienceLevel))

	if len(result.Skills) > 0 {
		output.WriteString("## Skills\n\n")
		for _, skill := range result.Skills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.Technologies) > 0 {
		output.WriteString("## Technologies\n\n")
		for _, tech := range result.Technologies {
			output.WriteString(fmt.Sprintf("- %s\n", tech))
		}
		output.WriteString("\n")
	}

	output.WriteString("## Competency Focus\n\n")
	for i, competency := range result.Competencies {
		output.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, competency.Name))
		for _, sub := range competency.SubCompetencies {
			output.WriteString(fmt.Sprintf("- %s\n", sub))
		}
		output.WriteString("\n")
	}

	if result.Status == types.StatusDegraded {
		output.WriteString("*Note: heuristic profile, AI analysis was unavailable.*\n")
	}

	return output.String(), nil
}

func (pmf *ProfileMarkdownFormatter) SupportedType() string {
	return "JobProfile"
}

// QuestionTextFormatter handles text formatting for interview questions
type QuestionTextFormatter struct{}

func (qtf *QuestionTextFormatter) Format(data any) (string, error) {
	result, ok := assertType[types.Question](data)
	if !ok {
		return "", fmt.Errorf("expected Question, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== INTERVIEW QUESTION ===\n\n")
	output.WriteString(fmt.Sprintf("Competency: %s\n", result.Competency))
	if result.SubCompetency != "" {
		output.WriteString(fmt.Sprintf("Sub-competency: %s\n", result.SubCompetency))
	}
	output.WriteString(fmt.Sprintf("Difficulty: %s\n\n", result.Difficulty))

	output.WriteString(result.QuestionText)
	output.WriteString("\n\n")

	if result.ExpectedAnswerGuidance != "" {
		output.WriteString("=== ANSWER GUIDANCE ===\n")
		output.WriteString(result.ExpectedAnswerGuidance)
		output.WriteString("\n\n")
	}

	if len(result.EvaluationCriteria) > 0 {
		output.WriteString("Evaluation Criteria:\n")
		for i, criterion := range result.EvaluationCriteria {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, criterion))
		}
	}

	if result.Status == types.StatusDegraded {
		output.WriteString("\nNote: question served from the built-in bank.\n")
	}

	return output.String(), nil
}

func (qtf *QuestionTextFormatter) SupportedType() string {
	return "Question"
}

// QuestionMarkdownFormatter handles markdown formatting for interview questions
type QuestionMarkdownFormatter struct{}

func (qmf *QuestionMarkdownFormatter) Format(data any) (string, error) {
	result, ok := assertType[types.Question](data)
	if !ok {
		return "", fmt.Errorf("expected Question, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Interview Question\n\n")
	output.WriteString(fmt.Sprintf("**Competency:** %s\n", result.Competency))
	if result.SubCompetency != "" {
		output.WriteString(fmt.Sprintf("**Sub-competency:** %s\n", result.SubCompetency))
	}
	output.WriteString(fmt.Sprintf("**Difficulty:** %s\n\n", result.Difficulty))

	output.WriteString(result.QuestionText)
	output.WriteString("\n\n")

	if result.ExpectedAnswerGuidance != "" {
		output.WriteString("## Answer Guidance\n\n")
		output.WriteString(result.ExpectedAnswerGuidance)
		output.WriteString("\n\n")
	}

	if len(result.EvaluationCriteria) > 0 {
		output.WriteString("## Evaluation Criteria\n\n")
		for i, criterion := range result.EvaluationCriteria {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, criterion))
		}
		output.WriteString("\n")
	}

	if result.Status == types.StatusDegraded {
		output.WriteString("*Note: question served from the built-in bank.*\n")
	}

	return output.String(), nil
}

func (qmf *QuestionMarkdownFormatter) SupportedType() string {
	return "Question"
}

// EvaluationTextFormatter handles text formatting for answer evaluations
type EvaluationTextFormatter struct{}

func (etf *EvaluationTextFormatter) Format(data any) (string, error) {
	result, ok := assertType[types.ContentEvaluation](data)
	if !ok {
		return "", fmt.Errorf("expected ContentEvaluation, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ANSWER EVALUATION ===\n\n")
	output.WriteString(fmt.Sprintf("Score: %d/10\n\n", result.Score))
	output.WriteString(result.OverallAssessment)
	output.WriteString("\n\n")

	output.WriteString("=== STAR ANALYSIS ===\n")
	output.WriteString(fmt.Sprintf("Situation: %s\n", result.STARAnalysis.Situation))
	output.WriteString(fmt.Sprintf("Task: %s\n", result.STARAnalysis.Task))
	output.WriteString(fmt.Sprintf("Action: %s\n", result.STARAnalysis.Action))
	output.WriteString(fmt.Sprintf("Result: %s\n\n", result.STARAnalysis.Result))

	if len(result.Strengths) > 0 {
		output.WriteString("Strengths:\n")
		for _, strength := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}

	if len(result.Improvements) > 0 {
		output.WriteString("Improvements:\n")
		for _, improvement := range result.Improvements {
			output.WriteString(fmt.Sprintf("- %s\n", improvement))
		}
		output.WriteString("\n")
	}

	if len(result.MissingElements) > 0 {
		output.WriteString("Missing Elements:\n")
		for _, element := range result.MissingElements {
			output.WriteString(fmt.Sprintf("- %s\n", element))
		}
		output.WriteString("\n")
	}

	if result.Advice != "" {
		output.WriteString("Advice:\n")
		output.WriteString(result.Advice)
		output.WriteString("\n\n")
	}

	if result.SampleAnswer != "" {
		output.WriteString("=== SAMPLE ANSWER ===\n")
		output.WriteString(result.SampleAnswer)
		output.WriteString("\n")
	}

	if result.Status == types.StatusDegraded {
		output.WriteString("\nNote: heuristic evaluation, AI scoring was unavailable.\n")
	}

	return output.String(), nil
}

func (etf *EvaluationTextFormatter) SupportedType() string {
	return "ContentEvaluation"
}

// EvaluationMarkdownFormatter handles markdown formatting for answer evaluations
type EvaluationMarkdownFormatter struct{}

func (emf *EvaluationMarkdownFormatter) Format(data any) (string, error) {
	result, ok := assertType[types.ContentEvaluation](data)
	if !ok {
		return "", fmt.Errorf("expected ContentEvaluation, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Answer Evaluation\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/10\n\n", result.Score))
	output.WriteString(result.OverallAssessment)
	output.WriteString("\n\n")

	output.WriteString("## STAR Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Situation:** %s\n", result.STARAnalysis.Situation))
	output.WriteString(fmt.Sprintf("**Task:** %s\n", result.STARAnalysis.Task))
	output.WriteString(fmt.Sprintf("**Action:** %s\n", result.STARAnalysis.Action))
	output.WriteString(fmt.Sprintf("**Result:** %s\n\n", result.STARAnalysis.Result))

	if len(result.Strengths) > 0 {
		output.WriteString("## Strengths\n\n")
		for _, strength := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}

	if len(result.Improvements) > 0 {
		output.WriteString("## Improvements\n\n")
		for _, improvement := range result.Improvements {
			output.WriteString(fmt.Sprintf("- %s\n", improvement))
		}
		output.WriteString("\n")
	}

	if len(result.MissingElements) > 0 {
		output.WriteString("## Missing Elements\n\n")
		for _, element := range result.MissingElements {
			output.WriteString(fmt.Sprintf("- %s\n", element))
		}
		output.WriteString("\n")
	}

	if result.Advice != "" {
		output.WriteString("## Advice\n\n")
		output.WriteString(result.Advice)
		output.WriteString("\n\n")
	}

	if result.SampleAnswer != "" {
		output.WriteString("## Sample Answer\n\n")
		output.WriteString(result.SampleAnswer)
		output.WriteString("\n")
	}

	if result.Status == types.StatusDegraded {
		output.WriteString("\n*Note: heuristic evaluation, AI scoring was unavailable.*\n")
	}

	return output.String(), nil
}

func (emf *EvaluationMarkdownFormatter) SupportedType() string {
	return "ContentEvaluation"
}

// TranscriptTextFormatter handles text formatting for transcription results
type TranscriptTextFormatter struct{}

func (trf *TranscriptTextFormatter) Format(data any) (string, error) {
	result, ok := assertType[types.TranscriptionResult](data)
	if !ok {
		return "", fmt.Errorf("expected TranscriptionResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== TRANSCRIPTION ===\n\n")
	if result.Text != "" {
		output.WriteString(result.Text)
		output.WriteString("\n\n")
	}

	output.WriteString(fmt.Sprintf("Word Count: %d\n", result.WordCount))
	output.WriteString(fmt.Sprintf("Duration: %.1fs\n", result.DurationSeconds))
	output.WriteString(fmt.Sprintf("Confidence: %.0f%%\n", result.Confidence*100))
	if result.Valid {
		output.WriteString("Valid: yes\n")
	} else {
		output.WriteString("Valid: no\n")
	}
	if result.ErrorMessage != "" {
		output.WriteString(fmt.Sprintf("Error: %s\n", result.ErrorMessage))
	}

	return output.String(), nil
}

func (trf *TranscriptTextFormatter) SupportedType() string {
	return "TranscriptionResult"
}

// TranscriptMarkdownFormatter handles markdown formatting for transcription results
type TranscriptMarkdownFormatter struct{}

func (trmf *TranscriptMarkdownFormatter) Format(data any) (string, error) {
	result, ok := assertType[types.TranscriptionResult](data)
	if !ok {
		return "", fmt.Errorf("expected TranscriptionResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Transcription\n\n")
	if result.Text != "" {
		output.WriteString(result.Text)
		output.WriteString("\n\n")
	}

	output.WriteString(fmt.Sprintf("**Word Count:** %d\n", result.WordCount))
	output.WriteString(fmt.Sprintf("**Duration:** %.1fs\n", result.DurationSeconds))
	output.WriteString(fmt.Sprintf("**Confidence:** %.0f%%\n", result.Confidence*100))
	if result.Valid {
		output.WriteString("**Valid:** yes\n")
	} else {
		output.WriteString("**Valid:** no\n")
	}
	if result.ErrorMessage != "" {
		output.WriteString(fmt.Sprintf("**Error:** %s\n", result.ErrorMessage))
	}

	return output.String(), nil
}

func (trmf *TranscriptMarkdownFormatter) SupportedType() string {
	return "TranscriptionResult"
}

// DeliveryTextFormatter handles text formatting for delivery evaluations
type DeliveryTextFormatter struct{}

func (dtf *DeliveryTextFormatter) Format(data any) (string, error) {
	result, ok := assertType[types.DeliveryEvaluation](data)
	if !ok {
		return "", fmt.Errorf("expected DeliveryEvaluation, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== DELIVERY ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %d/10\n\n", result.OverallScore))
	if result.DeliveryAssessment != "" {
		output.WriteString(result.DeliveryAssessment)
		output.WriteString("\n\n")
	}

	output.WriteString("=== DELIVERY DIMENSIONS ===\n")
	for _, axis := range types.DeliveryAxes {
		score, exists := result.DetailedScores[axis]
		if !exists {
			continue
		}
		output.WriteString(fmt.Sprintf("%s: %d/10\n", axisLabel(axis), score.Score))
		if score.Feedback != "" {
			output.WriteString(fmt.Sprintf("  %s\n", score.Feedback))
		}
	}
	output.WriteString("\n")

	if len(result.Strengths) > 0 {
		output.WriteString("Strengths:\n")
		for _, strength := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}

	if len(result.Improvements) > 0 {
		output.WriteString("Improvements:\n")
		for _, improvement := range result.Improvements {
			output.WriteString(fmt.Sprintf("- %s\n", improvement))
		}
		output.WriteString("\n")
	}

	if len(result.CoachingTips) > 0 {
		output.WriteString("Coaching Tips:\n")
		for _, tip := range result.CoachingTips {
			output.WriteString(fmt.Sprintf("- %s\n", tip))
		}
		output.WriteString("\n")
	}

	if result.IndustryAdvice != "" {
		output.WriteString("Industry Advice:\n")
		output.WriteString(result.IndustryAdvice)
		output.WriteString("\n")
	}

	if result.Status == types.StatusDegraded {
		output.WriteString("\nNote: neutral fallback scores, audio analysis was unavailable.\n")
	}

	return output.String(), nil
}

func (dtf *DeliveryTextFormatter) SupportedType() string {
	return "DeliveryEvaluation"
}

// DeliveryMarkdownFormatter handles markdown formatting for delivery evaluations
type DeliveryMarkdownFormatter struct{}

func (dmf *DeliveryMarkdownFormatter) Format(data any) (string, error) {
	result, ok := assertType[types.DeliveryEvaluation](data)
	if !ok {
		return "", fmt.Errorf("expected DeliveryEvaluation, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Delivery Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %d/10\n\n", result.OverallScore))
	if result.DeliveryAssessment != "" {
		output.WriteString(result.DeliveryAssessment)
		output.WriteString("\n\n")
	}

	output.WriteString("## Delivery Dimensions\n\n")
	for _, axis := range types.DeliveryAxes {
		score, exists := result.DetailedScores[axis]
		if !exists {
			continue
		}
		output.WriteString(fmt.Sprintf("**%s:** %d/10", axisLabel(axis), score.Score))
		if score.Feedback != "" {
			output.WriteString(fmt.Sprintf(" - %s", score.Feedback))
		}
		output.WriteString("\n")
	}
	output.WriteString("\n")

	if len(result.Strengths) > 0 {
		output.WriteString("## Strengths\n\n")
		for _, strength := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}

	if len(result.Improvements) > 0 {
		output.WriteString("## Improvements\n\n")
		for _, improvement := range result.Improvements {
			output.WriteString(fmt.Sprintf("- %s\n", improvement))
		}
		output.WriteString("\n")
	}

	if len(result.CoachingTips) > 0 {
		output.WriteString("## Coaching Tips\n\n")
		for _, tip := range result.CoachingTips {
			output.WriteString(fmt.Sprintf("- %s\n", tip))
		}
		output.WriteString("\n")
	}

	if result.IndustryAdvice != "" {
		output.WriteString("## Industry Advice\n\n")
		output.WriteString(result.IndustryAdvice)
		output.WriteString("\n")
	}

	if result.Status == types.StatusDegraded {
		output.WriteString("\n*Note: neutral fallback scores, audio analysis was unavailable.*\n")
	}

	return output.String(), nil
}

func (dmf *DeliveryMarkdownFormatter) SupportedType() string {
	return "DeliveryEvaluation"
}

// VoiceTextFormatter handles text formatting for voice workflow results
type VoiceTextFormatter struct{}

func (vtf *VoiceTextFormatter) Format(data any) (string, error) {
	result, ok := assertType[types.WorkflowResult](data)
	if !ok {
		return "", fmt.Errorf("expected WorkflowResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== VOICE ANSWER EVALUATION ===\n\n")
	output.WriteString(fmt.Sprintf("Workflow: %s\n", result.WorkflowID))
	output.WriteString(fmt.Sprintf("Status: %s\n", result.Status))
	if result.FailedStage != "" {
		output.WriteString(fmt.Sprintf("Failed Stage: %s\n", result.FailedStage))
	}
	output.WriteString("\n")

	if result.Transcription != nil && result.Transcription.Text != "" {
		output.WriteString("=== TRANSCRIPT ===\n")
		output.WriteString(result.Transcription.Text)
		output.WriteString("\n")
		output.WriteString(fmt.Sprintf("(%d words, %.0f%% confidence)\n\n",
			result.Transcription.WordCount, result.Transcription.Confidence*100))
	}

	if result.Content != nil {
		output.WriteString("=== CONTENT ===\n")
		output.WriteString(fmt.Sprintf("Score: %d/10\n", result.Content.Score))
		if result.Content.OverallAssessment != "" {
			output.WriteString(result.Content.OverallAssessment)
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	if result.Delivery != nil {
		output.WriteString("=== DELIVERY ===\n")
		output.WriteString(fmt.Sprintf("Score: %d/10\n", result.Delivery.OverallScore))
		if result.Delivery.DeliveryAssessment != "" {
			output.WriteString(result.Delivery.DeliveryAssessment)
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	if result.Evaluation != nil {
		output.WriteString("=== OVERALL ===\n")
		output.WriteString(fmt.Sprintf("Score: %.1f/10 (content %d, delivery %d)\n\n",
			result.Evaluation.OverallScore,
			result.Evaluation.ComponentScores.ContentScore,
			result.Evaluation.ComponentScores.DeliveryScore))
		if result.Evaluation.ComprehensiveAssessment != "" {
			output.WriteString(result.Evaluation.ComprehensiveAssessment)
			output.WriteString("\n\n")
		}

		if len(result.Evaluation.CombinedStrengths) > 0 {
			output.WriteString("Strengths:\n")
			for _, strength := range result.Evaluation.CombinedStrengths {
				output.WriteString(fmt.Sprintf("- %s\n", strength))
			}
			output.WriteString("\n")
		}

		if len(result.Evaluation.PriorityImprovements) > 0 {
			output.WriteString("Priority Improvements:\n")
			for _, improvement := range result.Evaluation.PriorityImprovements {
				output.WriteString(fmt.Sprintf("- %s\n", improvement))
			}
			output.WriteString("\n")
		}

		if result.Evaluation.IndustryFeedback != "" {
			output.WriteString("Industry Feedback:\n")
			output.WriteString(result.Evaluation.IndustryFeedback)
			output.WriteString("\n\n")
		}

		if result.Evaluation.InterviewReadiness != "" {
			output.WriteString(fmt.Sprintf("Interview Readiness: %s\n\n", result.Evaluation.InterviewReadiness))
		}

		if result.Evaluation.DevelopmentPlan != "" {
			output.WriteString("Development Plan:\n")
			output.WriteString(result.Evaluation.DevelopmentPlan)
			output.WriteString("\n\n")
		}
	}

	if len(result.StageSeconds) > 0 {
		output.WriteString("Stage Timings:\n")
		for _, stage := range stageOrder {
			if seconds, exists := result.StageSeconds[stage]; exists {
				output.WriteString(fmt.Sprintf("- %s: %.2fs\n", stage, seconds))
			}
		}
	}

	return output.String(), nil
}

func (vtf *VoiceTextFormatter) SupportedType() string {
	return "WorkflowResult"
}

// VoiceMarkdownFormatter handles markdown formatting for voice workflow results
type VoiceMarkdownFormatter struct{}

func (vmf *VoiceMarkdownFormatter) Format(data any) (string, error) {
	result, ok := assertType[types.WorkflowResult](data)
	if !ok {
		return "", fmt.Errorf("expected WorkflowResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Voice Answer Evaluation\n\n")
	output.WriteString(fmt.Sprintf("**Workflow:** %s\n", result.WorkflowID))
	output.WriteString(fmt.Sprintf("**Status:** %s\n", result.Status))
	if result.FailedStage != "" {
		output.WriteString(fmt.Sprintf("**Failed Stage:** %s\n", result.FailedStage))
	}
	output.WriteString("\n")

	if result.Transcription != nil && result.Transcription.Text != "" {
		output.WriteString("## Transcript\n\n")
		output.WriteString(result.Transcription.Text)
		output.WriteString("\n\n")
		output.WriteString(fmt.Sprintf("*%d words, %.0f%% confidence*\n\n",
			result.Transcription.WordCount, result.Transcription.Confidence*100))
	}

	if result.Content != nil {
		output.WriteString("## Content\n\n")
		output.WriteString(fmt.Sprintf("**Score:** %d/10\n\n", result.Content.Score))
		if result.Content.OverallAssessment != "" {
			output.WriteString(result.Content.OverallAssessment)
			output.WriteString("\n\n")
		}
	}

	if result.Delivery != nil {
		output.WriteString("## Delivery\n\n")
		output.WriteString(fmt.Sprintf("**Score:** %d/10\n\n", result.Delivery.OverallScore))
		if result.Delivery.DeliveryAssessment != "" {
			output.WriteString(result.Delivery.DeliveryAssessment)
			output.WriteString("\n\n")
		}
	}

	if result.Evaluation != nil {
		output.WriteString("## Overall\n\n")
		output.WriteString(fmt.Sprintf("**Score:** %.1f/10 (content %d, delivery %d)\n\n",
			result.Evaluation.OverallScore,
			result.Evaluation.ComponentScores.ContentScore,
			result.Evaluation.ComponentScores.DeliveryScore))
		if result.Evaluation.ComprehensiveAssessment != "" {
			output.WriteString(result.Evaluation.ComprehensiveAssessment)
			output.WriteString("\n\n")
		}

		if len(result.Evaluation.CombinedStrengths) > 0 {
			output.WriteString("### Strengths\n\n")
			for _, strength := range result.Evaluation.CombinedStrengths {
				output.WriteString(fmt.Sprintf("- %s\n", strength))
			}
			output.WriteString("\n")
		}

		if len(result.Evaluation.PriorityImprovements) > 0 {
			output.WriteString("### Priority Improvements\n\n")
			for _, improvement := range result.Evaluation.PriorityImprovements {
				output.WriteString(fmt.Sprintf("- %s\n", improvement))
			}
			output.WriteString("\n")
		}

		if result.Evaluation.IndustryFeedback != "" {
			output.WriteString("### Industry Feedback\n\n")
			output.WriteString(result.Evaluation.IndustryFeedback)
			output.WriteString("\n\n")
		}

		if result.Evaluation.InterviewReadiness != "" {
			output.WriteString(fmt.Sprintf("**Interview Readiness:** %s\n\n", result.Evaluation.InterviewReadiness))
		}

		if result.Evaluation.DevelopmentPlan != "" {
			output.WriteString("### Development Plan\n\n")
			output.WriteString(result.Evaluation.DevelopmentPlan)
			output.WriteString("\n\n")
		}
	}

	if len(result.StageSeconds) > 0 {
		output.WriteString("## Stage Timings\n\n")
		for _, stage := range stageOrder {
			if seconds, exists := result.StageSeconds[stage]; exists {
				output.WriteString(fmt.Sprintf("- %s: %.2fs\n", stage, seconds))
			}
		}
	}

	return output.String(), nil
}

func (vmf *VoiceMarkdownFormatter) SupportedType() string {
	return "WorkflowResult"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
