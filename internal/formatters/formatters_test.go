package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"prepcoach/internal/types"
)

func sampleProfile() types.JobProfile {
	return types.JobProfile{
		JobTitle:        "Platform Engineer",
		Industry:        "technology",
		ExperienceLevel: "senior",
		Skills:          []string{"Distributed Systems", "Incident Response"},
		Technologies:    []string{"Go", "Kubernetes"},
		Competencies: []types.CompetencyFocus{
			{Name: "Problem Solving", SubCompetencies: []string{"Root Cause Analysis", "Debugging Strategy"}},
			{Name: "Communication", SubCompetencies: []string{"Stakeholder Updates"}},
		},
		Status: types.StatusOk,
	}
}

func sampleEvaluation() types.ContentEvaluation {
	return types.ContentEvaluation{
		Score:             7,
		OverallAssessment: "Solid answer with a clear structure.",
		STARAnalysis: types.STARAnalysis{
			Situation: "present",
			Task:      "present",
			Action:    "present",
			Result:    "missing",
		},
		Strengths:       []string{"Concrete metrics", "Calm narration"},
		Improvements:    []string{"State the outcome explicitly"},
		MissingElements: []string{"Quantified result"},
		Advice:          "Close every story with the measured impact.",
		SampleAnswer:    "In my last role the deploy pipeline broke on a Friday...",
		Status:          types.StatusOk,
	}
}

func sampleDelivery() types.DeliveryEvaluation {
	scores := make(map[string]types.AxisScore, len(types.DeliveryAxes))
	for i, axis := range types.DeliveryAxes {
		scores[axis] = types.AxisScore{Score: 6 + i%3, Feedback: "steady " + axis}
	}
	return types.DeliveryEvaluation{
		OverallScore:       7,
		DeliveryAssessment: "Confident pacing with a few fillers.",
		DetailedScores:     scores,
		Strengths:          []string{"Even pace"},
		Improvements:       []string{"Trim filler words"},
		CoachingTips:       []string{"Pause instead of saying um"},
		IndustryAdvice:     "Technology interviews reward precise wording.",
		Status:             types.StatusOk,
	}
}

func TestRegistryFormat(t *testing.T) {
	registry := NewFormatterRegistry()

	tests := []struct {
		name          string
		data          any
		format        string
		wantContains  []string
		expectError   bool
		expectedError string
	}{
		{
			name:   "profile text",
			data:   sampleProfile(),
			format: "text",
			wantContains: []string{
				"=== JOB PROFILE ===",
				"Job Title: Platform Engineer",
				"Industry: technology",
				"- Kubernetes",
				"1. Problem Solving",
				"Sub-competencies: Root Cause Analysis, Debugging Strategy",
			},
		},
		{
			name:   "profile pointer dispatches like the value",
			data:   &types.JobProfile{JobTitle: "QA Lead", Industry: "technology", Competencies: []types.CompetencyFocus{{Name: "Attention to Detail"}}},
			format: "text",
			wantContains: []string{
				"Job Title: QA Lead",
				"1. Attention to Detail",
			},
		},
		{
			name: "question markdown",
			data: &types.Question{
				Competency:             "Problem Solving",
				SubCompetency:          "Root Cause Analysis",
				Difficulty:             types.DifficultyMedium,
				QuestionText:           "Describe a production outage you diagnosed.",
				ExpectedAnswerGuidance: "Look for a structured investigation.",
				EvaluationCriteria:     []string{"Names the first signal checked"},
				Status:                 types.StatusOk,
			},
			format: "markdown",
			wantContains: []string{
				"# Interview Question",
				"**Competency:** Problem Solving",
				"**Difficulty:** medium",
				"## Answer Guidance",
				"1. Names the first signal checked",
			},
		},
		{
			name:   "evaluation text",
			data:   sampleEvaluation(),
			format: "text",
			wantContains: []string{
				"=== ANSWER EVALUATION ===",
				"Score: 7/10",
				"Result: missing",
				"- Concrete metrics",
				"Missing Elements:",
				"=== SAMPLE ANSWER ===",
			},
		},
		{
			name: "transcription text",
			data: types.TranscriptionResult{
				Text:            "I led the rollback and restored service.",
				WordCount:       8,
				Confidence:      0.8,
				Valid:           true,
				DurationSeconds: 6.5,
				Status:          types.StatusOk,
			},
			format: "text",
			wantContains: []string{
				"=== TRANSCRIPTION ===",
				"I led the rollback and restored service.",
				"Word Count: 8",
				"Duration: 6.5s",
				"Confidence: 80%",
				"Valid: yes",
			},
		},
		{
			name:   "delivery markdown",
			data:   sampleDelivery(),
			format: "markdown",
			wantContains: []string{
				"# Delivery Analysis",
				"**Overall Score:** 7/10",
				"**Filler Patterns:**",
				"## Coaching Tips",
				"Technology interviews reward precise wording.",
			},
		},
		{
			name:          "unknown format",
			data:          sampleProfile(),
			format:        "xml",
			expectError:   true,
			expectedError: "no formatter found for format 'xml' and type 'JobProfile'",
		},
		{
			name:          "unregistered type has no text formatter",
			data:          struct{ Name string }{Name: "x"},
			format:        "text",
			expectError:   true,
			expectedError: "no formatter found for format 'text' and type 'any'",
		},
		{
			name:          "nil pointer is rejected",
			data:          (*types.Question)(nil),
			format:        "text",
			expectError:   true,
			expectedError: "expected Question, got *types.Question",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := registry.Format(tt.data, tt.format)

			if tt.expectError {
				if err == nil {
					t.Fatalf("Expected error but got none")
				}
				if tt.expectedError != "" && err.Error() != tt.expectedError {
					t.Errorf("Expected error '%s', got '%s'", tt.expectedError, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected no error but got: %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing %q\n%s", want, output)
				}
			}
		})
	}
}

func TestJSONFormatterFallsBackForAnyType(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(map[string]int{"attempts": 3}, "json")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded map[string]int
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded["attempts"] != 3 {
		t.Errorf("Expected attempts 3, got %d", decoded["attempts"])
	}
}

func TestDeliveryTextAxisOrder(t *testing.T) {
	output, err := (&DeliveryTextFormatter{}).Format(sampleDelivery())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	// Axes must render in report order regardless of map iteration.
	previous := -1
	for _, axis := range types.DeliveryAxes {
		position := strings.Index(output, axisLabel(axis)+":")
		if position == -1 {
			t.Fatalf("Axis %q missing from output:\n%s", axis, output)
		}
		if position < previous {
			t.Errorf("Axis %q rendered out of order", axis)
		}
		previous = position
	}
}

func TestVoiceTextFormatter(t *testing.T) {
	result := types.WorkflowResult{
		WorkflowID: "wf-123",
		Status:     types.StatusOk,
		Transcription: &types.TranscriptionResult{
			Text:       "I led the rollback and restored service in twenty minutes.",
			WordCount:  10,
			Confidence: 1.0,
			Valid:      true,
			Status:     types.StatusOk,
		},
		Content:  &types.ContentEvaluation{Score: 7, OverallAssessment: "Clear story.", Status: types.StatusOk},
		Delivery: &types.DeliveryEvaluation{OverallScore: 8, DeliveryAssessment: "Composed.", Status: types.StatusOk},
		Evaluation: &types.SynthesizedEvaluation{
			OverallScore:            7.3,
			ComprehensiveAssessment: "Strong answer overall.",
			CombinedStrengths:       []string{"Structured narrative"},
			PriorityImprovements:    []string{"Quantify the result"},
			InterviewReadiness:      "Ready with minor polish",
			ComponentScores:         types.ComponentScores{ContentScore: 7, DeliveryScore: 8},
			Status:                  types.StatusOk,
		},
		StageSeconds: map[string]float64{"content": 1.21, "delivery": 0.84, "synthesis": 0.42, "total": 2.11},
	}

	output, err := (&VoiceTextFormatter{}).Format(result)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{
		"Workflow: wf-123",
		"Status: ok",
		"(10 words, 100% confidence)",
		"Score: 7.3/10 (content 7, delivery 8)",
		"Interview Readiness: Ready with minor polish",
		"Stage Timings:",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q\n%s", want, output)
		}
	}

	// Stage timings keep a fixed order.
	contentPos := strings.Index(output, "- content:")
	totalPos := strings.Index(output, "- total:")
	if contentPos == -1 || totalPos == -1 || totalPos < contentPos {
		t.Errorf("Stage timings out of order:\n%s", output)
	}
}

func TestVoiceTextFormatterFailedWorkflow(t *testing.T) {
	result := types.WorkflowResult{
		WorkflowID:  "wf-456",
		Status:      types.StatusFailed,
		FailedStage: "transcription",
		Evaluation: &types.SynthesizedEvaluation{
			OverallScore:         0,
			PriorityImprovements: []string{"Try recording again with clear audio"},
			Status:               types.StatusFailed,
		},
	}

	output, err := (&VoiceTextFormatter{}).Format(result)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{
		"Status: failed",
		"Failed Stage: transcription",
		"Score: 0.0/10",
		"- Try recording again with clear audio",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q\n%s", want, output)
		}
	}
	if strings.Contains(output, "=== TRANSCRIPT ===") {
		t.Errorf("Failed workflow should not render a transcript section:\n%s", output)
	}
}

func TestDegradedNotes(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		format   string
		wantNote string
	}{
		{
			name: "degraded profile text",
			data: types.JobProfile{
				JobTitle:     "Generalist",
				Industry:     "general",
				Competencies: []types.CompetencyFocus{{Name: "Problem Solving"}},
				Status:       types.StatusDegraded,
			},
			format:   "text",
			wantNote: "Note: heuristic profile, AI analysis was unavailable.",
		},
		{
			name: "degraded question markdown",
			data: types.Question{
				Competency:   "Communication",
				Difficulty:   types.DifficultyEasy,
				QuestionText: "Tell me about a time you explained a hard topic.",
				Status:       types.StatusDegraded,
			},
			format:   "markdown",
			wantNote: "*Note: question served from the built-in bank.*",
		},
		{
			name: "degraded evaluation text",
			data: types.ContentEvaluation{
				Score:             5,
				OverallAssessment: "Scored heuristically.",
				Status:            types.StatusDegraded,
			},
			format:   "text",
			wantNote: "Note: heuristic evaluation, AI scoring was unavailable.",
		},
		{
			name: "degraded delivery text",
			data: types.DeliveryEvaluation{
				OverallScore: 6,
				Status:       types.StatusDegraded,
			},
			format:   "text",
			wantNote: "Note: neutral fallback scores, audio analysis was unavailable.",
		},
	}

	registry := NewFormatterRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := registry.Format(tt.data, tt.format)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			if !strings.Contains(output, tt.wantNote) {
				t.Errorf("Output missing degraded note %q\n%s", tt.wantNote, output)
			}
		})
	}
}

func TestGetDataType(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		expected string
	}{
		{name: "profile value", data: types.JobProfile{}, expected: "JobProfile"},
		{name: "profile pointer", data: &types.JobProfile{}, expected: "JobProfile"},
		{name: "question pointer", data: &types.Question{}, expected: "Question"},
		{name: "evaluation value", data: types.ContentEvaluation{}, expected: "ContentEvaluation"},
		{name: "transcription pointer", data: &types.TranscriptionResult{}, expected: "TranscriptionResult"},
		{name: "delivery value", data: types.DeliveryEvaluation{}, expected: "DeliveryEvaluation"},
		{name: "workflow pointer", data: &types.WorkflowResult{}, expected: "WorkflowResult"},
		{name: "unknown type", data: 42, expected: "any"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getDataType(tt.data); got != tt.expected {
				t.Errorf("Expected type '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestGetSupportedFormats(t *testing.T) {
	formats := NewFormatterRegistry().GetSupportedFormats()

	if len(formats) != 3 {
		t.Fatalf("Expected 3 formats, got %d: %v", len(formats), formats)
	}
	seen := make(map[string]bool, len(formats))
	for _, format := range formats {
		seen[format] = true
	}
	for _, want := range []string{"json", "text", "markdown"} {
		if !seen[want] {
			t.Errorf("Expected format '%s' to be registered", want)
		}
	}
}

func BenchmarkFormat(b *testing.B) {
	registry := NewFormatterRegistry()
	profile := sampleProfile()

	b.Run("text", func(b *testing.B) {
		for b.Loop() {
			_, _ = registry.Format(profile, "text")
		}
	})

	b.Run("json", func(b *testing.B) {
		for b.Loop() {
			_, _ = registry.Format(profile, "json")
		}
	})
}
