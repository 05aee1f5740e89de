package ai

import (
	"strings"
	"testing"

	"prepcoach/internal/config"
	"prepcoach/internal/types"
)

func TestResolvePrompt(t *testing.T) {
	tests := []struct {
		name     string
		loaded   string
		config   string
		fallback string
		expected string
	}{
		{
			name:     "FileWinsOverConfigAndDefault",
			loaded:   "from file",
			config:   "from config",
			fallback: "from default",
			expected: "from file",
		},
		{
			name:     "ConfigWinsOverDefault",
			loaded:   "",
			config:   "from config",
			fallback: "from default",
			expected: "from config",
		},
		{
			name:     "DefaultWhenNothingElse",
			loaded:   "",
			config:   "",
			fallback: "from default",
			expected: "from default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolvePrompt(tt.loaded, tt.config, tt.fallback)
			if got != tt.expected {
				t.Errorf("resolvePrompt() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDefaultPromptsCoverAllOperations(t *testing.T) {
	operations := []string{"analyze", "question", "evaluate", "transcribe", "delivery", "synthesize"}

	for _, op := range operations {
		t.Run(op, func(t *testing.T) {
			if defaultSystemPrompt(op) == "" {
				t.Errorf("Missing default system prompt for operation %q", op)
			}
			if defaultUserPrompt(op) == "" {
				t.Errorf("Missing default user prompt for operation %q", op)
			}
		})
	}

	if defaultSystemPrompt("unknown") != "" {
		t.Error("Unknown operation should resolve to an empty system prompt")
	}
	if defaultUserPrompt("unknown") != "" {
		t.Error("Unknown operation should resolve to an empty user prompt")
	}
}

func TestCustomPromptOverridesDefault(t *testing.T) {
	provider := &GeminiProvider{
		config: &config.OperationAIConfig{
			CustomPrompts: config.PromptConfig{
				System: "custom system instruction",
			},
		},
	}

	if got := provider.getSystemPrompt("analyze"); got != "custom system instruction" {
		t.Errorf("Expected custom system prompt, got %q", got)
	}

	// User prompt has no override, so the default template applies
	if got := provider.getUserPrompt("analyze"); got != DefaultUserPrompts.AnalyzeJob {
		t.Error("Expected default user prompt when no override is configured")
	}
}

func TestFormatDeliverySectionOrdersAxes(t *testing.T) {
	delivery := types.DeliveryEvaluation{
		OverallScore:       7,
		DeliveryAssessment: "Steady delivery",
		DetailedScores: map[string]types.AxisScore{
			"fillerPatterns": {Score: 5, Feedback: "frequent ums"},
			"pace":           {Score: 8, Feedback: "good pace"},
			"clarity":        {Score: 7, Feedback: "clear"},
		},
		Improvements: []string{"pause instead of filling"},
	}

	section := formatDeliverySection(delivery)

	paceIdx := strings.Index(section, "pace:")
	clarityIdx := strings.Index(section, "clarity:")
	fillerIdx := strings.Index(section, "fillerPatterns:")
	if paceIdx == -1 || clarityIdx == -1 || fillerIdx == -1 {
		t.Fatalf("Section missing axis lines:\n%s", section)
	}
	if !(paceIdx < clarityIdx && clarityIdx < fillerIdx) {
		t.Errorf("Axes should render in report order, got:\n%s", section)
	}

	if !strings.Contains(section, "Score: 7/10") {
		t.Errorf("Section missing overall score:\n%s", section)
	}
	if !strings.Contains(section, "Improvements: pause instead of filling") {
		t.Errorf("Section missing improvements:\n%s", section)
	}
}

func TestGetPromptsForSynthesizeIncludesWeights(t *testing.T) {
	provider := &GeminiProvider{
		config: &config.OperationAIConfig{},
	}

	input := types.SynthesizeEvaluationInput{
		QuestionText:   "Tell me about a conflict you resolved.",
		Competency:     "Leadership",
		Industry:       "technology",
		Transcript:     "I mediated between two teams.",
		Content:        types.ContentEvaluation{Score: 8, OverallAssessment: "Strong"},
		Delivery:       types.DeliveryEvaluation{OverallScore: 6, DeliveryAssessment: "Hesitant"},
		ContentWeight:  0.7,
		DeliveryWeight: 0.3,
	}

	_, userPrompt := provider.getPromptsForSynthesize(input)

	for _, want := range []string{"70%", "30%", "Leadership", "technology", "I mediated between two teams."} {
		if !strings.Contains(userPrompt, want) {
			t.Errorf("Synthesis prompt missing %q:\n%s", want, userPrompt)
		}
	}
}
