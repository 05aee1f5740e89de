package profile

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"testing"

	"prepcoach/internal/ai"
	"prepcoach/internal/errors"
	"prepcoach/internal/types"
)

var testLogger = errors.NewLogger(slog.LevelError)

// stubProvider returns canned extraction results and records call counts.
type stubProvider struct {
	extraction   types.JobExtraction
	usage        *ai.TokenUsage
	err          error
	analyzeCalls int
}

func (p *stubProvider) AnalyzeJob(_ context.Context, _ types.AnalyzeJobInput) (types.JobExtraction, *ai.TokenUsage, error) {
	p.analyzeCalls++
	return p.extraction, p.usage, p.err
}

func (p *stubProvider) GenerateQuestion(_ context.Context, _ types.GenerateQuestionInput) (types.GeneratedQuestion, *ai.TokenUsage, error) {
	return types.GeneratedQuestion{}, nil, nil
}

func (p *stubProvider) EvaluateAnswer(_ context.Context, _ types.EvaluateAnswerInput) (types.ContentEvaluation, *ai.TokenUsage, error) {
	return types.ContentEvaluation{}, nil, nil
}

func (p *stubProvider) TranscribeAudio(_ context.Context, _ types.TranscribeAudioInput) (types.Transcript, *ai.TokenUsage, error) {
	return types.Transcript{}, nil, nil
}

func (p *stubProvider) AnalyzeDelivery(_ context.Context, _ types.AnalyzeDeliveryInput) (types.DeliveryEvaluation, *ai.TokenUsage, error) {
	return types.DeliveryEvaluation{}, nil, nil
}

func (p *stubProvider) SynthesizeEvaluation(_ context.Context, _ types.SynthesizeEvaluationInput) (types.SynthesisOutput, *ai.TokenUsage, error) {
	return types.SynthesisOutput{}, nil, nil
}

func (p *stubProvider) GetModelInfo(_ context.Context) *ai.ModelInfo { return nil }

func (p *stubProvider) Close() error { return nil }

func assertCompetencyNames(t *testing.T, competencies []types.CompetencyFocus, want []string) {
	t.Helper()
	if len(competencies) != len(want) {
		t.Fatalf("Expected %d competencies, got %d: %+v", len(want), len(competencies), competencies)
	}
	for i, name := range want {
		if competencies[i].Name != name {
			t.Errorf("Competency %d: expected '%s', got '%s'", i, name, competencies[i].Name)
		}
		if len(competencies[i].SubCompetencies) != 4 {
			t.Errorf("Competency '%s': expected 4 sub-competencies, got %d", name, len(competencies[i].SubCompetencies))
		}
	}
}

func assertStrings(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Index %d: expected '%s', got '%s'", i, want[i], got[i])
		}
	}
}

const backendDescription = `# Senior Backend Engineer

We build payment infrastructure in Go and PostgreSQL.
Requires 6+ years of experience with distributed systems.
You will debug production incidents and coordinate with the team.`

func TestAnalyzeRejectsEmptyDescription(t *testing.T) {
	tests := []struct {
		name        string
		description string
	}{
		{name: "Empty", description: ""},
		{name: "WhitespaceOnly", description: "   \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{}
			analyzer := NewAnalyzer(provider, testLogger)

			profile, usage, err := analyzer.Analyze(context.Background(), tt.description)
			if err == nil {
				t.Fatal("Expected validation error for empty description")
			}

			var appErr *errors.AppError
			if !stdErrors.As(err, &appErr) {
				t.Fatalf("Expected AppError, got %T", err)
			}
			if appErr.Code != errors.ErrCodeInvalidRequest {
				t.Errorf("Expected code %s, got %s", errors.ErrCodeInvalidRequest, appErr.Code)
			}
			if profile != nil {
				t.Error("Expected nil profile on validation error")
			}
			if usage != nil {
				t.Error("Expected nil usage on validation error")
			}
			if provider.analyzeCalls != 0 {
				t.Errorf("Provider should not be called for empty input, got %d calls", provider.analyzeCalls)
			}
		})
	}
}

func TestAnalyzeBuildsProfileFromExtraction(t *testing.T) {
	provider := &stubProvider{
		extraction: types.JobExtraction{
			JobTitle:         "Senior Backend Engineer",
			Skills:           []string{"Distributed Systems", "Debugging"},
			Technologies:     []string{"Go", "Kafka"},
			Responsibilities: []string{"Debug production incidents"},
		},
		usage: &ai.TokenUsage{InputTokens: 100, OutputTokens: 20, TotalTokens: 120},
	}
	analyzer := NewAnalyzer(provider, testLogger)

	profile, usage, err := analyzer.Analyze(context.Background(), backendDescription)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if profile.Status != types.StatusOk {
		t.Errorf("Expected status '%s', got '%s'", types.StatusOk, profile.Status)
	}
	if profile.JobTitle != "Senior Backend Engineer" {
		t.Errorf("Expected extracted title, got '%s'", profile.JobTitle)
	}
	if profile.Industry != "technology" {
		t.Errorf("Expected industry 'technology', got '%s'", profile.Industry)
	}
	if profile.ExperienceLevel != LevelSenior {
		t.Errorf("Expected level '%s', got '%s'", LevelSenior, profile.ExperienceLevel)
	}
	assertStrings(t, profile.Skills, []string{"Distributed Systems", "Debugging"})
	assertStrings(t, profile.Technologies, []string{"PostgreSQL", "Go", "Kafka"})
	assertCompetencyNames(t, profile.Competencies, []string{
		"Problem Solving",
		"Project Management",
		"Teamwork",
		"Technical Expertise",
		"Analytical Thinking",
	})
	if usage == nil || usage.TotalTokens != 120 {
		t.Errorf("Expected token usage passthrough, got %+v", usage)
	}
}

func TestAnalyzeDegradesWhenAIFails(t *testing.T) {
	provider := &stubProvider{err: stdErrors.New("quota exceeded")}
	analyzer := NewAnalyzer(provider, testLogger)

	profile, usage, err := analyzer.Analyze(context.Background(), backendDescription)
	if err != nil {
		t.Fatalf("AI failure must not fail the analysis: %v", err)
	}

	if profile.Status != types.StatusDegraded {
		t.Errorf("Expected status '%s', got '%s'", types.StatusDegraded, profile.Status)
	}
	if profile.JobTitle != "Senior Backend Engineer" {
		t.Errorf("Expected heuristic title from markdown header, got '%s'", profile.JobTitle)
	}
	if len(profile.Skills) != 0 {
		t.Errorf("Expected no skills without extraction, got %v", profile.Skills)
	}
	assertStrings(t, profile.Technologies, []string{"PostgreSQL", "Go"})
	assertCompetencyNames(t, profile.Competencies, []string{
		"Problem Solving",
		"Project Management",
		"Teamwork",
		"Technical Expertise",
		"Analytical Thinking",
	})
	if usage != nil {
		t.Errorf("Expected nil usage on AI failure, got %+v", usage)
	}
}

func TestClassifyIndustry(t *testing.T) {
	tests := []struct {
		name        string
		description string
		title       string
		want        string
	}{
		{
			name:        "Healthcare",
			description: "We need a nurse to provide patient care in our hospital clinical ward. Treatment and diagnosis duties.",
			title:       "Registered Nurse",
			want:        "healthcare",
		},
		{
			name:        "Finance",
			description: "Manage portfolio risk and compliance audit processes for our investment banking desk.",
			title:       "Financial Analyst",
			want:        "finance",
		},
		{
			name:        "Marketing",
			description: "Run digital campaign and brand advertising with social media content.",
			title:       "Marketing Manager",
			want:        "marketing",
		},
		{
			name:        "TitleHitsWeighTriple",
			description: "Handle compliance paperwork.",
			title:       "Software Engineer",
			want:        "technology",
		},
		{
			name:        "TechnologyStack",
			description: "5+ years of experience with Python, AWS, and Docker.",
			title:       "Backend Developer",
			want:        "technology",
		},
		{
			name:        "DefaultWhenNoSignals",
			description: "Zookeeper wanted.",
			title:       "Zookeeper",
			want:        "technology",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyIndustry(tt.description, tt.title)
			if got != tt.want {
				t.Errorf("Expected industry '%s', got '%s'", tt.want, got)
			}
		})
	}
}

func TestClassifyExperienceLevel(t *testing.T) {
	tests := []struct {
		name        string
		description string
		title       string
		want        string
	}{
		{name: "SixPlusYears", description: "Requires 6+ years of experience.", title: "Engineer", want: LevelSenior},
		{name: "ThreeYears", description: "3 years experience in support.", title: "Support Specialist", want: LevelMid},
		{name: "OneYear", description: "1 year of experience preferred.", title: "Assistant", want: LevelEntry},
		{name: "ExperienceColonForm", description: "Experience: 10 years in the field.", title: "Analyst", want: LevelSenior},
		{name: "MinimumOfForm", description: "A minimum of 4 years in operations.", title: "Coordinator", want: LevelMid},
		{name: "ExecutiveTitle", description: "Own the roadmap.", title: "VP of Engineering", want: LevelExecutive},
		{name: "ExecutiveTitleBeatsYears", description: "Requires 3 years of experience.", title: "Director of Operations", want: LevelExecutive},
		{name: "SeniorTitleFallback", description: "Join our team.", title: "Senior Designer", want: LevelSenior},
		{name: "JuniorTitleFallback", description: "Great learning environment.", title: "Junior Developer", want: LevelEntry},
		{name: "DefaultMid", description: "Help us ship.", title: "Product Manager", want: LevelMid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyExperienceLevel(tt.description, tt.title)
			if got != tt.want {
				t.Errorf("Expected level '%s', got '%s'", tt.want, got)
			}
		})
	}
}

func TestSelectCompetenciesForcesEssentials(t *testing.T) {
	// No competency keyword appears in this description.
	focuses := selectCompetencies("Zookeeper wanted.", types.JobExtraction{})

	assertCompetencyNames(t, focuses, []string{"Problem Solving", "Technical Expertise", "Analytical Thinking"})
	assertStrings(t, focuses[0].SubCompetencies, []string{
		"Root Cause Analysis",
		"Solution Design",
		"Implementation Planning",
		"Problem Prevention",
	})
}

func TestSelectCompetenciesRanksByOccurrence(t *testing.T) {
	description := "quality quality quality quality quality " +
		"report report report report " +
		"deadline deadline deadline " +
		"mentor mentor mentor " +
		"team team debug coding insight"

	focuses := selectCompetencies(description, types.JobExtraction{})

	assertCompetencyNames(t, focuses, []string{
		"Attention to Detail",
		"Written Communication",
		"Project Management",
		"Leadership",
		"Teamwork",
		"Problem Solving",
		"Technical Expertise",
		"Analytical Thinking",
	})
}

func TestSelectCompetenciesCountsExtractedText(t *testing.T) {
	extraction := types.JobExtraction{
		Responsibilities: []string{"Debug production issues", "Write weekly report"},
		Skills:           []string{"Troubleshooting"},
	}

	focuses := selectCompetencies("Zookeeper wanted.", extraction)

	assertCompetencyNames(t, focuses, []string{
		"Problem Solving",
		"Written Communication",
		"Technical Expertise",
		"Analytical Thinking",
	})
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{name: "MarkdownHeader", description: "# Staff Software Engineer\nAbout us: we ship fast.", want: "Staff Software Engineer"},
		{name: "PositionLabel", description: "Acme Corp is growing.\nPosition: Data Analyst\nApply today.", want: "Data Analyst"},
		{name: "RoleLabel", description: "Role: Backend Developer", want: "Backend Developer"},
		{name: "FirstLine", description: "Backend Developer\nWe are a small shop.", want: "Backend Developer"},
		{name: "SkipsLeadingBlankLines", description: "\n\n  Platform Engineer\nMore text.", want: "Platform Engineer"},
		{name: "Empty", description: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractTitle(tt.description)
			if got != tt.want {
				t.Errorf("Expected title '%s', got '%s'", tt.want, got)
			}
		})
	}
}

func TestDetectTechnologies(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "CanonicalNames",
			text: "We use Python, Docker and PostgreSQL. Django experience helps.",
			want: []string{"Python", "Docker", "PostgreSQL", "Django"},
		},
		{
			name: "CaseInsensitive",
			text: "experience with KUBERNETES and react",
			want: []string{"React", "Kubernetes"},
		},
		{
			name: "WordBoundaries",
			text: "Django is not Go, and categories are not Git.",
			want: []string{"Git", "Django", "Go"},
		},
		{
			name: "NoMatches",
			text: "Barista position, espresso experience required.",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectTechnologies(tt.text)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("Expected no technologies, got %v", got)
				}
				return
			}
			assertStrings(t, got, tt.want)
		})
	}
}

func TestDedupeStrings(t *testing.T) {
	got := dedupeStrings([]string{"Go", "  ", "go", "Kafka", "kafka", "", "Go"})
	assertStrings(t, got, []string{"Go", "Kafka"})
}
