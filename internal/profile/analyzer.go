// Package profile derives structured job profiles from raw job
// descriptions. Deterministic keyword heuristics always run; AI extraction
// enriches the result when it is available, and its failure degrades the
// profile rather than failing the analysis.
package profile

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"prepcoach/internal/ai"
	"prepcoach/internal/errors"
	"prepcoach/internal/types"
)

// Experience levels assigned to a profile.
const (
	LevelEntry     = "entry"
	LevelMid       = "mid"
	LevelSenior    = "senior"
	LevelExecutive = "executive"
)

var (
	markdownTitlePattern = regexp.MustCompile(`(?m)^#\s*(.+)$`)
	labeledTitlePattern  = regexp.MustCompile(`(?i)(?:position|role|job)\s*:\s*([^\n]+)`)

	experiencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*(?:of\s*)?experience`),
		regexp.MustCompile(`(?i)experience[:\s]*(\d+)\+?\s*years?`),
		regexp.MustCompile(`(?i)minimum\s*(?:of\s*)?(\d+)\+?\s*years?`),
	}

	executiveTitleMarkers = []string{"chief", "vp", "vice president", "president", "head of", "director", "executive"}
	seniorTitleMarkers    = []string{"senior", "principal", "staff", "lead"}
	entryTitleMarkers     = []string{"junior", "intern", "graduate"}
)

// Analyzer turns a job description into a structured profile.
type Analyzer struct {
	provider ai.AIProvider
	logger   *errors.Logger
}

func NewAnalyzer(provider ai.AIProvider, logger *errors.Logger) *Analyzer {
	return &Analyzer{provider: provider, logger: logger}
}

// Analyze derives a job profile from the description. A failed AI
// extraction yields a degraded profile built from heuristics alone, never
// an error; only an empty description is rejected. Token usage is nil
// when the AI call did not complete.
func (a *Analyzer) Analyze(ctx context.Context, jobDescription string) (*types.JobProfile, *ai.TokenUsage, error) {
	trimmed := strings.TrimSpace(jobDescription)
	if trimmed == "" {
		return nil, nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "Job description must not be empty", nil)
	}

	a.logger.Debug("Starting job profile analysis", "description_length", len(trimmed))

	extraction, usage, aiErr := a.provider.AnalyzeJob(ctx, types.AnalyzeJobInput{JobDescription: trimmed})
	if aiErr != nil {
		a.logger.Warn("AI job extraction failed, building profile from heuristics alone", "error", aiErr)
	}

	title := strings.TrimSpace(extraction.JobTitle)
	if title == "" {
		title = extractTitle(trimmed)
	}

	profile := &types.JobProfile{
		JobTitle:        title,
		Industry:        classifyIndustry(trimmed, title),
		ExperienceLevel: classifyExperienceLevel(trimmed, title),
		Skills:          dedupeStrings(extraction.Skills),
		Technologies:    dedupeStrings(append(detectTechnologies(trimmed), extraction.Technologies...)),
		Competencies:    selectCompetencies(trimmed, extraction),
		Status:          types.StatusOk,
	}
	if aiErr != nil {
		profile.Status = types.StatusDegraded
	}

	a.logger.Info("Job profile derived",
		"title", profile.JobTitle,
		"industry", profile.Industry,
		"experience_level", profile.ExperienceLevel,
		"competencies", len(profile.Competencies),
		"status", profile.Status)

	return profile, usage, nil
}

// extractTitle guesses the job title without AI help: a markdown header
// wins, then a "Position:"-style label, then the first non-empty line.
func extractTitle(description string) string {
	if match := markdownTitlePattern.FindStringSubmatch(description); match != nil {
		return strings.TrimSpace(match[1])
	}
	if match := labeledTitlePattern.FindStringSubmatch(description); match != nil {
		return strings.TrimSpace(match[1])
	}
	for _, line := range strings.Split(description, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// classifyExperienceLevel maps explicit years of experience to a level.
// Executive titles win outright; seniority markers in the title decide
// when no years are stated.
func classifyExperienceLevel(description, title string) string {
	titleLower := strings.ToLower(title)
	for _, marker := range executiveTitleMarkers {
		if strings.Contains(titleLower, marker) {
			return LevelExecutive
		}
	}

	for _, pattern := range experiencePatterns {
		match := pattern.FindStringSubmatch(description)
		if match == nil {
			continue
		}
		years, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		switch {
		case years < 2:
			return LevelEntry
		case years < 5:
			return LevelMid
		default:
			return LevelSenior
		}
	}

	for _, marker := range seniorTitleMarkers {
		if strings.Contains(titleLower, marker) {
			return LevelSenior
		}
	}
	for _, marker := range entryTitleMarkers {
		if strings.Contains(titleLower, marker) {
			return LevelEntry
		}
	}
	return LevelMid
}

// dedupeStrings drops empty entries and case-insensitive duplicates,
// keeping the first casing seen.
func dedupeStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
