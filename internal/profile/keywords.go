package profile

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"prepcoach/internal/types"
)

// Competency selection bounds: the top scorers are kept, essential
// competencies are appended when missing, and the final list is capped.
const (
	topCompetencies = 6
	maxCompetencies = 8
)

const defaultIndustry = "technology"

// industryOrder fixes the tie-break order for industry scoring.
var industryOrder = []string{"technology", "healthcare", "finance", "consulting", "marketing"}

// industryKeywords maps each supported industry to its signal terms.
// Matching is substring-based against the lowercased description, so the
// terms are stored lowercase.
var industryKeywords = map[string][]string{
	"technology": {
		"software", "engineer", "developer", "programming", "coding", "tech", "it",
		"data", "machine learning", "ai", "cloud", "devops", "frontend", "backend",
		"full stack", "mobile", "web", "api", "database", "python", "java", "javascript",
	},
	"healthcare": {
		"medical", "healthcare", "hospital", "clinical", "patient", "nurse", "doctor",
		"physician", "therapy", "pharmaceutical", "biotech", "medical device", "health",
		"treatment", "diagnosis", "care", "medicine", "surgery", "emergency",
	},
	"finance": {
		"financial", "banking", "investment", "trading", "finance", "analyst", "portfolio",
		"risk", "compliance", "audit", "accounting", "fintech", "insurance", "credit",
		"wealth", "capital", "markets", "securities", "derivatives", "treasury",
	},
	"consulting": {
		"consulting", "consultant", "advisory", "strategy", "management", "business",
		"analysis", "transformation", "optimization", "process", "client", "engagement",
		"project", "stakeholder", "solution", "recommendation", "implementation",
	},
	"marketing": {
		"marketing", "digital", "campaign", "brand", "advertising", "content", "social media",
		"seo", "sem", "analytics", "conversion", "engagement", "customer", "acquisition",
		"retention", "growth", "creative", "design", "copywriting", "communications",
	},
}

// coreCompetencies fixes the tie-break order for competency scoring.
var coreCompetencies = []string{
	"Problem Solving",
	"Technical Expertise",
	"Project Management",
	"Analytical Thinking",
	"Attention to Detail",
	"Written Communication",
	"Leadership",
	"Teamwork",
}

// essentialCompetencies are always part of a profile, even with zero
// keyword hits.
var essentialCompetencies = []string{"Problem Solving", "Technical Expertise", "Analytical Thinking"}

var competencyKeywords = map[string][]string{
	"Problem Solving":       {"problem", "solve", "troubleshoot", "debug", "resolve", "solution"},
	"Technical Expertise":   {"technical", "development", "programming", "coding", "engineering"},
	"Project Management":    {"project", "manage", "timeline", "deadline", "coordinate", "plan"},
	"Analytical Thinking":   {"analyze", "data", "insight", "research", "evaluate", "assess"},
	"Attention to Detail":   {"detail", "quality", "accuracy", "precision", "thorough", "careful"},
	"Written Communication": {"communication", "document", "write", "report", "present"},
	"Leadership":            {"lead", "manage", "mentor", "guide", "direct", "supervise"},
	"Teamwork":              {"team", "collaborate", "cooperation", "work with others"},
}

var subCompetencies = map[string][]string{
	"Problem Solving":       {"Root Cause Analysis", "Solution Design", "Implementation Planning", "Problem Prevention"},
	"Technical Expertise":   {"Technical Knowledge", "Implementation Skills", "Best Practices", "Technology Selection"},
	"Project Management":    {"Planning & Organization", "Timeline Management", "Resource Allocation", "Stakeholder Communication"},
	"Analytical Thinking":   {"Data Analysis", "Logical Reasoning", "Pattern Recognition", "Decision Making"},
	"Attention to Detail":   {"Quality Assurance", "Error Prevention", "Documentation", "Verification Processes"},
	"Written Communication": {"Clarity & Structure", "Audience Awareness", "Technical Writing", "Persuasive Communication"},
	"Leadership":            {"Team Management", "Strategic Thinking", "Influence & Motivation", "Change Management"},
	"Teamwork":              {"Collaboration", "Communication", "Conflict Resolution", "Team Contribution"},
}

// techVocabulary lists the technology names recognized by word-boundary
// matching. Entries keep their canonical casing for display.
var techVocabulary = []string{
	"Python", "Java", "JavaScript", "React", "Node.js", "AWS", "Docker",
	"Kubernetes", "SQL", "NoSQL", "MongoDB", "PostgreSQL", "Git", "Linux",
	"Django", "Flask", "FastAPI", "Angular", "Vue", "TypeScript", "Go",
	"Rust", "C++", "C#", "Ruby", "PHP", "Swift", "Kotlin", "Azure", "GCP",
}

type techMatcher struct {
	name    string
	pattern *regexp.Regexp
}

var techMatchers = buildTechMatchers()

func buildTechMatchers() []techMatcher {
	matchers := make([]techMatcher, 0, len(techVocabulary))
	for _, tech := range techVocabulary {
		matchers = append(matchers, techMatcher{
			name:    tech,
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(tech) + `\b`),
		})
	}
	return matchers
}

// SubCompetenciesFor returns the fixed sub-competency list for a core
// competency, or false for an unknown name.
func SubCompetenciesFor(competency string) ([]string, bool) {
	subs, ok := subCompetencies[competency]
	if !ok {
		return nil, false
	}
	return append([]string(nil), subs...), true
}

// CoreCompetencies returns the competency names in their canonical order.
func CoreCompetencies() []string {
	return append([]string(nil), coreCompetencies...)
}

// classifyIndustry scores each industry by keyword hits. Title hits count
// triple. Ties keep the earlier industry in canonical order; no hits at
// all fall back to the default.
func classifyIndustry(description, title string) string {
	descLower := strings.ToLower(description)
	titleLower := strings.ToLower(title)

	best := defaultIndustry
	bestScore := 0
	for _, industry := range industryOrder {
		score := 0
		for _, keyword := range industryKeywords[industry] {
			if strings.Contains(titleLower, keyword) {
				score += 3
			}
			if strings.Contains(descLower, keyword) {
				score++
			}
		}
		if score > bestScore {
			best = industry
			bestScore = score
		}
	}
	return best
}

// selectCompetencies ranks competencies by keyword occurrences in the
// description and the AI-extracted responsibilities and skills, keeps the
// top scorers, and guarantees the essential competencies are present.
func selectCompetencies(description string, extraction types.JobExtraction) []types.CompetencyFocus {
	descLower := strings.ToLower(description)

	extracted := make([]string, 0, len(extraction.Responsibilities)+len(extraction.Skills))
	extracted = append(extracted, extraction.Responsibilities...)
	extracted = append(extracted, extraction.Skills...)
	extractedLower := strings.ToLower(strings.Join(extracted, " "))

	type competencyScore struct {
		name  string
		score int
	}
	scores := make([]competencyScore, 0, len(coreCompetencies))
	for _, name := range coreCompetencies {
		total := 0
		for _, keyword := range competencyKeywords[name] {
			total += strings.Count(descLower, keyword)
			total += strings.Count(extractedLower, keyword)
		}
		if total > 0 {
			scores = append(scores, competencyScore{name: name, score: total})
		}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	selected := make([]string, 0, maxCompetencies)
	for i, s := range scores {
		if i == topCompetencies {
			break
		}
		selected = append(selected, s.name)
	}
	for _, essential := range essentialCompetencies {
		if !slices.Contains(selected, essential) {
			selected = append(selected, essential)
		}
	}
	if len(selected) > maxCompetencies {
		selected = selected[:maxCompetencies]
	}

	focuses := make([]types.CompetencyFocus, 0, len(selected))
	for _, name := range selected {
		focuses = append(focuses, types.CompetencyFocus{
			Name:            name,
			SubCompetencies: append([]string(nil), subCompetencies[name]...),
		})
	}
	return focuses
}

// detectTechnologies returns the vocabulary entries present in the text,
// in canonical casing and vocabulary order.
func detectTechnologies(text string) []string {
	var found []string
	for _, m := range techMatchers {
		if m.pattern.MatchString(text) {
			found = append(found, m.name)
		}
	}
	return found
}
