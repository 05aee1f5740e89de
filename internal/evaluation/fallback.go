package evaluation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"prepcoach/internal/types"
)

// starKeywords are the structure markers counted by the heuristic
// fallback evaluation. Matching is by presence, not occurrences.
var starKeywords = []string{"situation", "task", "action", "result", "when", "what", "how", "outcome"}

// fallbackQuestionBank holds per-industry question templates keyed by
// competency. "{jobTitle}" in a template is replaced with the profile's
// title at render time. Unknown industries use the technology set.
var fallbackQuestionBank = map[string]map[string]string{
	"technology": {
		"Problem Solving":       "Describe a time when you debugged a complex technical issue in a {jobTitle} role. What was your systematic approach?",
		"Technical Expertise":   "Tell me about a challenging technical implementation you completed. What technologies did you use and why?",
		"Project Management":    "Walk me through how you managed a software project from conception to deployment.",
		"Analytical Thinking":   "Describe a situation where you had to analyze data or metrics to make a technical decision.",
		"Attention to Detail":   "Give me an example of when your attention to detail prevented a significant technical problem.",
		"Written Communication": "Tell me about a time you had to write technical documentation for different audiences.",
		"Leadership":            "Describe how you led a technical team through a challenging project or change.",
		"Teamwork":              "Share an example of successful collaboration on a technical project with multiple stakeholders.",
	},
	"marketing": {
		"Problem Solving":       "Describe a time when a marketing campaign wasn't performing as expected. How did you identify and solve the problem?",
		"Technical Expertise":   "Tell me about a time you had to adapt your design skills to meet specific technical requirements for a marketing platform.",
		"Project Management":    "Walk me through how you managed a complex marketing campaign from concept to launch.",
		"Analytical Thinking":   "Describe a situation where you had to analyze campaign data to make strategic design decisions.",
		"Attention to Detail":   "Give me an example of when your attention to detail was crucial in a marketing project.",
		"Written Communication": "Tell me about a time you had to explain a complex design concept to stakeholders with limited design knowledge.",
		"Leadership":            "Describe how you led a creative team through a challenging marketing project.",
		"Teamwork":              "Share an example of successful collaboration on a marketing campaign with multiple stakeholders.",
	},
}

// fallbackQuestion renders a deterministic question from the template
// bank. Every rendered question is longer than minQuestionChars.
func fallbackQuestion(profile *types.JobProfile, competency, subCompetency, difficulty string) *types.Question {
	bank, ok := fallbackQuestionBank[profile.Industry]
	if !ok {
		bank = fallbackQuestionBank["technology"]
	}

	template, ok := bank[competency]
	if !ok {
		template = fmt.Sprintf("Tell me about a time when you demonstrated %s in your %s work.", competency, profile.Industry)
	}
	questionText := strings.ReplaceAll(template, "{jobTitle}", profile.JobTitle)

	return &types.Question{
		ID:            uuid.NewString(),
		Competency:    competency,
		SubCompetency: subCompetency,
		Difficulty:    difficulty,
		QuestionText:  questionText,
		ExpectedAnswerGuidance: fmt.Sprintf(
			"A strong answer should follow the STAR method and clearly demonstrate %s skills relevant to %s.",
			competency, profile.Industry),
		EvaluationCriteria: []string{
			fmt.Sprintf("Clear demonstration of %s", competency),
			"STAR method structure",
			fmt.Sprintf("Relevance to %s", profile.Industry),
			"Specific examples and outcomes",
		},
		Status: types.StatusDegraded,
	}
}

// fallbackEvaluation scores an answer without AI: base 5, +1 for a
// substantial answer (>100 words), +2 when at least four STAR keywords
// appear or +1 for at least two, capped at 8.
func fallbackEvaluation(answer, competency, industry string) *types.ContentEvaluation {
	answerLower := strings.ToLower(answer)

	score := 5
	if len(strings.Fields(answer)) > 100 {
		score++
	}
	matched := 0
	for _, keyword := range starKeywords {
		if strings.Contains(answerLower, keyword) {
			matched++
		}
	}
	switch {
	case matched >= 4:
		score += 2
	case matched >= 2:
		score++
	}
	if score > 8 {
		score = 8
	}

	star := types.STARAnalysis{
		Situation: "Could be clearer",
		Task:      "Needs more detail",
		Action:    "Could be more specific",
		Result:    "Needs measurable outcomes",
	}
	if strings.Contains(answerLower, "situation") {
		star.Situation = "Partially described"
	}
	if containsAny(answerLower, "task", "responsible", "role") {
		star.Task = "Some task description"
	}
	if containsAny(answerLower, "did", "action", "approach") {
		star.Action = "Actions mentioned"
	}
	if containsAny(answerLower, "result", "outcome", "achieved") {
		star.Result = "Results discussed"
	}

	return &types.ContentEvaluation{
		Score: score,
		OverallAssessment: fmt.Sprintf(
			"Your answer demonstrates some understanding of %s. Consider providing more specific details and following the STAR method structure.",
			competency),
		STARAnalysis: star,
		Strengths: []string{
			fmt.Sprintf("Shows understanding of %s", competency),
			"Provided a relevant example",
			"Demonstrates practical experience",
		},
		Improvements: []string{
			"Use more specific details and examples",
			"Follow STAR method structure more clearly",
			"Include quantifiable results and outcomes",
		},
		MissingElements: []string{
			"More detailed situation context",
			"Clearer explanation of specific actions taken",
			"Measurable results and impact",
		},
		Advice: fmt.Sprintf(
			"To improve your %s answers, focus on providing a clear STAR structure with specific details about the situation, your role, the actions you took, and the measurable results achieved.",
			competency),
		SampleAnswer: fmt.Sprintf(
			"A strong %s answer would include: a specific situation from your %s experience, your clear role and responsibilities, detailed actions you took that demonstrate %s, and measurable outcomes that show the impact of your work.",
			competency, industry, competency),
		Status: types.StatusDegraded,
	}
}

func containsAny(text string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
