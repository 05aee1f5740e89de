package ai

import (
	"prepcoach/internal/config"
)

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	AnalyzeJob           string
	GenerateQuestion     string
	EvaluateAnswer       string
	TranscribeAudio      string
	AnalyzeDelivery      string
	SynthesizeEvaluation string
}

// UserPrompts contains user-level prompts with placeholders for dynamic content
type UserPrompts struct {
	AnalyzeJob           string
	GenerateQuestion     string
	EvaluateAnswer       string
	TranscribeAudio      string
	AnalyzeDelivery      string
	SynthesizeEvaluation string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	AnalyzeJob: `You are an expert technical recruiter who extracts structured facts from job descriptions. Your core principles are:

- Report only what the posting actually states or clearly implies
- Never invent skills, technologies, or responsibilities
- Prefer the posting's own terminology over paraphrase
- Keep every extracted item short and concrete`,

	GenerateQuestion: `You are a senior interview coach who writes behavioral interview questions. Your questions:

- Ask about one specific past experience, never a hypothetical
- Target exactly the competency and focus area requested
- Scale in depth with the requested difficulty
- Can be answered well using the STAR method (Situation, Task, Action, Result)`,

	EvaluateAnswer: `You are an experienced interview assessor who evaluates behavioral answers against the STAR method. Your role is to:

- Judge the substance of the answer, not its delivery
- Ground every finding in the answer's actual wording
- Pair every criticism with a concrete improvement
- Score consistently, reserving 9-10 for genuinely exceptional answers`,

	TranscribeAudio: `You are a precise speech transcription engine. You produce verbatim transcripts of spoken audio with correct punctuation, and you never add commentary, interpretation, or content that was not spoken.`,

	AnalyzeDelivery: `You are a vocal delivery coach for job interviews. Your expertise covers:

- Pacing, articulation, and vocal confidence
- Tone and energy appropriate to professional settings
- Filler word patterns and how to reduce them

You assess only how an answer sounds. The substance of the answer is evaluated separately and is not your concern.`,

	SynthesizeEvaluation: `You are a senior interview coach who combines a content evaluation and a delivery evaluation into a single verdict. Your principles:

- Respect the stated industry weighting when scoring
- Reconcile the two assessments instead of repeating them
- Surface the improvements with the highest payoff for the candidate
- Keep the verdict actionable and encouraging`,
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	AnalyzeJob: `Please analyze the following job description and extract the structured facts a candidate needs for interview preparation.

**Extract:**

1. **Job Title**: The exact title of the role.
2. **Skills**: The professional skills named or clearly implied by the posting.
3. **Technologies**: Specific tools, platforms, languages, or frameworks mentioned.
4. **Responsibilities**: The main duties of the role, one entry per duty.

Only report what the text supports. Do not add skills or technologies that are not present.

**Job Description:**
-----
%s
-----`,

	GenerateQuestion: `Please generate one behavioral interview question for the following candidate profile.

**Role:** %s
**Industry:** %s
**Competency:** %s
**Focus area:** %s
**Difficulty:** %s

**Requirements:**

1. Ask about a specific past situation, not a hypothetical.
2. The question must be answerable with the STAR method (Situation, Task, Action, Result).
3. Match the difficulty: easy questions ask for a straightforward example, hard questions probe conflicting constraints or failure.
4. Provide guidance describing what a strong answer covers, plus 3-5 criteria an interviewer would score against.`,

	EvaluateAnswer: `Please evaluate the candidate's answer to the interview question below.

**Question:**
-----
%s
-----

**Answer:**
-----
%s
-----

**Context:** competency %s, focus area %s, %s industry, target role %s.

**Evaluate:**

1. **Score** (0-10): Overall quality of the answer's substance.
2. **STAR Analysis**: Describe how the answer covers Situation, Task, Action, and Result. Note any component that is missing or weak.
3. **Strengths**: Specific things the answer does well.
4. **Improvements**: Concrete changes that would raise the score.
5. **Missing Elements**: Content a strong answer would include that this one lacks.
6. **Advice**: One short paragraph of coaching advice.
7. **Sample Answer**: A brief example of a strong answer to this question.

Ground every finding in the answer's actual text.`,

	TranscribeAudio: `Transcribe the attached audio recording of an interview answer.

**Rules:**

1. Produce a verbatim transcript of the spoken words.
2. Do not add commentary, speaker labels, or timestamps.
3. If a word is unintelligible, make your best guess rather than inserting placeholders.`,

	AnalyzeDelivery: `Please analyze the vocal delivery of the attached interview answer recording.

**Question being answered:**
-----
%s
-----

**Context:** competency %s, %s industry.

**Expected communication style:** %s

**Score each dimension from 0-10 with specific feedback:**

1. **Pace**: Speaking speed and use of pauses.
2. **Clarity**: Articulation and ease of understanding.
3. **Confidence**: Steadiness and conviction in the voice.
4. **Tone**: Professionalism and warmth appropriate to the setting.
5. **Energy**: Engagement and liveliness.
6. **Filler patterns**: Frequency of fillers such as "um", "uh", and "like".

Also provide an overall delivery score, strengths, improvements, coaching tips the candidate can practice, and one piece of advice specific to the industry. Judge only how the answer sounds, not what it says.`,

	SynthesizeEvaluation: `Please combine the separate content and delivery assessments below into one comprehensive interview evaluation.

**Question:**
-----
%s
-----

**Context:** competency %s, %s industry.
**Industry weighting:** content %s, delivery %s.

**Transcript of the answer:**
-----
%s
-----

**Content evaluation:**
%s

**Delivery evaluation:**
%s

**Produce:**

1. **Overall Score** (0-10): Weighted according to the industry weighting above.
2. **Comprehensive Assessment**: How substance and delivery worked together.
3. **Combined Strengths**: The most important strengths across both assessments.
4. **Priority Improvements**: The changes with the highest payoff, ordered by impact.
5. **Industry Feedback**: How this performance lands in the stated industry.
6. **Interview Readiness**: A one-line readiness verdict.
7. **Development Plan**: A short practice plan for the coming week.`,
}

// getSystemPrompt returns the appropriate system prompt
func (g *GeminiProvider) getSystemPrompt(operationType string) string {
	loaded := config.GetPromptsForOperation(operationType)
	return resolvePrompt(loaded.System, g.config.CustomPrompts.System, defaultSystemPrompt(operationType))
}

// getUserPrompt returns the appropriate user prompt template
func (g *GeminiProvider) getUserPrompt(operationType string) string {
	loaded := config.GetPromptsForOperation(operationType)
	return resolvePrompt(loaded.User, g.config.CustomPrompts.User, defaultUserPrompt(operationType))
}

// defaultSystemPrompt maps an operation type to its built-in system prompt
func defaultSystemPrompt(operationType string) string {
	switch operationType {
	case "analyze":
		return DefaultSystemPrompts.AnalyzeJob
	case "question":
		return DefaultSystemPrompts.GenerateQuestion
	case "evaluate":
		return DefaultSystemPrompts.EvaluateAnswer
	case "transcribe":
		return DefaultSystemPrompts.TranscribeAudio
	case "delivery":
		return DefaultSystemPrompts.AnalyzeDelivery
	case "synthesize":
		return DefaultSystemPrompts.SynthesizeEvaluation
	default:
		return ""
	}
}

// defaultUserPrompt maps an operation type to its built-in user prompt template
func defaultUserPrompt(operationType string) string {
	switch operationType {
	case "analyze":
		return DefaultUserPrompts.AnalyzeJob
	case "question":
		return DefaultUserPrompts.GenerateQuestion
	case "evaluate":
		return DefaultUserPrompts.EvaluateAnswer
	case "transcribe":
		return DefaultUserPrompts.TranscribeAudio
	case "delivery":
		return DefaultUserPrompts.AnalyzeDelivery
	case "synthesize":
		return DefaultUserPrompts.SynthesizeEvaluation
	default:
		return ""
	}
}

// resolvePrompt selects the correct prompt string based on a clear priority order:
// 1. A prompt loaded from a file.
// 2. A prompt defined directly in the configuration.
// 3. A hardcoded default prompt.
// This helper function centralizes the decision logic, making it DRY and easy to maintain.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
