package types

import "time"

// ResultStatus tells how a result was produced.
type ResultStatus string

const (
	// StatusOk means the result came from a successful AI operation.
	StatusOk ResultStatus = "ok"
	// StatusDegraded means a deterministic fallback produced the result.
	StatusDegraded ResultStatus = "degraded"
	// StatusFailed means the operation could not produce a usable result.
	StatusFailed ResultStatus = "failed"
)

// Difficulty levels for generated questions.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Trend labels for the cross-competency progress summary.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
	TrendNoData    = "no_data"
)

// CompetencyFocus represents one competency targeted during practice
type CompetencyFocus struct {
	Name            string   `json:"name"`
	SubCompetencies []string `json:"subCompetencies"`
}

// JobProfile represents the structured profile derived from a job description
type JobProfile struct {
	JobTitle        string            `json:"jobTitle"`
	Industry        string            `json:"industry"`
	ExperienceLevel string            `json:"experienceLevel"` // "entry", "mid", "senior", or "executive"
	Skills          []string          `json:"skills"`
	Technologies    []string          `json:"technologies"`
	Competencies    []CompetencyFocus `json:"competencies"`
	Status          ResultStatus      `json:"status"`
}

// AnalyzeJobInput represents the input for deriving a job profile
type AnalyzeJobInput struct {
	JobDescription string `json:"jobDescription"`
}

// JobExtraction represents the AI-extracted portion of a job profile
type JobExtraction struct {
	JobTitle         string   `json:"jobTitle"`
	Skills           []string `json:"skills"`
	Technologies     []string `json:"technologies"`
	Responsibilities []string `json:"responsibilities"`
}

// GenerateQuestionInput represents the input for generating an interview question
type GenerateQuestionInput struct {
	JobTitle      string `json:"jobTitle"`
	Industry      string `json:"industry"`
	Competency    string `json:"competency"`
	SubCompetency string `json:"subCompetency"`
	Difficulty    string `json:"difficulty"`
}

// GeneratedQuestion represents the AI output for a single question
type GeneratedQuestion struct {
	QuestionText           string   `json:"questionText"`
	ExpectedAnswerGuidance string   `json:"expectedAnswerGuidance"`
	EvaluationCriteria     []string `json:"evaluationCriteria"`
}

// Question represents an interview question handed to the candidate
type Question struct {
	ID                     string       `json:"id"`
	Competency             string       `json:"competency"`
	SubCompetency          string       `json:"subCompetency"`
	Difficulty             string       `json:"difficulty"`
	QuestionText           string       `json:"questionText"`
	ExpectedAnswerGuidance string       `json:"expectedAnswerGuidance"`
	EvaluationCriteria     []string     `json:"evaluationCriteria"`
	Status                 ResultStatus `json:"status"`
}

// EvaluateAnswerInput represents the input for scoring an answer's content
type EvaluateAnswerInput struct {
	QuestionText  string `json:"questionText"`
	AnswerText    string `json:"answerText"`
	Competency    string `json:"competency"`
	SubCompetency string `json:"subCompetency"`
	Industry      string `json:"industry"`
	JobTitle      string `json:"jobTitle"`
}

// STARAnalysis represents how an answer covers the STAR structure
type STARAnalysis struct {
	Situation string `json:"situation"`
	Task      string `json:"task"`
	Action    string `json:"action"`
	Result    string `json:"result"`
}

// ContentEvaluation represents the scored assessment of an answer's substance
type ContentEvaluation struct {
	Score             int          `json:"score"` // 0-10
	OverallAssessment string       `json:"overallAssessment"`
	STARAnalysis      STARAnalysis `json:"starAnalysis"`
	Strengths         []string     `json:"strengths"`
	Improvements      []string     `json:"improvements"`
	MissingElements   []string     `json:"missingElements"`
	Advice            string       `json:"advice"`
	SampleAnswer      string       `json:"sampleAnswer"`
	Status            ResultStatus `json:"status"`
}

// TranscribeAudioInput represents the input for transcribing a recording
type TranscribeAudioInput struct {
	Audio    []byte `json:"-"`
	MIMEType string `json:"mimeType"`
}

// Transcript represents the AI transcription payload
type Transcript struct {
	Text string `json:"text"`
}

// TranscriptionResult represents a transcription with its quality verdict
type TranscriptionResult struct {
	Text            string       `json:"text"`
	WordCount       int          `json:"wordCount"`
	Confidence      float64      `json:"confidence"` // fraction of validation checks passed
	Valid           bool         `json:"valid"`
	DurationSeconds float64      `json:"durationSeconds"`
	Status          ResultStatus `json:"status"`
	ErrorMessage    string       `json:"errorMessage,omitempty"`
}

// AnalyzeDeliveryInput represents the input for vocal delivery analysis
type AnalyzeDeliveryInput struct {
	Audio        []byte `json:"-"`
	MIMEType     string `json:"mimeType"`
	QuestionText string `json:"questionText"`
	Competency   string `json:"competency"`
	Industry     string `json:"industry"`
	// ExpectedStyle is the communication register the industry expects,
	// filled in by the delivery coach before the provider call.
	ExpectedStyle string `json:"expectedStyle"`
}

// DeliveryAxes lists the vocal delivery dimensions in report order.
var DeliveryAxes = []string{"pace", "clarity", "confidence", "tone", "energy", "fillerPatterns"}

// AxisScore represents one delivery aspect with its score and feedback
type AxisScore struct {
	Score    int    `json:"score"` // 0-10
	Feedback string `json:"feedback"`
}

// DeliveryEvaluation represents the vocal delivery assessment of a spoken answer
type DeliveryEvaluation struct {
	OverallScore       int                  `json:"overallScore"` // 0-10
	DeliveryAssessment string               `json:"deliveryAssessment"`
	DetailedScores     map[string]AxisScore `json:"detailedScores"`
	Strengths          []string             `json:"strengths"`
	Improvements       []string             `json:"improvements"`
	CoachingTips       []string             `json:"coachingTips"`
	IndustryAdvice     string               `json:"industryAdvice"`
	Status             ResultStatus         `json:"status"`
}

// ComponentScores represents the per-branch scores behind a synthesized result
type ComponentScores struct {
	ContentScore  int `json:"contentScore"`
	DeliveryScore int `json:"deliveryScore"`
}

// SynthesizedEvaluation represents the combined content and delivery verdict
type SynthesizedEvaluation struct {
	OverallScore            float64         `json:"overallScore"` // 0-10, industry-weighted
	ComprehensiveAssessment string          `json:"comprehensiveAssessment"`
	CombinedStrengths       []string        `json:"combinedStrengths"`
	PriorityImprovements    []string        `json:"priorityImprovements"`
	IndustryFeedback        string          `json:"industryFeedback"`
	InterviewReadiness      string          `json:"interviewReadiness"`
	DevelopmentPlan         string          `json:"developmentPlan"`
	ComponentScores         ComponentScores `json:"componentScores"`
	Status                  ResultStatus    `json:"status"`
}

// SynthesizeEvaluationInput represents the input for combining branch results
type SynthesizeEvaluationInput struct {
	QuestionText   string             `json:"questionText"`
	Competency     string             `json:"competency"`
	Industry       string             `json:"industry"`
	Transcript     string             `json:"transcript"`
	Content        ContentEvaluation  `json:"content"`
	Delivery       DeliveryEvaluation `json:"delivery"`
	ContentWeight  float64            `json:"contentWeight"`
	DeliveryWeight float64            `json:"deliveryWeight"`
}

// SynthesisOutput represents the AI output for evaluation synthesis
type SynthesisOutput struct {
	OverallScore            float64  `json:"overallScore"`
	ComprehensiveAssessment string   `json:"comprehensiveAssessment"`
	CombinedStrengths       []string `json:"combinedStrengths"`
	PriorityImprovements    []string `json:"priorityImprovements"`
	IndustryFeedback        string   `json:"industryFeedback"`
	InterviewReadiness      string   `json:"interviewReadiness"`
	DevelopmentPlan         string   `json:"developmentPlan"`
}

// VoiceAnswer represents an uploaded spoken answer. Audio lives only in
// request scope and is never written to disk or any store.
type VoiceAnswer struct {
	Audio    []byte `json:"-"`
	MIMEType string `json:"mimeType"`
}

// WorkflowResult represents the envelope of a parallel voice evaluation
type WorkflowResult struct {
	WorkflowID    string                 `json:"workflowId"`
	Status        ResultStatus           `json:"status"`
	FailedStage   string                 `json:"failedStage,omitempty"`
	Transcription *TranscriptionResult   `json:"transcription,omitempty"`
	Content       *ContentEvaluation     `json:"content,omitempty"`
	Delivery      *DeliveryEvaluation    `json:"delivery,omitempty"`
	Evaluation    *SynthesizedEvaluation `json:"evaluation,omitempty"`
	StageSeconds  map[string]float64     `json:"stageSeconds,omitempty"`
}

// ProgressEntry represents one recorded practice attempt for a competency
type ProgressEntry struct {
	Competency string    `json:"competency"`
	Score      float64   `json:"score"`
	Timestamp  time.Time `json:"timestamp"`
	Notes      string    `json:"notes,omitempty"`
}

// CompetencyProgress represents the aggregate view of one competency's history
type CompetencyProgress struct {
	Average     float64 `json:"average"`
	Attempts    int     `json:"attempts"`
	Latest      float64 `json:"latest"`
	Best        float64 `json:"best"`
	Improvement float64 `json:"improvement"` // latest minus first in the retained window
	Readiness   string  `json:"readiness"`
	NextStep    string  `json:"nextStep"`
}

// ProgressSummary represents the cross-competency progress view
type ProgressSummary struct {
	Competencies map[string]CompetencyProgress `json:"competencies"`
	Trend        string                        `json:"trend"` // "improving", "declining", "stable", or "no_data"
	TotalAnswers int                           `json:"totalAnswers"`
}

// PerformanceAnalysis represents strengths and weaknesses across competencies
type PerformanceAnalysis struct {
	Strengths       []string `json:"strengths"`  // average >= 7
	Weaknesses      []string `json:"weaknesses"` // average < 5
	OverallAverage  float64  `json:"overallAverage"`
	Recommendations []string `json:"recommendations"`
}

// StudyPlanItem represents one competency slot in a practice schedule
type StudyPlanItem struct {
	Competency      string   `json:"competency"`
	Average         float64  `json:"average"`
	SessionsPerWeek int      `json:"sessionsPerWeek"`
	SubCompetencies []string `json:"subCompetencies,omitempty"`
	Progression     []string `json:"progression"` // difficulty ladder for practice sessions
}

// StudyGoals represents the targets a study plan works toward
type StudyGoals struct {
	TargetOverallScore   float64 `json:"targetOverallScore"`
	TimelineWeeks        int     `json:"timelineWeeks"`
	WeakCompetencyTarget float64 `json:"weakCompetencyTarget"`
	TotalSessions        int     `json:"totalSessions"`
}

// StudyPlan represents focus and maintenance recommendations
type StudyPlan struct {
	FocusAreas  []StudyPlanItem `json:"focusAreas"`
	Maintenance []StudyPlanItem `json:"maintenance"`
	Goals       StudyGoals      `json:"goals"`
}

// ProgressReport represents the full progress surface returned by the API
type ProgressReport struct {
	Summary     ProgressSummary     `json:"summary"`
	Performance PerformanceAnalysis `json:"performance"`
	Readiness   string              `json:"readiness"`
	StudyPlan   StudyPlan           `json:"studyPlan"`
}
