package workflow

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"prepcoach/internal/ai"
	"prepcoach/internal/config"
	"prepcoach/internal/delivery"
	"prepcoach/internal/errors"
	"prepcoach/internal/evaluation"
	"prepcoach/internal/transcript"
	"prepcoach/internal/types"
)

var testLogger = errors.NewLogger(slog.LevelError)

// goodTranscript passes every transcript validation check when paired with
// audio long enough to estimate over one second of speech.
const goodTranscript = "I led the project and we cut costs by twenty percent."

// stubProvider backs all three branch services plus the synthesis call. The
// mutex matters: the orchestrator invokes transcription and delivery from
// concurrent goroutines.
type stubProvider struct {
	mu sync.Mutex

	transcriptText string
	transcribeErr  error
	contentEval    types.ContentEvaluation
	evaluateErr    error
	evaluatePanic  bool
	deliveryEval   types.DeliveryEvaluation
	deliveryErr    error
	deliveryPanic  bool
	synthesis      types.SynthesisOutput
	synthesisErr   error

	transcribeCalls int
	evaluateCalls   int
	deliveryCalls   int
	synthesisCalls  int
	lastSynthesisIn types.SynthesizeEvaluationInput
}

func (p *stubProvider) AnalyzeJob(_ context.Context, _ types.AnalyzeJobInput) (types.JobExtraction, *ai.TokenUsage, error) {
	return types.JobExtraction{}, nil, nil
}

func (p *stubProvider) GenerateQuestion(_ context.Context, _ types.GenerateQuestionInput) (types.GeneratedQuestion, *ai.TokenUsage, error) {
	return types.GeneratedQuestion{}, nil, nil
}

func (p *stubProvider) EvaluateAnswer(_ context.Context, _ types.EvaluateAnswerInput) (types.ContentEvaluation, *ai.TokenUsage, error) {
	p.mu.Lock()
	p.evaluateCalls++
	shouldPanic := p.evaluatePanic
	evaluation, err := p.contentEval, p.evaluateErr
	p.mu.Unlock()
	if shouldPanic {
		panic("evaluation exploded")
	}
	return evaluation, nil, err
}

func (p *stubProvider) TranscribeAudio(_ context.Context, _ types.TranscribeAudioInput) (types.Transcript, *ai.TokenUsage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transcribeCalls++
	return types.Transcript{Text: p.transcriptText}, nil, p.transcribeErr
}

func (p *stubProvider) AnalyzeDelivery(_ context.Context, _ types.AnalyzeDeliveryInput) (types.DeliveryEvaluation, *ai.TokenUsage, error) {
	p.mu.Lock()
	p.deliveryCalls++
	shouldPanic := p.deliveryPanic
	evaluation, err := p.deliveryEval, p.deliveryErr
	p.mu.Unlock()
	if shouldPanic {
		panic("speech coach exploded")
	}
	return evaluation, nil, err
}

func (p *stubProvider) SynthesizeEvaluation(_ context.Context, input types.SynthesizeEvaluationInput) (types.SynthesisOutput, *ai.TokenUsage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.synthesisCalls++
	p.lastSynthesisIn = input
	return p.synthesis, nil, p.synthesisErr
}

func (p *stubProvider) GetModelInfo(_ context.Context) *ai.ModelInfo { return nil }

func (p *stubProvider) Close() error { return nil }

func (p *stubProvider) calls() (transcribe, evaluate, deliver, synthesize int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transcribeCalls, p.evaluateCalls, p.deliveryCalls, p.synthesisCalls
}

func allAxesAt(score int) map[string]types.AxisScore {
	scores := make(map[string]types.AxisScore, len(types.DeliveryAxes))
	for _, axis := range types.DeliveryAxes {
		scores[axis] = types.AxisScore{Score: score, Feedback: "steady"}
	}
	return scores
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		transcriptText: goodTranscript,
		contentEval: types.ContentEvaluation{
			Score:        8,
			Strengths:    []string{"Clear structure", "Strong metrics", "Good ownership"},
			Improvements: []string{"Quantify impact", "Tighten the introduction", "Add a reflection"},
		},
		deliveryEval: types.DeliveryEvaluation{
			DetailedScores: allAxesAt(7),
			Strengths:      []string{"Calm tone", "Even pace"},
			Improvements:   []string{"Project more energy"},
		},
		synthesis: types.SynthesisOutput{
			OverallScore:            8.5,
			ComprehensiveAssessment: "Strong answer delivered confidently.",
			CombinedStrengths:       []string{"Structured story told with confidence"},
			PriorityImprovements:    []string{"Trim filler words"},
			IndustryFeedback:        "Solid technical depth for platform roles.",
			InterviewReadiness:      "Good - ready with minor polish",
			DevelopmentPlan:         "Practice two more system design stories.",
		},
	}
}

func newTestOrchestrator(provider *stubProvider) *Orchestrator {
	cfg := config.AudioConfig{MinBytes: 1000, SampleRate: 16000}
	return NewOrchestrator(
		transcript.NewService(provider, cfg, testLogger),
		evaluation.NewEvaluator(provider, testLogger),
		delivery.NewCoach(provider, cfg, testLogger),
		provider,
		testLogger,
	)
}

func testProfile() *types.JobProfile {
	return &types.JobProfile{
		JobTitle:        "Platform Engineer",
		Industry:        "technology",
		ExperienceLevel: "senior",
	}
}

func testQuestion() *types.Question {
	return &types.Question{
		ID:            "q-1",
		Competency:    "Problem Solving",
		SubCompetency: "Root Cause Analysis",
		Difficulty:    types.DifficultyMedium,
		QuestionText:  "Describe a time you debugged a production incident under pressure.",
	}
}

func voiceAnswer(sizeBytes int) types.VoiceAnswer {
	return types.VoiceAnswer{Audio: make([]byte, sizeBytes), MIMEType: "audio/wav"}
}

func TestEvaluateVoiceAnswerSuccess(t *testing.T) {
	provider := newStubProvider()
	orchestrator := newTestOrchestrator(provider)

	result, err := orchestrator.EvaluateVoiceAnswer(context.Background(), testProfile(), testQuestion(), voiceAnswer(64000))
	if err != nil {
		t.Fatalf("EvaluateVoiceAnswer() error = %v", err)
	}

	if result.WorkflowID == "" {
		t.Error("Expected a workflow ID")
	}
	if result.Status != types.StatusOk {
		t.Errorf("Status = %q, want %q", result.Status, types.StatusOk)
	}
	if result.Transcription == nil || result.Transcription.Text != goodTranscript {
		t.Errorf("Transcription = %+v, want text %q", result.Transcription, goodTranscript)
	}
	if result.Content == nil || result.Content.Score != 8 {
		t.Errorf("Content = %+v, want score 8", result.Content)
	}
	if result.Delivery == nil || result.Delivery.OverallScore != 7 {
		t.Errorf("Delivery = %+v, want overall 7", result.Delivery)
	}

	combined := result.Evaluation
	if combined == nil {
		t.Fatal("Missing synthesized evaluation")
	}
	if combined.OverallScore != 8.5 {
		t.Errorf("OverallScore = %v, want 8.5", combined.OverallScore)
	}
	if combined.ComprehensiveAssessment != "Strong answer delivered confidently." {
		t.Errorf("Assessment = %q", combined.ComprehensiveAssessment)
	}
	if combined.ComponentScores.ContentScore != 8 || combined.ComponentScores.DeliveryScore != 7 {
		t.Errorf("ComponentScores = %+v, want 8/7", combined.ComponentScores)
	}
	if combined.Status != types.StatusOk {
		t.Errorf("Evaluation status = %q, want %q", combined.Status, types.StatusOk)
	}

	in := provider.lastSynthesisIn
	if in.ContentWeight != 0.7 || in.DeliveryWeight != 0.3 {
		t.Errorf("Synthesis weights = %v/%v, want 0.7/0.3 for technology", in.ContentWeight, in.DeliveryWeight)
	}
	if in.Transcript != goodTranscript {
		t.Errorf("Synthesis transcript = %q", in.Transcript)
	}
	if in.Competency != "Problem Solving" || in.Industry != "technology" {
		t.Errorf("Synthesis context = %q/%q", in.Competency, in.Industry)
	}

	for _, stage := range []string{"content", "delivery", "synthesis", "total"} {
		if _, ok := result.StageSeconds[stage]; !ok {
			t.Errorf("StageSeconds missing %q", stage)
		}
	}

	stats := orchestrator.Stats()
	if stats.SuccessfulWorkflows != 1 || stats.FailedWorkflows != 0 {
		t.Errorf("Stats = %+v, want 1 success, 0 failures", stats)
	}
}

func TestEvaluateVoiceAnswerFailsOnShortAudio(t *testing.T) {
	provider := newStubProvider()
	orchestrator := newTestOrchestrator(provider)

	result, err := orchestrator.EvaluateVoiceAnswer(context.Background(), testProfile(), testQuestion(), voiceAnswer(500))
	if err != nil {
		t.Fatalf("EvaluateVoiceAnswer() error = %v", err)
	}

	if result.Status != types.StatusFailed {
		t.Errorf("Status = %q, want %q", result.Status, types.StatusFailed)
	}
	if result.FailedStage != "transcription" {
		t.Errorf("FailedStage = %q, want %q", result.FailedStage, "transcription")
	}
	if result.Content != nil || result.Delivery != nil {
		t.Errorf("Failed result should omit branch payloads, got content=%v delivery=%v", result.Content, result.Delivery)
	}
	if result.Transcription == nil || result.Transcription.Status != types.StatusFailed {
		t.Errorf("Transcription = %+v, want failed result attached", result.Transcription)
	}
	if got := result.Transcription.ErrorMessage; got != "Audio recording was too short. Please record for at least 3-5 seconds." {
		t.Errorf("Transcription error message = %q", got)
	}

	combined := result.Evaluation
	if combined == nil {
		t.Fatal("Failed result must still carry an evaluation envelope")
	}
	if combined.OverallScore != 0 {
		t.Errorf("OverallScore = %v, want 0", combined.OverallScore)
	}
	if combined.ComprehensiveAssessment != "Analysis failed at transcription stage. Please try again." {
		t.Errorf("Assessment = %q", combined.ComprehensiveAssessment)
	}
	wantImprovements := []string{"Try recording again with clear audio", "Ensure stable internet connection"}
	if len(combined.PriorityImprovements) != 2 ||
		combined.PriorityImprovements[0] != wantImprovements[0] ||
		combined.PriorityImprovements[1] != wantImprovements[1] {
		t.Errorf("PriorityImprovements = %v, want %v", combined.PriorityImprovements, wantImprovements)
	}

	transcribe, evaluate, deliver, synthesize := provider.calls()
	if transcribe != 0 || evaluate != 0 || deliver != 0 || synthesize != 0 {
		t.Errorf("Provider calls = %d/%d/%d/%d, want all gated to 0", transcribe, evaluate, deliver, synthesize)
	}

	stats := orchestrator.Stats()
	if stats.SuccessfulWorkflows != 0 || stats.FailedWorkflows != 1 {
		t.Errorf("Stats = %+v, want 0 successes, 1 failure", stats)
	}
}

func TestEvaluateVoiceAnswerFailsOnInvalidTranscript(t *testing.T) {
	provider := newStubProvider()
	provider.transcriptText = "um um"
	orchestrator := newTestOrchestrator(provider)

	result, err := orchestrator.EvaluateVoiceAnswer(context.Background(), testProfile(), testQuestion(), voiceAnswer(64000))
	if err != nil {
		t.Fatalf("EvaluateVoiceAnswer() error = %v", err)
	}

	if result.Status != types.StatusFailed || result.FailedStage != "transcription" {
		t.Errorf("Result = status %q stage %q, want failed at transcription", result.Status, result.FailedStage)
	}
	if result.Evaluation == nil || result.Evaluation.OverallScore != 0 {
		t.Errorf("Evaluation = %+v, want zero score", result.Evaluation)
	}

	// The delivery branch still ran; its outcome cannot rescue a failed
	// content branch.
	transcribe, evaluate, deliver, _ := provider.calls()
	if transcribe != 1 {
		t.Errorf("Transcribe calls = %d, want 1", transcribe)
	}
	if evaluate != 0 {
		t.Errorf("Evaluate calls = %d, want 0 after invalid transcript", evaluate)
	}
	if deliver != 1 {
		t.Errorf("Delivery calls = %d, want 1", deliver)
	}
}

func TestEvaluateVoiceAnswerSubstitutesDeliveryFallback(t *testing.T) {
	provider := newStubProvider()
	provider.deliveryErr = stdErrors.New("speech model down")
	orchestrator := newTestOrchestrator(provider)

	result, err := orchestrator.EvaluateVoiceAnswer(context.Background(), testProfile(), testQuestion(), voiceAnswer(64000))
	if err != nil {
		t.Fatalf("EvaluateVoiceAnswer() error = %v", err)
	}

	if result.Status != types.StatusDegraded {
		t.Errorf("Status = %q, want %q", result.Status, types.StatusDegraded)
	}
	if result.Content == nil || result.Content.Score != 8 {
		t.Errorf("Content = %+v, want populated score 8", result.Content)
	}
	if result.Delivery == nil || result.Delivery.Status != types.StatusDegraded {
		t.Fatalf("Delivery = %+v, want degraded fallback", result.Delivery)
	}
	wantAssessment := "Speech analysis temporarily unavailable. Audio received (62.5 KB) but processing failed: speech model down."
	if result.Delivery.DeliveryAssessment != wantAssessment {
		t.Errorf("Delivery assessment = %q, want %q", result.Delivery.DeliveryAssessment, wantAssessment)
	}
	if result.Evaluation == nil || result.Evaluation.Status != types.StatusOk {
		t.Errorf("Evaluation = %+v, want synthesis over fallback delivery", result.Evaluation)
	}

	stats := orchestrator.Stats()
	if stats.SuccessfulWorkflows != 1 || stats.FailedWorkflows != 0 {
		t.Errorf("Stats = %+v, want delivery fallback counted as success", stats)
	}
}

func TestEvaluateVoiceAnswerRecoversDeliveryPanic(t *testing.T) {
	provider := newStubProvider()
	provider.deliveryPanic = true
	orchestrator := newTestOrchestrator(provider)

	result, err := orchestrator.EvaluateVoiceAnswer(context.Background(), testProfile(), testQuestion(), voiceAnswer(64000))
	if err != nil {
		t.Fatalf("EvaluateVoiceAnswer() error = %v", err)
	}

	if result.Status != types.StatusDegraded {
		t.Errorf("Status = %q, want %q", result.Status, types.StatusDegraded)
	}
	if result.Delivery == nil || result.Delivery.Status != types.StatusDegraded {
		t.Fatalf("Delivery = %+v, want fallback after panic", result.Delivery)
	}
	if !strings.Contains(result.Delivery.DeliveryAssessment, "delivery analysis panicked") {
		t.Errorf("Delivery assessment = %q, want panic reason embedded", result.Delivery.DeliveryAssessment)
	}
	if result.Content == nil || result.Evaluation == nil {
		t.Error("Content and evaluation must survive a delivery panic")
	}
}

func TestEvaluateVoiceAnswerRecoversContentPanic(t *testing.T) {
	provider := newStubProvider()
	provider.evaluatePanic = true
	orchestrator := newTestOrchestrator(provider)

	result, err := orchestrator.EvaluateVoiceAnswer(context.Background(), testProfile(), testQuestion(), voiceAnswer(64000))
	if err != nil {
		t.Fatalf("EvaluateVoiceAnswer() error = %v", err)
	}

	if result.Status != types.StatusFailed {
		t.Errorf("Status = %q, want %q", result.Status, types.StatusFailed)
	}
	if result.FailedStage != "content_analysis" {
		t.Errorf("FailedStage = %q, want %q", result.FailedStage, "content_analysis")
	}
	if result.Evaluation == nil || result.Evaluation.ComprehensiveAssessment != "Analysis failed at content_analysis stage. Please try again." {
		t.Errorf("Evaluation = %+v", result.Evaluation)
	}

	stats := orchestrator.Stats()
	if stats.FailedWorkflows != 1 {
		t.Errorf("FailedWorkflows = %d, want 1", stats.FailedWorkflows)
	}
}

func TestEvaluateVoiceAnswerSynthesisFallback(t *testing.T) {
	provider := newStubProvider()
	provider.synthesisErr = stdErrors.New("synthesis unavailable")
	provider.deliveryEval = types.DeliveryEvaluation{
		DetailedScores: allAxesAt(4),
		Strengths:      []string{"Calm tone", "Even pace"},
		Improvements:   []string{"Project more energy"},
	}
	orchestrator := newTestOrchestrator(provider)

	result, err := orchestrator.EvaluateVoiceAnswer(context.Background(), testProfile(), testQuestion(), voiceAnswer(64000))
	if err != nil {
		t.Fatalf("EvaluateVoiceAnswer() error = %v", err)
	}

	combined := result.Evaluation
	if combined == nil {
		t.Fatal("Missing synthesized evaluation")
	}
	// Technology weights: 8*0.7 + 4*0.3 = 6.8.
	if combined.OverallScore != 6.8 {
		t.Errorf("OverallScore = %v, want 6.8", combined.OverallScore)
	}
	if combined.ComprehensiveAssessment != "Combined content and delivery analysis completed. Content scored 8/10, delivery scored 4/10." {
		t.Errorf("Assessment = %q", combined.ComprehensiveAssessment)
	}
	wantStrengths := []string{"Clear structure", "Strong metrics", "Calm tone"}
	if len(combined.CombinedStrengths) != 3 {
		t.Fatalf("CombinedStrengths = %v", combined.CombinedStrengths)
	}
	for i, want := range wantStrengths {
		if combined.CombinedStrengths[i] != want {
			t.Errorf("CombinedStrengths[%d] = %q, want %q", i, combined.CombinedStrengths[i], want)
		}
	}
	wantImprovements := []string{"Quantify impact", "Tighten the introduction", "Project more energy"}
	for i, want := range wantImprovements {
		if combined.PriorityImprovements[i] != want {
			t.Errorf("PriorityImprovements[%d] = %q, want %q", i, combined.PriorityImprovements[i], want)
		}
	}
	if combined.InterviewReadiness != "Developing - continue practicing both content and delivery" {
		t.Errorf("InterviewReadiness = %q", combined.InterviewReadiness)
	}
	if combined.IndustryFeedback != "For technology interviews, continue developing both content knowledge and professional delivery." {
		t.Errorf("IndustryFeedback = %q", combined.IndustryFeedback)
	}
	if combined.ComponentScores.ContentScore != 8 || combined.ComponentScores.DeliveryScore != 4 {
		t.Errorf("ComponentScores = %+v, want 8/4", combined.ComponentScores)
	}
	if combined.Status != types.StatusDegraded {
		t.Errorf("Evaluation status = %q, want %q", combined.Status, types.StatusDegraded)
	}
	if result.Status != types.StatusDegraded {
		t.Errorf("Workflow status = %q, want %q", result.Status, types.StatusDegraded)
	}
}

func TestEvaluateVoiceAnswerDegradedContentPropagates(t *testing.T) {
	provider := newStubProvider()
	provider.evaluateErr = stdErrors.New("evaluation backend down")
	orchestrator := newTestOrchestrator(provider)

	result, err := orchestrator.EvaluateVoiceAnswer(context.Background(), testProfile(), testQuestion(), voiceAnswer(64000))
	if err != nil {
		t.Fatalf("EvaluateVoiceAnswer() error = %v", err)
	}

	// The evaluator degrades to its heuristic score instead of failing the
	// branch, so the workflow completes in degraded status.
	if result.Status != types.StatusDegraded {
		t.Errorf("Status = %q, want %q", result.Status, types.StatusDegraded)
	}
	if result.Content == nil || result.Content.Status != types.StatusDegraded {
		t.Errorf("Content = %+v, want degraded heuristic evaluation", result.Content)
	}
	if result.Content.Score != 5 {
		t.Errorf("Heuristic content score = %d, want 5", result.Content.Score)
	}

	stats := orchestrator.Stats()
	if stats.SuccessfulWorkflows != 1 {
		t.Errorf("SuccessfulWorkflows = %d, want 1", stats.SuccessfulWorkflows)
	}
}

func TestEvaluateVoiceAnswerRejectsInvalidInput(t *testing.T) {
	provider := newStubProvider()
	orchestrator := newTestOrchestrator(provider)

	tests := []struct {
		name     string
		profile  *types.JobProfile
		question *types.Question
		voice    types.VoiceAnswer
	}{
		{name: "NilProfile", profile: nil, question: testQuestion(), voice: voiceAnswer(64000)},
		{name: "NilQuestion", profile: testProfile(), question: nil, voice: voiceAnswer(64000)},
		{name: "EmptyQuestionText", profile: testProfile(), question: &types.Question{Competency: "Teamwork"}, voice: voiceAnswer(64000)},
		{name: "EmptyAudio", profile: testProfile(), question: testQuestion(), voice: types.VoiceAnswer{MIMEType: "audio/wav"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := orchestrator.EvaluateVoiceAnswer(context.Background(), tt.profile, tt.question, tt.voice)
			if result != nil {
				t.Errorf("Expected nil result, got %+v", result)
			}
			var appErr *errors.AppError
			if !stdErrors.As(err, &appErr) {
				t.Fatalf("Expected AppError, got %v", err)
			}
			if appErr.Code != errors.ErrCodeInvalidRequest {
				t.Errorf("Code = %q, want %q", appErr.Code, errors.ErrCodeInvalidRequest)
			}
		})
	}

	transcribe, evaluate, deliver, synthesize := provider.calls()
	if transcribe+evaluate+deliver+synthesize != 0 {
		t.Errorf("Rejected input must not reach the provider, got %d/%d/%d/%d calls", transcribe, evaluate, deliver, synthesize)
	}
}

func TestStatsAccumulate(t *testing.T) {
	provider := newStubProvider()
	orchestrator := newTestOrchestrator(provider)
	ctx := context.Background()

	first, err := orchestrator.EvaluateVoiceAnswer(ctx, testProfile(), testQuestion(), voiceAnswer(64000))
	if err != nil {
		t.Fatalf("First run error = %v", err)
	}
	second, err := orchestrator.EvaluateVoiceAnswer(ctx, testProfile(), testQuestion(), voiceAnswer(64000))
	if err != nil {
		t.Fatalf("Second run error = %v", err)
	}
	if first.WorkflowID == second.WorkflowID {
		t.Error("Workflow IDs should be unique per invocation")
	}

	if _, err := orchestrator.EvaluateVoiceAnswer(ctx, testProfile(), testQuestion(), voiceAnswer(200)); err != nil {
		t.Fatalf("Gated run error = %v", err)
	}

	stats := orchestrator.Stats()
	if stats.SuccessfulWorkflows != 2 || stats.FailedWorkflows != 1 {
		t.Errorf("Stats = %+v, want 2 successes, 1 failure", stats)
	}
}

func TestWeightsFor(t *testing.T) {
	tests := []struct {
		name         string
		industry     string
		wantContent  float64
		wantDelivery float64
	}{
		{name: "Technology", industry: "technology", wantContent: 0.70, wantDelivery: 0.30},
		{name: "Sales", industry: "sales", wantContent: 0.40, wantDelivery: 0.60},
		{name: "Marketing", industry: "marketing", wantContent: 0.45, wantDelivery: 0.55},
		{name: "Finance", industry: "finance", wantContent: 0.65, wantDelivery: 0.35},
		{name: "UnknownDefaults", industry: "retail", wantContent: 0.60, wantDelivery: 0.40},
		{name: "EmptyDefaults", industry: "", wantContent: 0.60, wantDelivery: 0.40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weights := weightsFor(tt.industry)
			if weights.Content != tt.wantContent || weights.Delivery != tt.wantDelivery {
				t.Errorf("weightsFor(%q) = %v/%v, want %v/%v",
					tt.industry, weights.Content, weights.Delivery, tt.wantContent, tt.wantDelivery)
			}
		})
	}
}
