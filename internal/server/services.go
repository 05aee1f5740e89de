package server

import (
	"fmt"

	"prepcoach/internal/ai"
	"prepcoach/internal/config"
	"prepcoach/internal/delivery"
	"prepcoach/internal/evaluation"
	"prepcoach/internal/profile"
	"prepcoach/internal/transcript"
	"prepcoach/internal/workflow"
)

// coachingServices bundles the AI-backed services the handlers share. They
// live for the whole server lifetime so circuit breaker state and workflow
// counters survive across requests.
type coachingServices struct {
	analyze    *ai.Service
	question   *ai.Service
	evaluate   *ai.Service
	transcribe *ai.Service
	delivery   *ai.Service
	synthesize *ai.Service

	analyzer    *profile.Analyzer
	questioner  *evaluation.Evaluator
	evaluator   *evaluation.Evaluator
	transcripts *transcript.Service
	coach       *delivery.Coach
	workflows   *workflow.Orchestrator
}

// operationServices returns the per-operation AI services keyed by operation
// name, for health reporting.
func (c *coachingServices) operationServices() map[string]*ai.Service {
	return map[string]*ai.Service{
		"analyze":    c.analyze,
		"question":   c.question,
		"evaluate":   c.evaluate,
		"transcribe": c.transcribe,
		"delivery":   c.delivery,
		"synthesize": c.synthesize,
	}
}

// initializeServices builds one AI service per operation and wires the
// coaching services on top of them.
func (s *Server) initializeServices() error {
	build := func(cfg config.OperationAIConfig, operation string) (*ai.Service, error) {
		svc, err := ai.NewService(&cfg, operation, s.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s AI service: %w", operation, err)
		}
		return svc, nil
	}

	analyzeSvc, err := build(s.AppConfig.GetAnalyzeConfig(), "analyze")
	if err != nil {
		return err
	}
	questionSvc, err := build(s.AppConfig.GetQuestionConfig(), "question")
	if err != nil {
		return err
	}
	evaluateSvc, err := build(s.AppConfig.GetEvaluateConfig(), "evaluate")
	if err != nil {
		return err
	}
	transcribeSvc, err := build(s.AppConfig.GetTranscribeConfig(), "transcribe")
	if err != nil {
		return err
	}
	deliverySvc, err := build(s.AppConfig.GetDeliveryConfig(), "delivery")
	if err != nil {
		return err
	}
	synthesizeSvc, err := build(s.AppConfig.GetSynthesizeConfig(), "synthesize")
	if err != nil {
		return err
	}

	transcripts := transcript.NewService(transcribeSvc.Provider, s.AppConfig.Audio, s.Logger)
	evaluator := evaluation.NewEvaluator(evaluateSvc.Provider, s.Logger)
	coach := delivery.NewCoach(deliverySvc.Provider, s.AppConfig.Audio, s.Logger)

	s.services = &coachingServices{
		analyze:     analyzeSvc,
		question:    questionSvc,
		evaluate:    evaluateSvc,
		transcribe:  transcribeSvc,
		delivery:    deliverySvc,
		synthesize:  synthesizeSvc,
		analyzer:    profile.NewAnalyzer(analyzeSvc.Provider, s.Logger),
		questioner:  evaluation.NewEvaluator(questionSvc.Provider, s.Logger),
		evaluator:   evaluator,
		transcripts: transcripts,
		coach:       coach,
		workflows:   workflow.NewOrchestrator(transcripts, evaluator, coach, synthesizeSvc.Provider, s.Logger),
	}

	s.Logger.Info("Coaching services initialized",
		"operations", len(s.services.operationServices()))

	return nil
}

// closeServices releases the per-operation AI providers.
func (s *Server) closeServices() {
	if s.services == nil {
		return
	}
	for operation, svc := range s.services.operationServices() {
		if err := svc.Provider.Close(); err != nil {
			s.Logger.LogError(err, "Failed to close AI provider", "operation", operation)
		}
	}
}
