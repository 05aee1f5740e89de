package server

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	prepcoachErrors "prepcoach/internal/errors"
	"prepcoach/internal/observability"
	"prepcoach/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createSessionHandler wraps session creation with observability
func (s *Server) createSessionHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("prepcoach.api")
		ctx, span := tracer.Start(ctx, "api.session.create")
		defer span.End()

		var req CreateSessionRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}
		if len(req.JobDescription) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("job description too large: %d chars", len(req.JobDescription))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Job description too large", fmt.Sprintf("jobDescription exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "session.create"),
		)

		metrics := om.GetMetrics()
		var jobProfile *types.JobProfile
		err := metrics.TrackAIOperationWithTokens(ctx, "analyze", func(ctx context.Context) *observability.AIOperationResult {
			derived, tokenUsage, aiErr := s.services.analyzer.Analyze(ctx, req.JobDescription)
			jobProfile = derived
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "session_created", false, om)
			writeErrorResponse(w, "Failed to analyze job description", err.Error(), httpStatusForError(err))
			return
		}

		sess := s.Sessions.Create(jobProfile)

		metrics.RecordBusinessMetric(ctx, "session_created", true, om,
			attribute.String("industry", jobProfile.Industry),
			attribute.String("experience_level", jobProfile.ExperienceLevel))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("session.id", sess.ID),
			attribute.String("profile.industry", jobProfile.Industry),
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(snapshot(sess)); err != nil {
			span.RecordError(err)
			s.Logger.LogError(err, "Failed to encode session response")
		}
	}
}

// createQuestionHandler wraps question generation with observability
func (s *Server) createQuestionHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("prepcoach.api")
		ctx, span := tracer.Start(ctx, "api.question.generate")
		defer span.End()

		sess, err := s.Sessions.Get(r.PathValue("id"))
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "session"))
			writeErrorResponse(w, "Session not found", err.Error(), http.StatusNotFound)
			return
		}

		var req QuestionRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		competency, subCompetency := resolveCompetency(sess.Profile, req.Competency, req.SubCompetency)
		if competency == "" {
			err := fmt.Errorf("no competency available")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing competency", "competency field is required when the profile has none", http.StatusBadRequest)
			return
		}
		if req.Difficulty != "" && !validDifficulty(req.Difficulty) {
			err := fmt.Errorf("invalid difficulty: %s", req.Difficulty)
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid difficulty", "difficulty must be easy, medium, or hard", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("question.competency", competency),
			attribute.String("operation", "question.generate"),
		)

		metrics := om.GetMetrics()
		var question *types.Question
		err = metrics.TrackAIOperationWithTokens(ctx, "question", func(ctx context.Context) *observability.AIOperationResult {
			generated, tokenUsage, aiErr := s.services.questioner.GenerateQuestion(ctx, sess.Profile, competency, subCompetency, req.Difficulty)
			question = generated
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "question_generated", false, om)
			writeErrorResponse(w, "Failed to generate question", err.Error(), httpStatusForError(err))
			return
		}

		sess.AddQuestion(question)

		metrics.RecordBusinessMetric(ctx, "question_generated", true, om,
			attribute.String("competency", question.Competency),
			attribute.String("difficulty", question.Difficulty),
			attribute.String("status", string(question.Status)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("question.id", question.ID),
			attribute.String("question.status", string(question.Status)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(question); err != nil {
			span.RecordError(err)
			s.Logger.LogError(err, "Failed to encode question response")
		}
	}
}

// createAnswerHandler wraps typed answer evaluation with observability
func (s *Server) createAnswerHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("prepcoach.api")
		ctx, span := tracer.Start(ctx, "api.answer.evaluate")
		defer span.End()

		sess, err := s.Sessions.Get(r.PathValue("id"))
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "session"))
			writeErrorResponse(w, "Session not found", err.Error(), http.StatusNotFound)
			return
		}

		var req AnswerRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.QuestionID) == "" {
			err := fmt.Errorf("missing question id")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing question id", "questionId field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.AnswerText) == "" {
			err := fmt.Errorf("missing answer text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing answer", "answerText field is required", http.StatusBadRequest)
			return
		}
		if len(req.AnswerText) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("answer too large: %d chars", len(req.AnswerText))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Answer too large", fmt.Sprintf("answerText exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		question, ok := sess.Question(req.QuestionID)
		if !ok {
			err := fmt.Errorf("unknown question: %s", req.QuestionID)
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Question not found", "questionId does not match an open question in this session", http.StatusNotFound)
			return
		}

		span.SetAttributes(
			attribute.Int("request.answer_length", len(req.AnswerText)),
			attribute.String("question.competency", question.Competency),
			attribute.String("operation", "answer.evaluate"),
		)

		metrics := om.GetMetrics()
		var result *types.ContentEvaluation
		err = metrics.TrackAIOperationWithTokens(ctx, "evaluate", func(ctx context.Context) *observability.AIOperationResult {
			evaluated, tokenUsage, aiErr := s.services.evaluator.EvaluateAnswer(ctx, question, req.AnswerText, sess.Profile)
			result = evaluated
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "answer_evaluated", false, om,
				attribute.String("mode", "text"))
			writeErrorResponse(w, "Failed to evaluate answer", err.Error(), httpStatusForError(err))
			return
		}

		sess.Progress().Record(question.Competency, float64(result.Score), question.SubCompetency)

		metrics.RecordBusinessMetric(ctx, "answer_evaluated", true, om,
			attribute.String("mode", "text"),
			attribute.String("competency", question.Competency),
			attribute.Int("score", result.Score))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("evaluation.score", result.Score),
			attribute.String("evaluation.status", string(result.Status)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			s.Logger.LogError(err, "Failed to encode evaluation response")
		}
	}
}

// createVoiceAnswerHandler wraps the parallel voice evaluation workflow with
// observability. The request is multipart: an audio file plus the question id.
func (s *Server) createVoiceAnswerHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("prepcoach.api")
		ctx, span := tracer.Start(ctx, "api.answer.voice")
		defer span.End()

		sess, err := s.Sessions.Get(r.PathValue("id"))
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "session"))
			writeErrorResponse(w, "Session not found", err.Error(), http.StatusNotFound)
			return
		}

		if err := r.ParseMultipartForm(s.AppConfig.Audio.MaxUploadBytes); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			var maxBytesErr *http.MaxBytesError
			if stdErrors.As(err, &maxBytesErr) {
				writeErrorResponse(w, "Audio upload too large", fmt.Sprintf("upload exceeds limit of %d bytes", maxBytesErr.Limit), http.StatusRequestEntityTooLarge)
				return
			}
			writeErrorResponse(w, "Invalid multipart request", err.Error(), http.StatusBadRequest)
			return
		}

		questionID := strings.TrimSpace(r.FormValue("questionId"))
		if questionID == "" {
			err := fmt.Errorf("missing question id")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing question id", "questionId form field is required", http.StatusBadRequest)
			return
		}

		question, ok := sess.Question(questionID)
		if !ok {
			err := fmt.Errorf("unknown question: %s", questionID)
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Question not found", "questionId does not match an open question in this session", http.StatusNotFound)
			return
		}

		file, header, err := r.FormFile("audio")
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing audio file", "audio form file is required", http.StatusBadRequest)
			return
		}
		defer func() {
			if err := file.Close(); err != nil {
				s.Logger.Warn("Failed to close uploaded audio file", "error", err.Error())
			}
		}()

		audioData, err := io.ReadAll(file)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to read audio", err.Error(), http.StatusBadRequest)
			return
		}
		if len(audioData) == 0 {
			err := fmt.Errorf("empty audio upload")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Empty audio file", "uploaded audio contains no data", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.audio_bytes", len(audioData)),
			attribute.String("question.competency", question.Competency),
			attribute.String("operation", "answer.voice"),
		)

		voice := types.VoiceAnswer{
			Audio:    audioData,
			MIMEType: header.Header.Get("Content-Type"),
		}

		result, err := s.services.workflows.EvaluateVoiceAnswer(ctx, sess.Profile, question, voice)
		metrics := om.GetMetrics()
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "voice_workflow", false, om,
				attribute.String("status", string(types.StatusFailed)))
			writeErrorResponse(w, "Failed to evaluate voice answer", err.Error(), httpStatusForError(err))
			return
		}

		// Failed workflows carry a zero-score envelope; only real evaluations
		// count as practice attempts.
		if result.Evaluation != nil && result.Status != types.StatusFailed {
			sess.Progress().Record(question.Competency, result.Evaluation.OverallScore, question.SubCompetency)
			metrics.RecordBusinessMetric(ctx, "answer_evaluated", true, om,
				attribute.String("mode", "voice"),
				attribute.String("competency", question.Competency),
				attribute.Float64("score", result.Evaluation.OverallScore))
		}
		metrics.RecordBusinessMetric(ctx, "voice_workflow", result.Status != types.StatusFailed, om,
			attribute.String("status", string(result.Status)))

		span.SetAttributes(
			attribute.Bool("success", result.Status != types.StatusFailed),
			attribute.String("workflow.id", result.WorkflowID),
			attribute.String("workflow.status", string(result.Status)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			s.Logger.LogError(err, "Failed to encode workflow response")
		}
	}
}

// createAnalyzeHandler wraps the stateless job analysis endpoint with observability
func (s *Server) createAnalyzeHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("prepcoach.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "analyze"),
		)

		metrics := om.GetMetrics()
		var jobProfile *types.JobProfile
		err := metrics.TrackAIOperationWithTokens(ctx, "analyze", func(ctx context.Context) *observability.AIOperationResult {
			derived, tokenUsage, aiErr := s.services.analyzer.Analyze(ctx, req.JobDescription)
			jobProfile = derived
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			writeErrorResponse(w, "Failed to analyze job description", err.Error(), httpStatusForError(err))
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("profile.industry", jobProfile.Industry),
			attribute.String("profile.status", string(jobProfile.Status)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(jobProfile); err != nil {
			span.RecordError(err)
			s.Logger.LogError(err, "Failed to encode profile response")
		}
	}
}

// resolveCompetency fills the competency and sub-competency defaults from the
// session profile. An empty competency falls back to the profile's first
// focus; an empty sub-competency falls back to the first sub of the chosen
// focus when it appears in the profile.
func resolveCompetency(jobProfile *types.JobProfile, competency, subCompetency string) (string, string) {
	competency = strings.TrimSpace(competency)
	subCompetency = strings.TrimSpace(subCompetency)

	if competency == "" && len(jobProfile.Competencies) > 0 {
		competency = jobProfile.Competencies[0].Name
	}
	if subCompetency == "" {
		for _, focus := range jobProfile.Competencies {
			if focus.Name == competency && len(focus.SubCompetencies) > 0 {
				subCompetency = focus.SubCompetencies[0]
				break
			}
		}
	}
	return competency, subCompetency
}

// validDifficulty reports whether the value is a known difficulty level.
func validDifficulty(difficulty string) bool {
	switch difficulty {
	case types.DifficultyEasy, types.DifficultyMedium, types.DifficultyHard:
		return true
	}
	return false
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.Manager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Check if this request was rate limited by examining the response
			// We'll wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// httpStatusForError maps structured application errors to HTTP statuses.
// Validation problems are the caller's fault; missing sessions map to 404;
// everything else is treated as a server-side failure.
func httpStatusForError(err error) int {
	var appErr *prepcoachErrors.AppError
	if stdErrors.As(err, &appErr) {
		switch appErr.Type {
		case prepcoachErrors.ErrorTypeValidation:
			return http.StatusBadRequest
		case prepcoachErrors.ErrorTypeSession:
			return http.StatusNotFound
		}
	}
	return http.StatusInternalServerError
}
