package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"prepcoach/internal/config"
	prepcoachErrors "prepcoach/internal/errors"
	"prepcoach/internal/types"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	httpClient     *http.Client
	config         *config.OperationAIConfig
	circuitBreaker *CircuitBreaker[*genai.GenerateContentResponse]
	modelBreaker   *CircuitBreaker[*genai.Model]
	logger         *prepcoachErrors.Logger
}

// Ensure GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance for a specific operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *prepcoachErrors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, prepcoachErrors.NewAIError(prepcoachErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	// Initialize circuit breaker with operation-specific configuration
	circuitBreaker := NewAICircuitBreaker(operationType, cfg, logger)
	modelBreaker := NewModelCircuitBreaker(operationType, cfg, logger)

	return &GeminiProvider{
		client: client,
		httpClient: &http.Client{
			Timeout: *cfg.Timeout,
		},
		config:         cfg,
		circuitBreaker: circuitBreaker,
		modelBreaker:   modelBreaker,
		logger:         logger,
	}, nil
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	// Create a timeout context for the model check
	timeout := getAIModelCheckTimeout()
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Get model information from Gemini API with circuit breaker
	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)

		// Log the error for debugging
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	// Model is available, populate info
	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	// Log successful check
	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxInterval = 30 * time.Second
	policy.MaxElapsedTime = 0 // retry count is the only budget

	attempts := 0
	result, err := backoff.RetryNotifyWithData(
		func() (*genai.GenerateContentResponse, error) {
			attempts++
			result, err := fn()
			if err == nil {
				if attempts > 1 {
					g.logger.Info("AI operation succeeded after retry",
						"operation", operation,
						"total_attempts", attempts)
				}
				return result, nil
			}

			// Don't retry on certain errors (auth, invalid input, etc.)
			if !g.isRetryableError(err) {
				g.logger.Debug("Error is not retryable, stopping retry attempts",
					"operation", operation,
					"error", err.Error())
				return nil, backoff.Permanent(err)
			}
			return nil, err
		},
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(*g.config.MaxRetries)), ctx),
		func(err error, wait time.Duration) {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"wait", wait.String(),
				"max_retries", *g.config.MaxRetries,
				"error", err.Error())
		},
	)
	if err != nil {
		// Log final failure
		g.logger.LogError(err, "AI operation failed after all retry attempts",
			"operation", operation,
			"total_attempts", attempts)
		return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, *g.config.MaxRetries, err)
	}

	return result, nil
}

// isRetryableError determines if an error should trigger a retry
func (g *GeminiProvider) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Check for network errors (timeouts, connection issues)
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return true // Retry on timeouts
		}
		// Consider other network errors retryable (e.g., connection refused)
		return true
	}

	// Check for Google API errors (HTTP status codes)
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// executeAIOperation is a generic helper to run AI operations with common tracing, circuit breaker, and parsing logic.
func executeAIOperation[Out any](
	g *GeminiProvider,
	ctx context.Context,
	operationName string,
	contents []*genai.Content,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	tracer := otel.Tracer("prepcoach.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()

	// Set base attributes
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, contents, genaiConfig)
		})
	})

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, prepcoachErrors.NewAIError(prepcoachErrors.ErrCodeAIServiceFailed, "Failed to generate content for "+operationName, err)
	}

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, prepcoachErrors.NewAIError("AI_RESPONSE_PARSE_FAILED", "Failed to parse AI response for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, tokenUsage, nil
}

// audioContents builds the multimodal request payload for operations that
// attach a recording alongside the instruction text.
func audioContents(prompt string, audio []byte, mimeType string) []*genai.Content {
	return []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(audio, mimeType),
		}, genai.RoleUser),
	}
}

// AnalyzeJob implements AIProvider interface for job description analysis
func (g *GeminiProvider) AnalyzeJob(ctx context.Context, input types.AnalyzeJobInput) (types.JobExtraction, *TokenUsage, error) {
	systemPrompt, userPrompt := g.getPromptsForAnalyze(input.JobDescription)
	config := g.buildAnalyzeSchema()

	output, tokenUsage, err := executeAIOperation[types.JobExtraction](
		g,
		ctx,
		"analyze_job",
		genai.Text(userPrompt),
		systemPrompt,
		config,
		attribute.Int("input.job_length", len(input.JobDescription)),
	)

	if err != nil {
		return types.JobExtraction{}, nil, err
	}

	// Add operation-specific success metrics to the span created by the helper
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("skills_count", len(output.Skills)),
			attribute.Int("technologies_count", len(output.Technologies)),
		)
	}

	return output, tokenUsage, nil
}

// GenerateQuestion implements AIProvider interface for question generation
func (g *GeminiProvider) GenerateQuestion(ctx context.Context, input types.GenerateQuestionInput) (types.GeneratedQuestion, *TokenUsage, error) {
	systemPrompt, userPrompt := g.getPromptsForQuestion(input)
	config := g.buildQuestionSchema()

	output, tokenUsage, err := executeAIOperation[types.GeneratedQuestion](
		g,
		ctx,
		"generate_question",
		genai.Text(userPrompt),
		systemPrompt,
		config,
		attribute.String("input.competency", input.Competency),
		attribute.String("input.difficulty", input.Difficulty),
	)

	if err != nil {
		return types.GeneratedQuestion{}, nil, err
	}

	// Add operation-specific success metrics to the span created by the helper
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("output.question_length", len(output.QuestionText)),
		)
	}

	return output, tokenUsage, nil
}

// EvaluateAnswer implements AIProvider interface for answer content evaluation
func (g *GeminiProvider) EvaluateAnswer(ctx context.Context, input types.EvaluateAnswerInput) (types.ContentEvaluation, *TokenUsage, error) {
	systemPrompt, userPrompt := g.getPromptsForEvaluate(input)
	config := g.buildEvaluateSchema()

	output, tokenUsage, err := executeAIOperation[types.ContentEvaluation](
		g,
		ctx,
		"evaluate_answer",
		genai.Text(userPrompt),
		systemPrompt,
		config,
		attribute.String("input.competency", input.Competency),
		attribute.Int("input.answer_length", len(input.AnswerText)),
	)

	if err != nil {
		return types.ContentEvaluation{}, nil, err
	}

	// Add operation-specific success metrics to the span created by the helper
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("content.score", output.Score),
		)
	}

	return output, tokenUsage, nil
}

// TranscribeAudio implements AIProvider interface for speech transcription
func (g *GeminiProvider) TranscribeAudio(ctx context.Context, input types.TranscribeAudioInput) (types.Transcript, *TokenUsage, error) {
	systemPrompt, userPrompt := g.getPromptsForTranscribe()
	config := g.buildTranscribeSchema()

	output, tokenUsage, err := executeAIOperation[types.Transcript](
		g,
		ctx,
		"transcribe_audio",
		audioContents(userPrompt, input.Audio, input.MIMEType),
		systemPrompt,
		config,
		attribute.Int("input.audio_bytes", len(input.Audio)),
		attribute.String("input.mime_type", input.MIMEType),
	)

	if err != nil {
		return types.Transcript{}, nil, err
	}

	// Add operation-specific success metrics to the span created by the helper
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("output.transcript_length", len(output.Text)),
		)
	}

	return output, tokenUsage, nil
}

// AnalyzeDelivery implements AIProvider interface for vocal delivery analysis
func (g *GeminiProvider) AnalyzeDelivery(ctx context.Context, input types.AnalyzeDeliveryInput) (types.DeliveryEvaluation, *TokenUsage, error) {
	systemPrompt, userPrompt := g.getPromptsForDelivery(input)
	config := g.buildDeliverySchema()

	output, tokenUsage, err := executeAIOperation[types.DeliveryEvaluation](
		g,
		ctx,
		"analyze_delivery",
		audioContents(userPrompt, input.Audio, input.MIMEType),
		systemPrompt,
		config,
		attribute.Int("input.audio_bytes", len(input.Audio)),
		attribute.String("input.competency", input.Competency),
	)

	if err != nil {
		return types.DeliveryEvaluation{}, nil, err
	}

	// Add operation-specific success metrics to the span created by the helper
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("delivery.score", output.OverallScore),
		)
	}

	return output, tokenUsage, nil
}

// SynthesizeEvaluation implements AIProvider interface for combining content and delivery verdicts
func (g *GeminiProvider) SynthesizeEvaluation(ctx context.Context, input types.SynthesizeEvaluationInput) (types.SynthesisOutput, *TokenUsage, error) {
	systemPrompt, userPrompt := g.getPromptsForSynthesize(input)
	config := g.buildSynthesizeSchema()

	output, tokenUsage, err := executeAIOperation[types.SynthesisOutput](
		g,
		ctx,
		"synthesize_evaluation",
		genai.Text(userPrompt),
		systemPrompt,
		config,
		attribute.String("input.competency", input.Competency),
		attribute.Float64("input.content_weight", input.ContentWeight),
	)

	if err != nil {
		return types.SynthesisOutput{}, nil, err
	}

	// Add operation-specific success metrics to the span created by the helper
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Float64("overall.score", output.OverallScore),
		)
	}

	return output, tokenUsage, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetStats(),
	}

	// Overall health - both breakers must be healthy
	aiHealthy := g.circuitBreaker.IsHealthy()
	modelHealthy := g.modelBreaker.IsHealthy()
	stats["overall_healthy"] = aiHealthy && modelHealthy

	return stats
}

// Close implements AIProvider interface
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	// Probably needed in streaming mode
	return nil
}

// getPromptsForAnalyze returns system and user prompts for job analysis
func (g *GeminiProvider) getPromptsForAnalyze(jobDescription string) (string, string) {
	// Get prompts from config or use defaults
	systemPrompt := g.getSystemPrompt("analyze")
	userPrompt := g.getUserPrompt("analyze")

	// Format user prompt with dynamic content
	formattedUserPrompt := fmt.Sprintf(userPrompt, jobDescription)

	return systemPrompt, formattedUserPrompt
}

// getPromptsForQuestion returns system and user prompts for question generation
func (g *GeminiProvider) getPromptsForQuestion(input types.GenerateQuestionInput) (string, string) {
	// Get prompts from config or use defaults
	systemPrompt := g.getSystemPrompt("question")
	userPrompt := g.getUserPrompt("question")

	// Format user prompt with dynamic content
	formattedUserPrompt := fmt.Sprintf(userPrompt,
		input.JobTitle,
		input.Industry,
		input.Competency,
		input.SubCompetency,
		input.Difficulty,
	)

	return systemPrompt, formattedUserPrompt
}

// getPromptsForEvaluate returns system and user prompts for answer evaluation
func (g *GeminiProvider) getPromptsForEvaluate(input types.EvaluateAnswerInput) (string, string) {
	// Get prompts from config or use defaults
	systemPrompt := g.getSystemPrompt("evaluate")
	userPrompt := g.getUserPrompt("evaluate")

	// Format user prompt with dynamic content
	formattedUserPrompt := fmt.Sprintf(userPrompt,
		input.QuestionText,
		input.AnswerText,
		input.Competency,
		input.SubCompetency,
		input.Industry,
		input.JobTitle,
	)

	return systemPrompt, formattedUserPrompt
}

// getPromptsForTranscribe returns system and user prompts for transcription.
// The transcription instruction carries no dynamic content; the audio rides
// along as a separate part.
func (g *GeminiProvider) getPromptsForTranscribe() (string, string) {
	systemPrompt := g.getSystemPrompt("transcribe")
	userPrompt := g.getUserPrompt("transcribe")

	return systemPrompt, userPrompt
}

// getPromptsForDelivery returns system and user prompts for delivery analysis
func (g *GeminiProvider) getPromptsForDelivery(input types.AnalyzeDeliveryInput) (string, string) {
	// Get prompts from config or use defaults
	systemPrompt := g.getSystemPrompt("delivery")
	userPrompt := g.getUserPrompt("delivery")

	style := input.ExpectedStyle
	if style == "" {
		style = "Professional, clear, and confident communication"
	}

	// Format user prompt with dynamic content
	formattedUserPrompt := fmt.Sprintf(userPrompt,
		input.QuestionText,
		input.Competency,
		input.Industry,
		style,
	)

	return systemPrompt, formattedUserPrompt
}

// getPromptsForSynthesize returns system and user prompts for evaluation synthesis
func (g *GeminiProvider) getPromptsForSynthesize(input types.SynthesizeEvaluationInput) (string, string) {
	// Get prompts from config or use defaults
	systemPrompt := g.getSystemPrompt("synthesize")
	userPrompt := g.getUserPrompt("synthesize")

	// Format user prompt with dynamic content
	formattedUserPrompt := fmt.Sprintf(userPrompt,
		input.QuestionText,
		input.Competency,
		input.Industry,
		fmt.Sprintf("%.0f%%", input.ContentWeight*100),
		fmt.Sprintf("%.0f%%", input.DeliveryWeight*100),
		input.Transcript,
		formatContentSection(input.Content),
		formatDeliverySection(input.Delivery),
	)

	return systemPrompt, formattedUserPrompt
}

// formatContentSection renders a content evaluation as plain text for the synthesis prompt
func formatContentSection(content types.ContentEvaluation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d/10\n", content.Score)
	fmt.Fprintf(&b, "Assessment: %s\n", content.OverallAssessment)
	if len(content.Strengths) > 0 {
		fmt.Fprintf(&b, "Strengths: %s\n", strings.Join(content.Strengths, "; "))
	}
	if len(content.Improvements) > 0 {
		fmt.Fprintf(&b, "Improvements: %s\n", strings.Join(content.Improvements, "; "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatDeliverySection renders a delivery evaluation as plain text for the synthesis prompt
func formatDeliverySection(delivery types.DeliveryEvaluation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d/10\n", delivery.OverallScore)
	fmt.Fprintf(&b, "Assessment: %s\n", delivery.DeliveryAssessment)
	for _, axis := range types.DeliveryAxes {
		if detail, ok := delivery.DetailedScores[axis]; ok {
			fmt.Fprintf(&b, "- %s: %d/10 (%s)\n", axis, detail.Score, detail.Feedback)
		}
	}
	if len(delivery.Improvements) > 0 {
		fmt.Fprintf(&b, "Improvements: %s\n", strings.Join(delivery.Improvements, "; "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// AIOperationResult holds the result of an AI operation including token usage
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

// getAIModelCheckTimeout returns the configured AI model check timeout
func getAIModelCheckTimeout() time.Duration {
	// Use default timeout since we don't have access to config here
	// This function should be refactored to accept timeout as parameter
	// Fallback to default
	return 10 * time.Second
}
