// Package transcript converts candidate audio into cleaned, validated
// text. Recordings below the configured minimum are rejected before any
// remote call, and every failure path yields a complete failed result
// with retry guidance instead of an error.
package transcript

import (
	"context"
	"math"
	"strings"

	"prepcoach/internal/ai"
	"prepcoach/internal/audio"
	"prepcoach/internal/config"
	"prepcoach/internal/errors"
	"prepcoach/internal/types"
)

// Guidance messages attached to failed transcriptions, picked by failure
// class.
const (
	msgTooShort    = "Audio recording was too short. Please record for at least 3-5 seconds."
	msgLowQuality  = "Unable to process audio. Please ensure good audio quality and try again."
	msgUnavailable = "Transcription service temporarily unavailable. Please try again or use text input."
)

// validationChecks is the number of independent quality checks a
// transcript is scored against.
const validationChecks = 5

// transcriptionArtifacts are boilerplate strings the model sometimes
// wraps around the transcript. They are removed wherever they appear.
var transcriptionArtifacts = []string{
	"[TRANSCRIPTION]", "[END TRANSCRIPTION]",
	"**Transcribed text:**", "**Clean transcription:**",
	"Here is the transcription:", "The transcription is:",
	"Transcribed content:", "Audio transcription:",
	"The audio says:", "I hear:", "The speaker says:",
}

// Service transcribes recordings through the AI provider.
type Service struct {
	provider ai.AIProvider
	cfg      config.AudioConfig
	logger   *errors.Logger
}

func NewService(provider ai.AIProvider, cfg config.AudioConfig, logger *errors.Logger) *Service {
	return &Service{provider: provider, cfg: cfg, logger: logger}
}

// Transcribe converts a recording to text. Results are never partial: the
// caller gets either an ok result with confidence scoring or a failed
// result with a guidance message. The returned error is reserved for
// invalid use of the service itself and is currently always nil.
func (s *Service) Transcribe(ctx context.Context, data []byte, mimeType string) (*types.TranscriptionResult, *ai.TokenUsage, error) {
	if len(data) < s.cfg.MinBytes {
		s.logger.Info("Audio below transcription minimum, skipping remote call",
			"size_bytes", len(data), "min_bytes", s.cfg.MinBytes)
		return failedResult(msgTooShort), nil, nil
	}

	format := audio.FormatFromMIME(mimeType)
	duration := roundTenth(audio.EstimateDuration(len(data), format))

	s.logger.Debug("Starting transcription",
		"size_bytes", len(data), "mime_type", mimeType, "estimated_duration", duration)

	transcript, usage, err := s.provider.TranscribeAudio(ctx, types.TranscribeAudioInput{
		Audio:    data,
		MIMEType: mimeType,
	})
	if err != nil {
		s.logger.Warn("AI transcription failed", "error", err)
		return failedResult(failureMessage(len(data), err)), usage, nil
	}

	text := cleanupTranscript(transcript.Text)
	if text == "" {
		s.logger.Warn("AI transcription produced no text")
		return failedResult(msgLowQuality), usage, nil
	}

	confidence, valid := validateTranscript(text, duration)
	result := &types.TranscriptionResult{
		Text:            text,
		WordCount:       len(strings.Fields(text)),
		Confidence:      confidence,
		Valid:           valid,
		DurationSeconds: duration,
		Status:          types.StatusOk,
	}

	s.logger.Info("Transcription complete",
		"word_count", result.WordCount,
		"confidence", result.Confidence,
		"valid", result.Valid)

	return result, usage, nil
}

// cleanupTranscript strips model boilerplate, collapses whitespace, and
// appends a terminal period to unpunctuated text that looks like a
// complete thought.
func cleanupTranscript(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	for _, artifact := range transcriptionArtifacts {
		text = strings.ReplaceAll(text, artifact, "")
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}

	if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "?") &&
		len(strings.Fields(text)) > 2 {
		text += "."
	}
	return text
}

// validateTranscript scores the text against five independent checks and
// reports the passed fraction. A transcript is valid at confidence 0.6
// and above.
func validateTranscript(text string, duration float64) (float64, bool) {
	words := strings.Fields(text)
	wordCount := len(words)

	unique := make(map[string]struct{}, wordCount)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		unique[w] = struct{}{}
	}

	checks := []bool{
		wordCount >= 3,
		len(text) >= 10 && len(text) <= 2000,
		strings.ContainsAny(text, ".!?"),
		len(unique) > max(1, wordCount/3),
		duration > 1.0,
	}

	passed := 0
	for _, ok := range checks {
		if ok {
			passed++
		}
	}
	confidence := float64(passed) / float64(validationChecks)
	return confidence, confidence >= 0.6
}

// failureMessage classifies a transcription failure into user guidance.
func failureMessage(sizeBytes int, err error) string {
	if sizeBytes < 1024 {
		return msgTooShort
	}
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "audio") || strings.Contains(msg, "multimodal") {
			return msgLowQuality
		}
	}
	return msgUnavailable
}

func failedResult(message string) *types.TranscriptionResult {
	return &types.TranscriptionResult{
		Status:       types.StatusFailed,
		ErrorMessage: message,
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
