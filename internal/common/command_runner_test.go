package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"prepcoach/internal/ai"
	"prepcoach/internal/errors"
	"prepcoach/internal/types"
)

func testLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return logger
}

func TestRunAICommand(t *testing.T) {
	dir := t.TempDir()
	jobFile := filepath.Join(dir, "job.txt")
	if err := os.WriteFile(jobFile, []byte("Senior Backend Engineer building Go services."), 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	outFile := filepath.Join(dir, "profile.json")

	cmdConfig := CommandConfig{OutputFile: outFile, OutputFormat: "json"}

	createInput := func(contents []string) (types.AnalyzeJobInput, error) {
		if len(contents) != 1 {
			return types.AnalyzeJobInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return types.AnalyzeJobInput{JobDescription: contents[0]}, nil
	}

	operation := func(ctx context.Context, input types.AnalyzeJobInput) (*types.JobProfile, *ai.TokenUsage, error) {
		if input.JobDescription == "" {
			t.Error("Expected job description to be populated from the file")
		}
		return &types.JobProfile{JobTitle: "Backend Engineer", Industry: "technology", Status: types.StatusOk},
			&ai.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}, nil
	}

	logDetails := func(input types.AnalyzeJobInput, cfg CommandConfig) {}

	err := RunAICommand(context.Background(), testLogger(t), cmdConfig, []string{jobFile}, createInput, operation, logDetails)
	if err != nil {
		t.Fatalf("RunAICommand failed: %v", err)
	}

	written, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	if !strings.Contains(string(written), `"jobTitle": "Backend Engineer"`) {
		t.Errorf("Output missing formatted profile:\n%s", string(written))
	}
}

func TestRunAICommandMissingFile(t *testing.T) {
	cmdConfig := CommandConfig{OutputFormat: "json"}

	createInput := func(contents []string) (types.AnalyzeJobInput, error) {
		return types.AnalyzeJobInput{}, nil
	}
	operation := func(ctx context.Context, input types.AnalyzeJobInput) (*types.JobProfile, *ai.TokenUsage, error) {
		t.Error("Operation must not run when file validation fails")
		return nil, nil, nil
	}
	logDetails := func(input types.AnalyzeJobInput, cfg CommandConfig) {}

	missing := filepath.Join(t.TempDir(), "missing.txt")
	err := RunAICommand(context.Background(), testLogger(t), cmdConfig, []string{missing}, createInput, operation, logDetails)
	if err == nil {
		t.Fatal("Expected error for missing input file")
	}
}

func TestRunAICommandOperationError(t *testing.T) {
	dir := t.TempDir()
	jobFile := filepath.Join(dir, "job.txt")
	if err := os.WriteFile(jobFile, []byte("content"), 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	opErr := fmt.Errorf("model unavailable")
	operation := func(ctx context.Context, input types.AnalyzeJobInput) (*types.JobProfile, *ai.TokenUsage, error) {
		return nil, nil, opErr
	}

	err := RunAICommand(context.Background(), testLogger(t), CommandConfig{OutputFormat: "json"}, []string{jobFile},
		func(contents []string) (types.AnalyzeJobInput, error) {
			return types.AnalyzeJobInput{JobDescription: contents[0]}, nil
		},
		operation,
		func(input types.AnalyzeJobInput, cfg CommandConfig) {})
	if err != opErr {
		t.Fatalf("Expected the operation error to surface, got: %v", err)
	}
}

func TestRunAudioCommand(t *testing.T) {
	dir := t.TempDir()
	audioFile := filepath.Join(dir, "answer.wav")
	if err := os.WriteFile(audioFile, make([]byte, 2048), 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	outFile := filepath.Join(dir, "transcript.txt")

	cmdConfig := CommandConfig{OutputFile: outFile, OutputFormat: "text"}

	createInput := func(audio []byte, mimeType string) (types.TranscribeAudioInput, error) {
		return types.TranscribeAudioInput{Audio: audio, MIMEType: mimeType}, nil
	}

	operation := func(ctx context.Context, input types.TranscribeAudioInput) (*types.TranscriptionResult, *ai.TokenUsage, error) {
		if input.MIMEType != "audio/wav" {
			t.Errorf("Expected MIME type 'audio/wav', got '%s'", input.MIMEType)
		}
		if len(input.Audio) != 2048 {
			t.Errorf("Expected 2048 audio bytes, got %d", len(input.Audio))
		}
		return &types.TranscriptionResult{
			Text:       "I led the rollback and restored service.",
			WordCount:  8,
			Confidence: 0.8,
			Valid:      true,
			Status:     types.StatusOk,
		}, nil, nil
	}

	logDetails := func(input types.TranscribeAudioInput, cfg CommandConfig) {}

	err := RunAudioCommand(context.Background(), testLogger(t), cmdConfig, audioFile, createInput, operation, logDetails)
	if err != nil {
		t.Fatalf("RunAudioCommand failed: %v", err)
	}

	written, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	if !strings.Contains(string(written), "=== TRANSCRIPTION ===") {
		t.Errorf("Output missing transcription section:\n%s", string(written))
	}
	if !strings.Contains(string(written), "Valid: yes") {
		t.Errorf("Output missing validity line:\n%s", string(written))
	}
}

func TestRunAudioCommandRejectsUnsupportedFile(t *testing.T) {
	dir := t.TempDir()
	textFile := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(textFile, []byte("not audio"), 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	operation := func(ctx context.Context, input types.TranscribeAudioInput) (*types.TranscriptionResult, *ai.TokenUsage, error) {
		t.Error("Operation must not run for an unsupported file")
		return nil, nil, nil
	}

	err := RunAudioCommand(context.Background(), testLogger(t), CommandConfig{OutputFormat: "text"}, textFile,
		func(audio []byte, mimeType string) (types.TranscribeAudioInput, error) {
			return types.TranscribeAudioInput{Audio: audio, MIMEType: mimeType}, nil
		},
		operation,
		func(input types.TranscribeAudioInput, cfg CommandConfig) {})
	if err == nil {
		t.Fatal("Expected error for unsupported audio file")
	}
}
