package audio

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"testing"
	"time"

	"prepcoach/internal/config"
	"prepcoach/internal/errors"
)

var testLogger = errors.NewLogger(slog.LevelError)

func testProcessor() *Processor {
	return NewProcessor(config.AudioConfig{
		MaxUploadBytes: 10 * 1024 * 1024,
		MinBytes:       1000,
		FFmpegPath:     "ffmpeg",
		ConvertTimeout: 10 * time.Second,
		SampleRate:     16000,
	}, testLogger)
}

func TestPrepareRejectsTinyPayloads(t *testing.T) {
	p := testProcessor()

	_, err := p.Prepare(context.Background(), make([]byte, 50), "audio/webm")
	if err == nil {
		t.Fatal("Expected error for payload below the validity floor")
	}

	var appErr *errors.AppError
	if !stdErrors.As(err, &appErr) {
		t.Fatalf("Expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeAudioTooShort {
		t.Errorf("Expected code %s, got %s", errors.ErrCodeAudioTooShort, appErr.Code)
	}
}

func TestPrepareRejectsOversizedPayloads(t *testing.T) {
	p := NewProcessor(config.AudioConfig{
		MaxUploadBytes: 1024,
		SampleRate:     16000,
	}, testLogger)

	data := make([]byte, 2048)
	copy(data, []byte{0x1A, 0x45, 0xDF, 0xA3})

	_, err := p.Prepare(context.Background(), data, "audio/webm")
	if err == nil {
		t.Fatal("Expected error for payload above the upload limit")
	}

	var appErr *errors.AppError
	if !stdErrors.As(err, &appErr) {
		t.Fatalf("Expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidRequest {
		t.Errorf("Expected code %s, got %s", errors.ErrCodeInvalidRequest, appErr.Code)
	}
}

func TestPreparePassesThroughRecognizedFormats(t *testing.T) {
	p := testProcessor()

	data := make([]byte, 8000)
	copy(data, []byte{0x1A, 0x45, 0xDF, 0xA3})

	prepared, err := p.Prepare(context.Background(), data, "application/octet-stream")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if prepared.Converted {
		t.Error("Recognized container should pass through without conversion")
	}
	if prepared.Format != FormatWebM {
		t.Errorf("Expected format webm, got %v", prepared.Format)
	}
	if prepared.MIMEType != "audio/webm" {
		t.Errorf("Expected sniffed MIME to win, got %q", prepared.MIMEType)
	}
	if len(prepared.Data) != len(data) {
		t.Errorf("Pass-through should keep payload size, got %d want %d", len(prepared.Data), len(data))
	}
	if prepared.DurationSeconds != 2.0 {
		t.Errorf("Expected webm duration estimate 2.0s, got %f", prepared.DurationSeconds)
	}
}

func TestPrepareTrustsDeclaredMIMEWhenSniffFails(t *testing.T) {
	p := testProcessor()

	// No recognizable signature, but the client declares a supported type
	data := make([]byte, 4000)
	for i := range data {
		data[i] = byte(i % 251)
	}
	data[0] = 0x00
	data[1] = 0x00

	prepared, err := p.Prepare(context.Background(), data, "audio/mpeg")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if prepared.Converted {
		t.Error("Declared supported type should avoid conversion")
	}
	if prepared.Format != FormatMP3 {
		t.Errorf("Expected format mp3 from declared type, got %v", prepared.Format)
	}
}

func TestPCMDuration(t *testing.T) {
	tests := []struct {
		name       string
		pcmBytes   int
		sampleRate int
		expected   float64
	}{
		{"OneSecondAt16k", 32000, 16000, 1.0},
		{"HalfSecond", 16000, 16000, 0.5},
		{"ZeroBytes", 0, 16000, 0},
		{"BadRate", 32000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pcmDuration(tt.pcmBytes, tt.sampleRate); got != tt.expected {
				t.Errorf("pcmDuration(%d, %d) = %f, want %f", tt.pcmBytes, tt.sampleRate, got, tt.expected)
			}
		})
	}
}
