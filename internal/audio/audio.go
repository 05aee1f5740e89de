// Package audio validates uploaded recordings and normalizes them into a
// container the AI provider accepts. Recognized formats pass through
// untouched; anything else is decoded to 16 kHz mono WAV with ffmpeg.
package audio

import (
	"context"

	"prepcoach/internal/config"
	"prepcoach/internal/errors"
)

// minValidBytes is the hard floor below which a payload cannot be a recording
const minValidBytes = 100

// Processor prepares uploaded recordings for multimodal AI requests
type Processor struct {
	cfg    config.AudioConfig
	logger *errors.Logger
}

// PreparedAudio is a recording ready to attach to an AI request
type PreparedAudio struct {
	Data            []byte
	MIMEType        string
	Format          Format
	Converted       bool
	DurationSeconds float64
}

// NewProcessor creates an audio processor with the given configuration
func NewProcessor(cfg config.AudioConfig, logger *errors.Logger) *Processor {
	return &Processor{cfg: cfg, logger: logger}
}

// Prepare validates raw upload bytes and returns audio ready for the AI
// provider. The sniffed container wins over the declared content type;
// the declared type is consulted only when sniffing fails.
func (p *Processor) Prepare(ctx context.Context, data []byte, declaredMIME string) (*PreparedAudio, error) {
	if len(data) < minValidBytes {
		return nil, errors.NewAudioError(errors.ErrCodeAudioTooShort,
			"Audio data too short to be a valid recording", nil)
	}
	if p.cfg.MaxUploadBytes > 0 && int64(len(data)) > p.cfg.MaxUploadBytes {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Audio upload exceeds the configured size limit", nil)
	}

	format := DetectFormat(data)
	if format == FormatUnknown {
		format = FormatFromMIME(declaredMIME)
	}

	if format == FormatUnknown {
		p.logger.Info("Unrecognized audio container, converting",
			"declared_mime", declaredMIME,
			"size_bytes", len(data))

		converted, err := p.convertToWAV(ctx, data)
		if err != nil {
			return nil, err
		}

		return &PreparedAudio{
			Data:            converted,
			MIMEType:        FormatWAV.MIMEType(),
			Format:          FormatWAV,
			Converted:       true,
			DurationSeconds: pcmDuration(len(converted)-wavHeaderSize, p.cfg.SampleRate),
		}, nil
	}

	return &PreparedAudio{
		Data:            data,
		MIMEType:        format.MIMEType(),
		Format:          format,
		DurationSeconds: EstimateDuration(len(data), format),
	}, nil
}

// wavHeaderSize is the canonical RIFF/WAVE header length written by wrapPCMInWAV
const wavHeaderSize = 44

// pcmDuration is exact for freshly decoded 16-bit mono PCM
func pcmDuration(pcmBytes, sampleRate int) float64 {
	if sampleRate <= 0 || pcmBytes <= 0 {
		return 0
	}
	return float64(pcmBytes) / float64(sampleRate*2)
}
