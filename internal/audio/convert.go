package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"strings"

	"prepcoach/internal/errors"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// convertToWAV decodes an unrecognized container to 16-bit mono PCM at the
// configured sample rate and wraps the samples in a RIFF/WAVE header. The
// whole conversion runs under the configured deadline.
func (p *Processor) convertToWAV(ctx context.Context, data []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.ConvertTimeout)
	defer cancel()

	var pcm, stderr bytes.Buffer
	stream := ffmpeg.Input("pipe:").
		Output("pipe:", ffmpeg.KwArgs{
			"f":  "s16le",
			"ar": p.cfg.SampleRate,
			"ac": 1,
		}).
		WithInput(bytes.NewReader(data)).
		WithOutput(&pcm, &stderr)
	if p.cfg.FFmpegPath != "" {
		stream = stream.SetFfmpegPath(p.cfg.FFmpegPath)
	}

	done := make(chan error, 1)
	go func() {
		done <- stream.Run()
	}()

	select {
	case err := <-done:
		if err != nil {
			detail := strings.TrimSpace(stderr.String())
			if detail == "" {
				detail = err.Error()
			}
			return nil, errors.NewAudioError(errors.ErrCodeAudioConversion,
				fmt.Sprintf("ffmpeg decode failed: %s", truncateDetail(detail)), err)
		}
	case <-ctx.Done():
		return nil, errors.NewAudioError(errors.ErrCodeAudioConversion,
			"Audio conversion timed out", ctx.Err())
	}

	if pcm.Len() == 0 {
		return nil, errors.NewAudioError(errors.ErrCodeAudioConversion,
			"ffmpeg produced no audio data", nil)
	}

	return wrapPCMInWAV(pcm.Bytes(), p.cfg.SampleRate, 1), nil
}

// wrapPCMInWAV prepends a canonical 44-byte RIFF/WAVE header to raw
// little-endian 16-bit PCM samples.
func wrapPCMInWAV(pcm []byte, sampleRate, channels int) []byte {
	const bitsPerSample = 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	header := make([]byte, 44, 44+len(pcm))
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(pcm)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(pcm)))

	return append(header, pcm...)
}

// truncateDetail keeps ffmpeg stderr from flooding error messages
func truncateDetail(detail string) string {
	const limit = 300
	if len(detail) <= limit {
		return detail
	}
	return detail[:limit] + "..."
}
