package audio

import (
	"bytes"
	"strings"
)

// Format identifies a recognized audio container
type Format string

const (
	FormatWebM    Format = "webm"
	FormatWAV     Format = "wav"
	FormatMP3     Format = "mp3"
	FormatOgg     Format = "ogg"
	FormatM4A     Format = "m4a"
	FormatFLAC    Format = "flac"
	FormatUnknown Format = "unknown"
)

// ebmlMagic opens every WebM/Matroska container
var ebmlMagic = []byte{0x1A, 0x45, 0xDF, 0xA3}

// DetectFormat sniffs the container from the leading bytes. Browser uploads
// routinely carry wrong or missing content types, so the bytes are the
// authority and the declared MIME type is only a tiebreaker.
func DetectFormat(data []byte) Format {
	if len(data) < 12 {
		return FormatUnknown
	}

	switch {
	case bytes.HasPrefix(data, ebmlMagic):
		return FormatWebM
	case bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV
	case bytes.HasPrefix(data, []byte("ID3")):
		return FormatMP3
	case data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// Bare MPEG frame sync without an ID3 tag
		return FormatMP3
	case bytes.HasPrefix(data, []byte("OggS")):
		return FormatOgg
	case bytes.Equal(data[4:8], []byte("ftyp")):
		return FormatM4A
	case bytes.HasPrefix(data, []byte("fLaC")):
		return FormatFLAC
	}

	return FormatUnknown
}

// MIMEType returns the canonical MIME type for the format
func (f Format) MIMEType() string {
	switch f {
	case FormatWebM:
		return "audio/webm"
	case FormatWAV:
		return "audio/wav"
	case FormatMP3:
		return "audio/mpeg"
	case FormatOgg:
		return "audio/ogg"
	case FormatM4A:
		return "audio/mp4"
	case FormatFLAC:
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}

// FormatFromMIME maps a declared content type to a Format. Codec suffixes
// ("audio/webm;codecs=opus") and legacy aliases are tolerated.
func FormatFromMIME(mimeType string) Format {
	base := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(base, ";"); idx != -1 {
		base = strings.TrimSpace(base[:idx])
	}

	switch base {
	case "audio/webm", "video/webm":
		return FormatWebM
	case "audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave":
		return FormatWAV
	case "audio/mpeg", "audio/mp3", "audio/mpeg3":
		return FormatMP3
	case "audio/ogg", "application/ogg", "audio/opus":
		return FormatOgg
	case "audio/mp4", "audio/m4a", "audio/x-m4a", "audio/aac":
		return FormatM4A
	case "audio/flac", "audio/x-flac":
		return FormatFLAC
	default:
		return FormatUnknown
	}
}

// EstimateDuration approximates clip length in seconds from size alone.
// The per-format divisors assume typical voice-recording bitrates; the
// result feeds plausibility checks, never billing or playback.
func EstimateDuration(size int, format Format) float64 {
	if size <= 0 {
		return 0
	}

	var bytesPerSecond float64
	switch format {
	case FormatWAV:
		bytesPerSecond = 16000
	case FormatMP3:
		bytesPerSecond = 2000
	case FormatWebM:
		bytesPerSecond = 4000
	default:
		bytesPerSecond = 8000
	}

	return float64(size) / bytesPerSecond
}
