package audio

import (
	"bytes"
	"testing"
)

// padTo extends a signature with zero bytes so it clears the sniffing minimum
func padTo(prefix []byte, size int) []byte {
	data := make([]byte, size)
	copy(data, prefix)
	return data
}

func TestDetectFormat(t *testing.T) {
	wavHeader := append([]byte("RIFF"), 0x24, 0x00, 0x00, 0x00)
	wavHeader = append(wavHeader, []byte("WAVE")...)

	m4aHeader := append([]byte{0x00, 0x00, 0x00, 0x20}, []byte("ftypM4A ")...)

	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{
			name:     "WebMByEBMLMagic",
			data:     padTo([]byte{0x1A, 0x45, 0xDF, 0xA3}, 32),
			expected: FormatWebM,
		},
		{
			name:     "WAVByRIFFHeader",
			data:     padTo(wavHeader, 32),
			expected: FormatWAV,
		},
		{
			name:     "MP3ByID3Tag",
			data:     padTo([]byte("ID3"), 32),
			expected: FormatMP3,
		},
		{
			name:     "MP3ByFrameSync",
			data:     padTo([]byte{0xFF, 0xFB, 0x90, 0x00}, 32),
			expected: FormatMP3,
		},
		{
			name:     "OggByCapturePattern",
			data:     padTo([]byte("OggS"), 32),
			expected: FormatOgg,
		},
		{
			name:     "M4AByFtypBox",
			data:     padTo(m4aHeader, 32),
			expected: FormatM4A,
		},
		{
			name:     "FLACByMagic",
			data:     padTo([]byte("fLaC"), 32),
			expected: FormatFLAC,
		},
		{
			name:     "UnknownSignature",
			data:     padTo([]byte{0x01, 0x02, 0x03, 0x04}, 32),
			expected: FormatUnknown,
		},
		{
			name:     "TooShortToSniff",
			data:     []byte{0x1A, 0x45, 0xDF},
			expected: FormatUnknown,
		},
		{
			name:     "RIFFWithoutWAVE",
			data:     padTo([]byte("RIFFxxxxAVI "), 32),
			expected: FormatUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.data); got != tt.expected {
				t.Errorf("DetectFormat() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFormatFromMIME(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		expected Format
	}{
		{"CanonicalWebM", "audio/webm", FormatWebM},
		{"WebMWithCodecSuffix", "audio/webm;codecs=opus", FormatWebM},
		{"VideoWebMFromBrowserRecorder", "video/webm", FormatWebM},
		{"LegacyWAVAlias", "audio/x-wav", FormatWAV},
		{"MP3Alias", "audio/mp3", FormatMP3},
		{"UppercaseNormalized", "AUDIO/MPEG", FormatMP3},
		{"OpusAsOgg", "audio/opus", FormatOgg},
		{"M4AAlias", "audio/x-m4a", FormatM4A},
		{"FLAC", "audio/flac", FormatFLAC},
		{"Unknown", "text/plain", FormatUnknown},
		{"Empty", "", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatFromMIME(tt.mimeType); got != tt.expected {
				t.Errorf("FormatFromMIME(%q) = %v, want %v", tt.mimeType, got, tt.expected)
			}
		})
	}
}

func TestFormatMIMEType(t *testing.T) {
	tests := []struct {
		format   Format
		expected string
	}{
		{FormatWebM, "audio/webm"},
		{FormatWAV, "audio/wav"},
		{FormatMP3, "audio/mpeg"},
		{FormatOgg, "audio/ogg"},
		{FormatM4A, "audio/mp4"},
		{FormatFLAC, "audio/flac"},
		{FormatUnknown, "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := tt.format.MIMEType(); got != tt.expected {
			t.Errorf("%v.MIMEType() = %q, want %q", tt.format, got, tt.expected)
		}
	}
}

func TestEstimateDuration(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		format   Format
		expected float64
	}{
		{"WAVTwoSeconds", 32000, FormatWAV, 2.0},
		{"MP3TwoSeconds", 4000, FormatMP3, 2.0},
		{"WebMTwoSeconds", 8000, FormatWebM, 2.0},
		{"UnknownOneSecond", 8000, FormatUnknown, 1.0},
		{"OggUsesDefaultRate", 16000, FormatOgg, 2.0},
		{"EmptyPayload", 0, FormatWAV, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateDuration(tt.size, tt.format); got != tt.expected {
				t.Errorf("EstimateDuration(%d, %v) = %f, want %f", tt.size, tt.format, got, tt.expected)
			}
		})
	}
}

func TestWrapPCMInWAV(t *testing.T) {
	pcm := bytes.Repeat([]byte{0x01, 0x02}, 800) // 1600 bytes of samples
	wrapped := wrapPCMInWAV(pcm, 16000, 1)

	if len(wrapped) != wavHeaderSize+len(pcm) {
		t.Fatalf("Expected %d bytes, got %d", wavHeaderSize+len(pcm), len(wrapped))
	}

	// The wrapped result must sniff as WAV
	if got := DetectFormat(wrapped); got != FormatWAV {
		t.Errorf("Wrapped PCM should sniff as WAV, got %v", got)
	}

	// Spot-check the header fields the provider cares about
	if !bytes.Equal(wrapped[0:4], []byte("RIFF")) {
		t.Error("Missing RIFF chunk ID")
	}
	if !bytes.Equal(wrapped[36:40], []byte("data")) {
		t.Error("Missing data chunk ID")
	}

	riffSize := int(uint32(wrapped[4]) | uint32(wrapped[5])<<8 | uint32(wrapped[6])<<16 | uint32(wrapped[7])<<24)
	if riffSize != 36+len(pcm) {
		t.Errorf("RIFF chunk size = %d, want %d", riffSize, 36+len(pcm))
	}

	sampleRate := int(uint32(wrapped[24]) | uint32(wrapped[25])<<8 | uint32(wrapped[26])<<16 | uint32(wrapped[27])<<24)
	if sampleRate != 16000 {
		t.Errorf("Sample rate = %d, want 16000", sampleRate)
	}

	byteRate := int(uint32(wrapped[28]) | uint32(wrapped[29])<<8 | uint32(wrapped[30])<<16 | uint32(wrapped[31])<<24)
	if byteRate != 32000 {
		t.Errorf("Byte rate = %d, want 32000", byteRate)
	}

	dataSize := int(uint32(wrapped[40]) | uint32(wrapped[41])<<8 | uint32(wrapped[42])<<16 | uint32(wrapped[43])<<24)
	if dataSize != len(pcm) {
		t.Errorf("Data chunk size = %d, want %d", dataSize, len(pcm))
	}
}
