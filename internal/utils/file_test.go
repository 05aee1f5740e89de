package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "job.txt")
	if err := os.WriteFile(existing, []byte("Backend Engineer"), 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	tests := []struct {
		name        string
		filename    string
		expectError bool
	}{
		{name: "existing file", filename: existing, expectError: false},
		{name: "empty filename", filename: "", expectError: true},
		{name: "missing file", filename: filepath.Join(dir, "missing.txt"), expectError: true},
		{name: "directory", filename: dir, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputFile(tt.filename)
			if tt.expectError && err == nil {
				t.Errorf("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestValidateOutputFile(t *testing.T) {
	dir := t.TempDir()

	if err := ValidateOutputFile(""); err != nil {
		t.Errorf("Empty filename should mean stdout, got: %v", err)
	}

	nested := filepath.Join(dir, "reports", "out.json")
	if err := ValidateOutputFile(nested); err != nil {
		t.Fatalf("Expected nested directory to be created, got: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "reports")); err != nil {
		t.Errorf("Expected directory to exist: %v", err)
	}
}

func TestAudioMIMEType(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		expected  string
		supported bool
	}{
		{name: "wav", filename: "answer.wav", expected: "audio/wav", supported: true},
		{name: "uppercase extension", filename: "ANSWER.WAV", expected: "audio/wav", supported: true},
		{name: "mp3", filename: "clip.mp3", expected: "audio/mpeg", supported: true},
		{name: "webm", filename: "recording.webm", expected: "audio/webm", supported: true},
		{name: "ogg", filename: "take.ogg", expected: "audio/ogg", supported: true},
		{name: "m4a", filename: "memo.m4a", expected: "audio/mp4", supported: true},
		{name: "flac", filename: "take.flac", expected: "audio/flac", supported: true},
		{name: "text file", filename: "job.txt", supported: false},
		{name: "no extension", filename: "recording", supported: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mimeType, ok := AudioMIMEType(tt.filename)
			if ok != tt.supported {
				t.Fatalf("Expected supported=%v, got %v", tt.supported, ok)
			}
			if tt.supported && mimeType != tt.expected {
				t.Errorf("Expected MIME type '%s', got '%s'", tt.expected, mimeType)
			}
			if IsAudioFile(tt.filename) != tt.supported {
				t.Errorf("IsAudioFile disagrees with AudioMIMEType for %s", tt.filename)
			}
		})
	}
}

func TestSupportedAudioExtensions(t *testing.T) {
	extensions := SupportedAudioExtensions()
	if len(extensions) != 6 {
		t.Fatalf("Expected 6 extensions, got %d: %v", len(extensions), extensions)
	}
	// Sorted for stable error messages.
	for i := 1; i < len(extensions); i++ {
		if extensions[i-1] >= extensions[i] {
			t.Errorf("Extensions not sorted: %v", extensions)
		}
	}
}

func TestIsTextFile(t *testing.T) {
	tests := []struct {
		filename string
		expected bool
	}{
		{"job.txt", true},
		{"notes.md", true},
		{"README.markdown", true},
		{"answer.wav", false},
		{"archive.zip", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := IsTextFile(tt.filename); got != tt.expected {
				t.Errorf("IsTextFile(%s) = %v, want %v", tt.filename, got, tt.expected)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size     int64
		expected string
	}{
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5242880, "5.0 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatFileSize(tt.size); got != tt.expected {
				t.Errorf("FormatFileSize(%d) = '%s', want '%s'", tt.size, got, tt.expected)
			}
		})
	}
}
