package common

import (
	"fmt"
	"slices"

	"prepcoach/internal/types"
)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// GetSupportedFormats returns the list of supported formats
func GetSupportedFormats(supportedFormats []string) []string {
	return supportedFormats
}

// ValidDifficulties lists the accepted question difficulty levels.
var ValidDifficulties = []string{types.DifficultyEasy, types.DifficultyMedium, types.DifficultyHard}

// ValidateDifficulty validates a difficulty flag value. Empty is accepted
// and means the evaluator's default applies.
func ValidateDifficulty(difficulty string) error {
	if difficulty == "" {
		return nil
	}

	if slices.Contains(ValidDifficulties, difficulty) {
		return nil
	}

	return fmt.Errorf("invalid difficulty '%s'. Valid difficulties: %v",
		difficulty, ValidDifficulties)
}
