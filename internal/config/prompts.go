package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	loadedPrompts     AllLoadedPrompts
	loadedPromptsOnce sync.Once
)

// LoadedPromptSet holds the file-loaded prompt pair for one operation
type LoadedPromptSet struct {
	System string
	User   string
}

// AllLoadedPrompts holds file-loaded prompts for every operation
type AllLoadedPrompts struct {
	Analyze    LoadedPromptSet
	Question   LoadedPromptSet
	Evaluate   LoadedPromptSet
	Transcribe LoadedPromptSet
	Delivery   LoadedPromptSet
	Synthesize LoadedPromptSet
}

// GetPromptsForOperation returns a copy of the file-loaded prompts for an operation type
func GetPromptsForOperation(operationType string) LoadedPromptSet {
	switch operationType {
	case "analyze":
		return loadedPrompts.Analyze
	case "question":
		return loadedPrompts.Question
	case "evaluate":
		return loadedPrompts.Evaluate
	case "transcribe":
		return loadedPrompts.Transcribe
	case "delivery":
		return loadedPrompts.Delivery
	case "synthesize":
		return loadedPrompts.Synthesize
	default:
		return LoadedPromptSet{}
	}
}

// GetLoadedPrompts returns the loaded prompt content in a thread-safe way
func GetLoadedPrompts() *AllLoadedPrompts {
	return &loadedPrompts
}

// promptSources enumerates every operation's effective prompt override
// (operation-level block with global fallback already applied) together with
// the loading target. The slice is rebuilt per call because the targets point
// into the package-level loadedPrompts.
func (c *Config) promptSources() []struct {
	operation string
	cfg       PromptConfig
	target    *LoadedPromptSet
} {
	return []struct {
		operation string
		cfg       PromptConfig
		target    *LoadedPromptSet
	}{
		{"analyze", c.GetAnalyzeConfig().CustomPrompts, &loadedPrompts.Analyze},
		{"question", c.GetQuestionConfig().CustomPrompts, &loadedPrompts.Question},
		{"evaluate", c.GetEvaluateConfig().CustomPrompts, &loadedPrompts.Evaluate},
		{"transcribe", c.GetTranscribeConfig().CustomPrompts, &loadedPrompts.Transcribe},
		{"delivery", c.GetDeliveryConfig().CustomPrompts, &loadedPrompts.Delivery},
		{"synthesize", c.GetSynthesizeConfig().CustomPrompts, &loadedPrompts.Synthesize},
	}
}

// validatePromptFiles validates that prompt files exist and are readable before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	validateFile := func(filePath, promptType, operation string) {
		if filePath == "" {
			return // No file specified, skip validation
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", promptType, operation, filePath))
			return
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", promptType, operation, absPath))
		}
	}

	for _, src := range c.promptSources() {
		validateFile(src.cfg.SystemFile, "system", src.operation)
		validateFile(src.cfg.UserFile, "user", src.operation)
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	// Initialize loaded prompts exactly once
	loadedPromptsOnce.Do(func() {
		loadedPrompts = AllLoadedPrompts{}
	})

	for _, src := range c.promptSources() {
		if src.cfg.SystemFile != "" {
			content, err := c.loadPromptFromFile(src.cfg.SystemFile, "system", src.operation)
			if err != nil {
				return fmt.Errorf("failed to load %s system prompt: %w", src.operation, err)
			}
			src.target.System = content
		}
		if src.cfg.UserFile != "" {
			content, err := c.loadPromptFromFile(src.cfg.UserFile, "user", src.operation)
			if err != nil {
				return fmt.Errorf("failed to load %s user prompt: %w", src.operation, err)
			}
			src.target.User = content
		}
	}

	c.logPromptLoadingSummary()

	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func (c *Config) loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	// Resolve relative paths
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	// Read file content
	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	// Validate content is not empty
	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	// Log successful loading
	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// logPromptLoadingSummary logs a summary of loaded prompts
func (c *Config) logPromptLoadingSummary() {
	log.Println("[CONFIG] === Custom Prompt Loading Summary ===")

	promptCount := 0
	for _, set := range []struct {
		operation string
		loaded    LoadedPromptSet
	}{
		{"analyze", loadedPrompts.Analyze},
		{"question", loadedPrompts.Question},
		{"evaluate", loadedPrompts.Evaluate},
		{"transcribe", loadedPrompts.Transcribe},
		{"delivery", loadedPrompts.Delivery},
		{"synthesize", loadedPrompts.Synthesize},
	} {
		if set.loaded.System != "" {
			log.Printf("[CONFIG] %s system prompt: loaded from file", set.operation)
			promptCount++
		}
		if set.loaded.User != "" {
			log.Printf("[CONFIG] %s user prompt: loaded from file", set.operation)
			promptCount++
		}
	}

	if promptCount == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", promptCount)
	}

	log.Println("[CONFIG] ==========================================")
}
