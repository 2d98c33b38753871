// Package common holds the plumbing shared by the file-based resume
// commands: loading and validating input files, and formatting and
// writing generation results.
package common

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"resumeforge/internal/errors"
	"resumeforge/internal/resume"
)

// minPromptChars matches the minimum the prompt endpoint enforces.
const minPromptChars = 20

// InputReader loads the three kinds of command input: profile JSON,
// free-text prompts, and raw section text. Each reader enforces the same
// preconditions its HTTP counterpart checks, so a file rejected here
// would have been rejected by the API too.
type InputReader struct {
	logger *errors.Logger
}

// NewInputReader creates a new input reader instance
func NewInputReader(logger *errors.Logger) *InputReader {
	return &InputReader{logger: logger}
}

// ReadProfile loads and normalizes a profile JSON file. The profile must
// carry identity fields plus at least one content field.
func (ir *InputReader) ReadProfile(filename string) (resume.ProfileData, error) {
	ir.warnExtension(filename, ".json")

	content, err := ir.readInputFile(filename)
	if err != nil {
		return resume.ProfileData{}, err
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return resume.ProfileData{}, errors.NewValidationError(errors.ErrCodeInvalidProfile,
			fmt.Sprintf("Profile file is not valid JSON: %s", filename), err)
	}

	data := resume.NormalizeProfile(raw)
	if data.FullName == "" || data.JobTitle == "" {
		return resume.ProfileData{}, errors.NewValidationError(errors.ErrCodeInvalidProfile,
			"fullName and jobTitle are required", nil)
	}
	if !data.HasGenerationContent() {
		return resume.ProfileData{}, errors.NewValidationError(errors.ErrCodeInvalidProfile,
			"Add at least one of: skills, competencies, quick profile, or experience", nil)
	}

	return data, nil
}

// ReadPrompt loads a free-text prompt file, enforcing the minimum length.
func (ir *InputReader) ReadPrompt(filename string) (string, error) {
	ir.warnExtension(filename, ".txt", ".md", ".markdown", ".text")

	content, err := ir.readInputFile(filename)
	if err != nil {
		return "", err
	}

	prompt := strings.TrimSpace(content)
	if len(prompt) < minPromptChars {
		return "", errors.NewValidationError(errors.ErrCodePromptTooShort,
			"Please provide a detailed prompt (minimum 20 characters).", nil)
	}

	return prompt, nil
}

// ReadSection loads the current text of one resume section. Empty content
// is allowed; the improve fallback composes from scratch in that case.
func (ir *InputReader) ReadSection(filename string) (string, error) {
	ir.warnExtension(filename, ".txt", ".md", ".markdown", ".text")
	return ir.readInputFile(filename)
}

// readInputFile validates that the path names a readable file and
// returns its content.
func (ir *InputReader) readInputFile(filename string) (string, error) {
	if filename == "" {
		return "", errors.NewValidationError(errors.ErrCodeFileNotFound,
			"Input filename cannot be empty", nil)
	}

	info, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot access file: %s", filename), err)
	}
	if info.IsDir() {
		return "", errors.NewValidationError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Path is a directory, not a file: %s", filename), nil)
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}

	return string(content), nil
}

// warnExtension logs when an input file does not look like what the
// command expects. Extension is advisory only; content checks decide.
func (ir *InputReader) warnExtension(filename string, expected ...string) {
	ext := strings.ToLower(filepath.Ext(filename))
	if slices.Contains(expected, ext) {
		return
	}
	if ir.logger != nil {
		ir.logger.Warn("Unexpected input file extension",
			"filename", filename,
			"expected", expected)
	} else {
		fmt.Fprintf(os.Stderr, "Warning: %s does not have an expected extension %v\n", filename, expected)
	}
}
