package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const maxPromptFileSize = 64 * 1024

// Personas holds the system persona text for each model-facing operation.
// Empty fields mean the built-in persona is used.
type Personas struct {
	Generate string
	Improve  string
}

// PromptStore serves the active persona overrides. Reads are served under
// a read lock so the file watcher can swap content at runtime.
type PromptStore struct {
	mu       sync.RWMutex
	personas Personas
}

// NewPromptStore builds a store from the resolved prompt configuration.
func NewPromptStore(p Personas) *PromptStore {
	return &PromptStore{personas: p}
}

// Current returns a copy of the active personas.
func (s *PromptStore) Current() Personas {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.personas
}

// Replace swaps the active personas atomically.
func (s *PromptStore) Replace(p Personas) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personas = p
}

// loadPromptFiles reads persona files into the inline fields. Inline
// config values win over file content.
func (c *Config) loadPromptFiles() error {
	if c.AI.CustomPrompts.GeneratePersona == "" && c.AI.CustomPrompts.GeneratePersonaFile != "" {
		content, err := readPromptFile(c.AI.CustomPrompts.GeneratePersonaFile)
		if err != nil {
			return err
		}
		c.AI.CustomPrompts.GeneratePersona = content
	}
	if c.AI.CustomPrompts.ImprovePersona == "" && c.AI.CustomPrompts.ImprovePersonaFile != "" {
		content, err := readPromptFile(c.AI.CustomPrompts.ImprovePersonaFile)
		if err != nil {
			return err
		}
		c.AI.CustomPrompts.ImprovePersona = content
	}
	return nil
}

// Personas resolves the configured persona overrides.
func (c *Config) Personas() Personas {
	return Personas{
		Generate: c.AI.CustomPrompts.GeneratePersona,
		Improve:  c.AI.CustomPrompts.ImprovePersona,
	}
}

func readPromptFile(path string) (string, error) {
	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		return "", fmt.Errorf("prompt file %s: %w", cleanPath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("prompt file %s is a directory", cleanPath)
	}
	if info.Size() > maxPromptFileSize {
		return "", fmt.Errorf("prompt file %s exceeds %d bytes", cleanPath, maxPromptFileSize)
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("prompt file %s: %w", cleanPath, err)
	}

	text := strings.TrimSpace(string(content))
	if text == "" {
		return "", fmt.Errorf("prompt file %s is empty", cleanPath)
	}
	return text, nil
}
