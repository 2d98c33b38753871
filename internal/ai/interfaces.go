package ai

import (
	"context"

	"resumeforge/internal/resume"
)

// Provider is a single generation tier. Implementations return their raw
// completion text; an empty string means the tier produced nothing and the
// caller should fall through to the next tier.
type Provider interface {
	// Name is the tag surfaced to clients in the aiProvider field.
	Name() string
	// Available reports whether the tier is worth attempting at all
	// (key configured, host reachable).
	Available(ctx context.Context) bool
	GenerateResume(ctx context.Context, prompt string) (string, error)
	ImproveSection(ctx context.Context, input ImproveSectionInput) (string, error)
}

// ImproveSectionInput carries everything a tier needs to rewrite one
// resume section.
type ImproveSectionInput struct {
	SectionKey     resume.SectionKey
	TargetRole     string
	CurrentText    string
	FullResumeText string
}

// GenerationResult is the outcome of a tiered generation attempt. Text is
// empty when every remote tier failed; Provider then reads "template" and
// the caller renders deterministically.
type GenerationResult struct {
	Text     string
	Provider string
}

// Provider tags surfaced in responses.
const (
	ProviderOpenAI   = "openai"
	ProviderOllama   = "ollama"
	ProviderTemplate = "template"
)
