package ai

import (
	"context"
	"strings"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
	"resumeforge/internal/resume"
)

// Service runs the tier fallback: providers are tried strictly in order
// and the first non-empty completion wins. Tier failures are absorbed
// here; callers only ever see text plus the tag of the tier that produced
// it. An empty Text with the "template" tag tells the caller to render
// deterministically.
type Service struct {
	providers []Provider
	logger    *errors.Logger
}

// NewService wires the remote tiers from configuration.
func NewService(cfg config.AIConfig, prompts *config.PromptStore, logger *errors.Logger) *Service {
	return &Service{
		providers: []Provider{
			NewOpenAIProvider(cfg.OpenAI, prompts, logger),
			NewOllamaProvider(cfg.Ollama, logger),
		},
		logger: logger,
	}
}

// NewServiceWithProviders builds a service over explicit tiers, in order.
func NewServiceWithProviders(logger *errors.Logger, providers ...Provider) *Service {
	return &Service{providers: providers, logger: logger}
}

// GenerateResume tries each tier with the given prompt. No retries within
// a tier: one failure falls through immediately.
func (s *Service) GenerateResume(ctx context.Context, prompt string) GenerationResult {
	for _, provider := range s.providers {
		if !provider.Available(ctx) {
			s.logger.Debug("Generation tier unavailable", "provider", provider.Name())
			continue
		}

		text, err := provider.GenerateResume(ctx, prompt)
		if err != nil {
			s.logger.Warn("Generation tier failed, falling through",
				"provider", provider.Name(),
				"error", err.Error())
			continue
		}
		if text == "" {
			continue
		}

		return GenerationResult{Text: text, Provider: provider.Name()}
	}

	return GenerationResult{Provider: ProviderTemplate}
}

// ImproveSection tries each tier; when none produces output the result
// carries the deterministic rewrite with the "template" tag. The tag
// sticks to the first tier that returns non-empty text even when cleaning
// strips all of it; the deterministic rewrite then fills in the content.
func (s *Service) ImproveSection(ctx context.Context, input ImproveSectionInput) GenerationResult {
	for _, provider := range s.providers {
		if !provider.Available(ctx) {
			s.logger.Debug("Improve tier unavailable", "provider", provider.Name())
			continue
		}

		text, err := provider.ImproveSection(ctx, input)
		if err != nil {
			s.logger.Warn("Improve tier failed, falling through",
				"provider", provider.Name(),
				"error", err.Error())
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		cleaned := resume.CleanImprovedText(text)
		if cleaned == "" {
			cleaned = resume.FallbackImproveSection(input.SectionKey, input.CurrentText, input.TargetRole)
		}
		return GenerationResult{Text: cleaned, Provider: provider.Name()}
	}

	fallback := resume.FallbackImproveSection(input.SectionKey, input.CurrentText, input.TargetRole)
	if cleaned := resume.CleanImprovedText(fallback); cleaned != "" {
		return GenerationResult{Text: cleaned, Provider: ProviderTemplate}
	}
	return GenerationResult{Text: fallback, Provider: ProviderTemplate}
}

// ProviderStats reports circuit breaker state per remote tier.
func (s *Service) ProviderStats() map[string]any {
	stats := make(map[string]any, len(s.providers))
	for _, provider := range s.providers {
		if sp, ok := provider.(interface{ GetStats() map[string]any }); ok {
			stats[provider.Name()] = sp.GetStats()
		}
	}
	return stats
}

// Healthy reports whether every enabled breaker is closed.
func (s *Service) Healthy() bool {
	for _, provider := range s.providers {
		if hp, ok := provider.(interface{ IsHealthy() bool }); ok && !hp.IsHealthy() {
			return false
		}
	}
	return true
}
