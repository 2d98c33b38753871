package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
)

// PlaceholderKeyPrefix marks an API key that was never filled in. A key
// carrying this prefix counts as not configured and the tier is skipped.
const PlaceholderKeyPrefix = "replace_with"

// OpenAIProvider is the primary tier: an OpenAI-compatible chat-completion
// endpoint.
type OpenAIProvider struct {
	cfg     config.OpenAIConfig
	client  *http.Client
	breaker *CompletionBreaker
	prompts *config.PromptStore
	logger  *errors.Logger
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates the primary tier from configuration.
func NewOpenAIProvider(cfg config.OpenAIConfig, prompts *config.PromptStore, logger *errors.Logger) *OpenAIProvider {
	return &OpenAIProvider{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		breaker: NewCompletionBreaker("OpenAI", cfg.CircuitBreaker, logger),
		prompts: prompts,
		logger:  logger,
	}
}

func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

// Available reports whether a usable key is configured. Placeholder keys
// from config templates do not count.
func (p *OpenAIProvider) Available(ctx context.Context) bool {
	key := strings.TrimSpace(p.cfg.APIKey)
	return key != "" && !strings.HasPrefix(key, PlaceholderKeyPrefix)
}

func (p *OpenAIProvider) GenerateResume(ctx context.Context, prompt string) (string, error) {
	persona := defaultGeneratePersona
	if custom := p.prompts.Current().Generate; custom != "" {
		persona = custom
	}
	return p.complete(ctx, persona, prompt, p.cfg.Temperature)
}

func (p *OpenAIProvider) ImproveSection(ctx context.Context, input ImproveSectionInput) (string, error) {
	persona := defaultImprovePersona
	if custom := p.prompts.Current().Improve; custom != "" {
		persona = custom
	}
	return p.complete(ctx, persona, BuildImprovePrompt(input), p.cfg.ImproveTemperature)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) complete(ctx context.Context, persona, prompt string, temperature float32) (string, error) {
	return p.breaker.Execute(func() (string, error) {
		payload := chatRequest{
			Model: p.cfg.Model,
			Messages: []chatMessage{
				{Role: "system", Content: persona},
				{Role: "user", Content: prompt},
			},
			Temperature: temperature,
		}

		data, err := json.Marshal(payload)
		if err != nil {
			return "", errors.NewInternalError(errors.ErrCodeInvalidFormat,
				"Failed to marshal chat completion request", err)
		}

		url := strings.TrimRight(p.cfg.BaseURL, "/") + "/chat/completions"
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return "", errors.NewNetworkError(errors.ErrCodeProviderUnavailable,
				"Failed to build chat completion request", err)
		}
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			return "", errors.NewNetworkError(errors.ErrCodeProviderUnavailable,
				"Chat completion request failed", err)
		}
		defer func() {
			if closeErr := resp.Body.Close(); closeErr != nil && p.logger != nil {
				p.logger.Warn("Failed to close response body", "error", closeErr)
			}
		}()

		if resp.StatusCode >= 300 {
			return "", errors.NewNetworkError(errors.ErrCodeProviderUnavailable,
				fmt.Sprintf("Chat completion returned HTTP %d", resp.StatusCode), nil)
		}

		var body chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return "", errors.NewAIError(errors.ErrCodeInvalidFormat,
				"Failed to decode chat completion response", err)
		}

		if len(body.Choices) == 0 {
			return "", errors.NewAIError(errors.ErrCodeEmptyCompletion,
				"Chat completion returned no choices", nil)
		}

		text := strings.TrimSpace(body.Choices[0].Message.Content)
		if text == "" {
			return "", errors.NewAIError(errors.ErrCodeEmptyCompletion,
				"Chat completion returned empty content", nil)
		}
		return text, nil
	})
}

// GetStats exposes breaker state for the stats endpoint.
func (p *OpenAIProvider) GetStats() map[string]any {
	return p.breaker.GetStats()
}

// IsHealthy reports whether the breaker is closed.
func (p *OpenAIProvider) IsHealthy() bool {
	return p.breaker.IsHealthy()
}
