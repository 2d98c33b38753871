package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
)

// OllamaProvider is the secondary tier: a self-hosted Ollama instance.
// Reachability is probed with a short timeout before any generation call;
// an unreachable host never eats the long generation timeout.
type OllamaProvider struct {
	cfg     config.OllamaConfig
	client  *http.Client
	breaker *CompletionBreaker
	logger  *errors.Logger
}

var _ Provider = (*OllamaProvider)(nil)

// NewOllamaProvider creates the secondary tier from configuration.
func NewOllamaProvider(cfg config.OllamaConfig, logger *errors.Logger) *OllamaProvider {
	return &OllamaProvider{
		cfg: cfg,
		// Per-call timeouts come from request contexts; the client
		// itself stays unbounded.
		client:  &http.Client{},
		breaker: NewCompletionBreaker("Ollama", cfg.CircuitBreaker, logger),
		logger:  logger,
	}
}

func (p *OllamaProvider) Name() string {
	return ProviderOllama
}

// Available probes the tags endpoint with the short probe timeout.
func (p *OllamaProvider) Available(ctx context.Context) bool {
	if strings.TrimSpace(p.cfg.BaseURL) == "" {
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, p.cfg.ProbeTimeout)
	defer cancel()

	url := strings.TrimRight(p.cfg.BaseURL, "/") + "/api/tags"
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && p.logger != nil {
			p.logger.Warn("Failed to close probe response body", "error", closeErr)
		}
	}()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (p *OllamaProvider) GenerateResume(ctx context.Context, prompt string) (string, error) {
	return p.generate(ctx, prompt, generateOptions{
		Temperature: p.cfg.Temperature,
		NumPredict:  p.cfg.NumPredict,
	}, p.cfg.GenerateTimeout)
}

func (p *OllamaProvider) ImproveSection(ctx context.Context, input ImproveSectionInput) (string, error) {
	return p.generate(ctx, BuildImprovePromptCompact(input), generateOptions{
		Temperature: p.cfg.ImproveTemperature,
		NumPredict:  p.cfg.ImproveNumPredict,
	}, p.cfg.ImproveTimeout)
}

type generateOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (p *OllamaProvider) generate(ctx context.Context, prompt string, opts generateOptions, timeout time.Duration) (string, error) {
	return p.breaker.Execute(func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		payload := generateRequest{
			Model:   p.cfg.Model,
			Prompt:  prompt,
			Stream:  false,
			Options: opts,
		}

		data, err := json.Marshal(payload)
		if err != nil {
			return "", errors.NewInternalError(errors.ErrCodeInvalidFormat,
				"Failed to marshal generate request", err)
		}

		url := strings.TrimRight(p.cfg.BaseURL, "/") + "/api/generate"
		req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return "", errors.NewNetworkError(errors.ErrCodeProviderUnavailable,
				"Failed to build generate request", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			return "", errors.NewNetworkError(errors.ErrCodeProviderUnavailable,
				"Generate request failed", err)
		}
		defer func() {
			if closeErr := resp.Body.Close(); closeErr != nil && p.logger != nil {
				p.logger.Warn("Failed to close response body", "error", closeErr)
			}
		}()

		if resp.StatusCode >= 300 {
			return "", errors.NewNetworkError(errors.ErrCodeProviderUnavailable,
				fmt.Sprintf("Generate returned HTTP %d", resp.StatusCode), nil)
		}

		var body generateResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return "", errors.NewAIError(errors.ErrCodeInvalidFormat,
				"Failed to decode generate response", err)
		}

		text := strings.TrimSpace(body.Response)
		if text == "" {
			return "", errors.NewAIError(errors.ErrCodeEmptyCompletion,
				"Generate returned empty response", nil)
		}
		return text, nil
	})
}

// GetStats exposes breaker state for the stats endpoint.
func (p *OllamaProvider) GetStats() map[string]any {
	return p.breaker.GetStats()
}

// IsHealthy reports whether the breaker is closed.
func (p *OllamaProvider) IsHealthy() bool {
	return p.breaker.IsHealthy()
}
