// Package server exposes the resume generation pipeline over HTTP.
package server

import (
	"time"

	"resumeforge/internal/ai"
	"resumeforge/internal/config"
	resumeforgeErrors "resumeforge/internal/errors"
	"resumeforge/internal/storage"
)

// GenerateFromPromptRequest carries the free-text prompt path input.
type GenerateFromPromptRequest struct {
	Prompt string `json:"prompt"`
}

// ImproveSectionRequest carries one section rewrite request.
type ImproveSectionRequest struct {
	SectionKey     string `json:"sectionKey"`
	CurrentText    string `json:"currentText"`
	FullResumeText string `json:"fullResumeText"`
	TargetRole     string `json:"targetRole"`
}

// ResumePayload is the persisted record subset returned to clients.
type ResumePayload struct {
	ID              string `json:"id"`
	GeneratedResume string `json:"generatedResume"`
	CreatedAt       string `json:"createdAt"`
}

// GenerateResponse is the envelope for both generation endpoints.
type GenerateResponse struct {
	Message    string        `json:"message"`
	AIProvider string        `json:"aiProvider"`
	Resume     ResumePayload `json:"resume"`
}

// ImproveSectionResponse is the envelope for the improve endpoint.
type ImproveSectionResponse struct {
	Message      string `json:"message"`
	AIProvider   string `json:"aiProvider"`
	ImprovedText string `json:"improvedText"`
}

// HistoryResponse lists a user's saved resumes, most recent first.
type HistoryResponse struct {
	Resumes []storage.ResumeRecord `json:"resumes"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration and collaborators for the HTTP server.
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *LimiterManager

	// Pipeline collaborators
	AI    *ai.Service
	Store storage.Store

	// Logger
	Logger *resumeforgeErrors.Logger
}

// NewServer wires a Server from application configuration and the
// pipeline collaborators.
func NewServer(appCfg *config.Config, version string, aiService *ai.Service, store storage.Store, logger *resumeforgeErrors.Logger) *Server {
	// API keys as a map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range appCfg.Server.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	rateLimit := appCfg.Server.RateLimit
	var rateLimiter *LimiterManager
	if rateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			rateLimit.RequestsPerMin,
			rateLimit.Window,
			rateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           appCfg.Server.Host,
		Port:           appCfg.Server.Port,
		Version:        version,
		AppConfig:      appCfg,
		TLSConfig:      appCfg.Server.TLS,
		APIKeys:        apiKeyMap,
		ReadTimeout:    appCfg.Server.ReadTimeout,
		WriteTimeout:   appCfg.Server.WriteTimeout,
		IdleTimeout:    appCfg.Server.IdleTimeout,
		MaxRequestSize: appCfg.Server.MaxRequestSize,
		RateLimit:      &rateLimit,
		RateLimiter:    rateLimiter,
		AI:             aiService,
		Store:          store,
		Logger:         logger,
	}
}
