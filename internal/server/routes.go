package server

import (
	"net/http"
	"strings"

	"resumeforge/internal/observability"
)

// setupRoutes configures all HTTP routes and middleware.
func (s *Server) setupRoutes(om *observability.Manager) *http.ServeMux {
	mux := http.NewServeMux()

	rateLimitHandler := s.createRateLimitMiddleware(om)
	requestLimitHandler := s.requestSizeLimitMiddleware()

	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/stats", s.statsHandler)
	mux.HandleFunc("/api/resumes/generate",
		rateLimitHandler(
			s.authMiddleware(requestLimitHandler(s.createGenerateHandler(om))),
		),
	)
	mux.HandleFunc("/api/resumes/generate-from-prompt",
		rateLimitHandler(
			s.authMiddleware(requestLimitHandler(s.createGenerateFromPromptHandler(om))),
		),
	)
	mux.HandleFunc("/api/resumes/history",
		rateLimitHandler(
			s.authMiddleware(s.createHistoryHandler(om)),
		),
	)
	mux.HandleFunc("/api/resumes/improve-section",
		rateLimitHandler(
			s.authMiddleware(requestLimitHandler(s.createImproveSectionHandler(om))),
		),
	)

	return mux
}

// authMiddleware provides API key authentication. Requests pass through
// when no keys are configured.
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			authHeader := r.Header.Get("Authorization")
			if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				apiKey = after
			}
		}

		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr)
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr,
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		s.Logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"client_ip", r.RemoteAddr,
			"api_key_prefix", maskAPIKey(apiKey))

		next(w, r)
	}
}

// requestSizeLimitMiddleware limits the size of incoming requests.
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}

			next(w, r)
		}
	}
}

// userID resolves the caller identity set by the fronting auth layer.
func userID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-User-ID")); id != "" {
		return id
	}
	return "anonymous"
}

// maskAPIKey masks an API key for logging (shows only first 8 characters).
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
