package ai

import (
	"fmt"

	"github.com/sony/gobreaker/v2"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
)

// CompletionBreaker wraps a tier's completion calls with circuit breaker
// protection so a flapping provider trips open instead of eating its full
// timeout on every request.
type CompletionBreaker struct {
	cb *gobreaker.CircuitBreaker[string]
}

// NewCompletionBreaker creates a breaker for one tier. Returns nil when
// the breaker is disabled; a nil breaker executes calls directly.
func NewCompletionBreaker(tierName string, cfg config.CircuitBreakerConfig, logger *errors.Logger) *CompletionBreaker {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        fmt.Sprintf("AI-%s", tierName),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Info("Circuit breaker state changed",
					"name", name,
					"tier", tierName,
					"from", from.String(),
					"to", to.String(),
					"max_requests", cfg.MaxRequests,
					"failure_threshold", cfg.FailureThreshold)
			}
		},
	}

	return &CompletionBreaker{
		cb: gobreaker.NewCircuitBreaker[string](settings),
	}
}

// Execute runs fn with circuit breaker protection.
func (b *CompletionBreaker) Execute(fn func() (string, error)) (string, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// GetStats returns circuit breaker statistics for the stats endpoint.
func (b *CompletionBreaker) GetStats() map[string]any {
	if b == nil || b.cb == nil {
		return map[string]any{
			"enabled": false,
		}
	}

	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy returns true if the circuit breaker is in closed state.
func (b *CompletionBreaker) IsHealthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}
