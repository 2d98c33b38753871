package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"resumeforge/internal/ai"
	"resumeforge/internal/observability"
	"resumeforge/internal/resume"
	"resumeforge/internal/storage"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// persistAndRespond saves the generated resume and writes the creation
// response. Persistence failures are the only generation-path errors
// surfaced to the client.
func (s *Server) persistAndRespond(ctx context.Context, w http.ResponseWriter, span oteltrace.Span, user, generated, provider string, data resume.ProfileData, om *observability.Manager, message string) {
	profileJSON, err := json.Marshal(data)
	if err != nil {
		span.RecordError(err)
		writeErrorResponse(w, "Resume generation failed", err.Error(), http.StatusInternalServerError)
		return
	}

	record := storage.NewRecord(user, data, generated, provider, profileJSON)
	if err := s.Store.Create(ctx, &record); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "storage"))
		writeErrorResponse(w, "Resume generation failed", err.Error(), http.StatusInternalServerError)
		return
	}

	om.GetMetrics().RecordResumeSaved(ctx, s.AppConfig.Storage.Driver)
	span.SetAttributes(attribute.Bool("success", true))

	writeJSON(w, http.StatusCreated, GenerateResponse{
		Message:    message,
		AIProvider: provider,
		Resume: ResumePayload{
			ID:              record.ID,
			GeneratedResume: record.ResumeText,
			CreatedAt:       record.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
}

// recordTierFallthroughs derives which tiers were passed over from the
// tier that finally served the request. Tier order is fixed.
func recordTierFallthroughs(ctx context.Context, metrics *observability.Metrics, provider string) {
	switch provider {
	case ai.ProviderOllama:
		metrics.RecordTierFallthrough(ctx, ai.ProviderOpenAI)
	case ai.ProviderTemplate:
		metrics.RecordTierFallthrough(ctx, ai.ProviderOpenAI)
		metrics.RecordTierFallthrough(ctx, ai.ProviderOllama)
	}
}
