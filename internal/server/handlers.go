package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"resumeforge/internal/ai"
	"resumeforge/internal/observability"
	"resumeforge/internal/resume"
	"resumeforge/internal/storage"

	"go.opentelemetry.io/otel/attribute"
)

// createGenerateHandler handles the profile-based generation path.
func (s *Server) createGenerateHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumeforge.api")
		ctx, span := tracer.Start(ctx, "api.generate")
		defer span.End()

		var raw map[string]any
		if err := parseJSONRequest(r, &raw); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		data := resume.NormalizeProfile(raw)

		if data.FullName == "" || data.JobTitle == "" {
			err := fmt.Errorf("missing identity fields")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing required fields", "fullName and jobTitle are required", http.StatusBadRequest)
			return
		}

		if !data.HasGenerationContent() {
			err := fmt.Errorf("no generation content")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing content fields", "Add at least one of: skills, competencies, quick profile, or experience", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("operation", "generate"),
			attribute.String("request.job_title", data.JobTitle),
		)

		prompt := ai.BuildStructuredPrompt(data)

		metrics := om.GetMetrics()
		start := time.Now()
		result := s.AI.GenerateResume(ctx, prompt)
		recordTierFallthroughs(ctx, metrics, result.Provider)

		var generated string
		if result.Text == "" {
			generated = resume.BuildPromptAwareResume(data, prompt, "")
		} else {
			// Malformed tier output is discarded wholesale; the
			// deterministic path then folds the raw text in as
			// section content instead.
			sanitized := resume.SanitizeGeneratedResume(result.Text, data.FullName, data.JobTitle)
			if sanitized != "" {
				generated = sanitized
			} else {
				generated = resume.BuildPromptAwareResume(data, prompt, result.Text)
			}
		}

		metrics.RecordGeneration(ctx, result.Provider, time.Since(start), true)
		span.SetAttributes(
			attribute.String("ai.provider", result.Provider),
			attribute.Int("response.length", len(generated)),
		)

		s.persistAndRespond(ctx, w, span, userID(r), generated, result.Provider, data, om, "Resume generated successfully")
	}
}

// createGenerateFromPromptHandler handles the free-text prompt path.
func (s *Server) createGenerateFromPromptHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumeforge.api")
		ctx, span := tracer.Start(ctx, "api.generate_from_prompt")
		defer span.End()

		var req GenerateFromPromptRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		prompt := strings.TrimSpace(req.Prompt)
		if len(prompt) < 20 {
			err := fmt.Errorf("prompt too short: %d chars", len(prompt))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Prompt too short", "Please provide a detailed prompt (minimum 20 characters).", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("operation", "generate_from_prompt"),
			attribute.Int("request.prompt_length", len(prompt)),
		)

		data := resume.ParsePromptToProfile(prompt)
		aiPrompt := ai.BuildInstructionPrompt(prompt)

		metrics := om.GetMetrics()
		start := time.Now()
		result := s.AI.GenerateResume(ctx, aiPrompt)
		recordTierFallthroughs(ctx, metrics, result.Provider)

		generated := resume.BuildProfessionalResume(data, result.Text)

		metrics.RecordGeneration(ctx, result.Provider, time.Since(start), true)
		span.SetAttributes(
			attribute.String("ai.provider", result.Provider),
			attribute.Int("response.length", len(generated)),
		)

		s.persistAndRespond(ctx, w, span, userID(r), generated, result.Provider, data, om, "Prompt CV generated successfully")
	}
}

// createHistoryHandler returns the caller's saved resumes, newest first.
func (s *Server) createHistoryHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := r.Context()
		tracer := om.Tracer("resumeforge.api")
		ctx, span := tracer.Start(ctx, "api.history")
		defer span.End()

		records, err := s.Store.ListByUser(ctx, userID(r), 0)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "storage"))
			writeErrorResponse(w, "Failed to fetch resume history", err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []storage.ResumeRecord{}
		}

		span.SetAttributes(attribute.Int("response.count", len(records)))
		writeJSON(w, http.StatusOK, HistoryResponse{Resumes: records})
	}
}

// createImproveSectionHandler rewrites one section of an existing resume.
func (s *Server) createImproveSectionHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumeforge.api")
		ctx, span := tracer.Start(ctx, "api.improve_section")
		defer span.End()

		var req ImproveSectionRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.SectionKey) == "" {
			err := fmt.Errorf("missing section key")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing section key", "sectionKey is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("operation", "improve_section"),
			attribute.String("request.section", req.SectionKey),
		)

		result := s.AI.ImproveSection(ctx, ai.ImproveSectionInput{
			SectionKey:     resume.SectionKey(req.SectionKey),
			TargetRole:     req.TargetRole,
			CurrentText:    req.CurrentText,
			FullResumeText: req.FullResumeText,
		})

		metrics := om.GetMetrics()
		metrics.RecordSectionImproved(ctx, result.Provider, req.SectionKey)
		span.SetAttributes(attribute.String("ai.provider", result.Provider))

		writeJSON(w, http.StatusOK, ImproveSectionResponse{
			Message:      "Section improved",
			AIProvider:   result.Provider,
			ImprovedText: result.Text,
		})
	}
}
