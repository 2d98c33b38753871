package ai

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"resumeforge/internal/errors"
	"resumeforge/internal/resume"
)

type fakeProvider struct {
	name      string
	available bool
	text      string
	err       error
	calls     int
}

func (f *fakeProvider) Name() string                       { return f.name }
func (f *fakeProvider) Available(ctx context.Context) bool { return f.available }

func (f *fakeProvider) GenerateResume(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.text, f.err
}

func (f *fakeProvider) ImproveSection(ctx context.Context, input ImproveSectionInput) (string, error) {
	f.calls++
	return f.text, f.err
}

func testLogger() *errors.Logger {
	logger, _ := errors.New("error")
	return logger
}

func TestGenerateResumeFallbackOrdering(t *testing.T) {
	t.Run("first tier wins when it produces text", func(t *testing.T) {
		primary := &fakeProvider{name: ProviderOpenAI, available: true, text: "primary output"}
		secondary := &fakeProvider{name: ProviderOllama, available: true, text: "secondary output"}
		svc := NewServiceWithProviders(testLogger(), primary, secondary)

		result := svc.GenerateResume(context.Background(), "prompt")
		if result.Provider != ProviderOpenAI || result.Text != "primary output" {
			t.Errorf("result = %+v", result)
		}
		if secondary.calls != 0 {
			t.Error("secondary tier should not be called")
		}
	})

	t.Run("unavailable tier is skipped without a call", func(t *testing.T) {
		primary := &fakeProvider{name: ProviderOpenAI, available: false, text: "never"}
		secondary := &fakeProvider{name: ProviderOllama, available: true, text: "from ollama"}
		svc := NewServiceWithProviders(testLogger(), primary, secondary)

		result := svc.GenerateResume(context.Background(), "prompt")
		if result.Provider != ProviderOllama {
			t.Errorf("provider = %q", result.Provider)
		}
		if primary.calls != 0 {
			t.Error("unavailable tier should not be called")
		}
	})

	t.Run("failing tier falls through", func(t *testing.T) {
		primary := &fakeProvider{name: ProviderOpenAI, available: true, err: fmt.Errorf("boom")}
		secondary := &fakeProvider{name: ProviderOllama, available: true, text: "from ollama"}
		svc := NewServiceWithProviders(testLogger(), primary, secondary)

		result := svc.GenerateResume(context.Background(), "prompt")
		if result.Provider != ProviderOllama || result.Text != "from ollama" {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("all tiers down yields template tag", func(t *testing.T) {
		primary := &fakeProvider{name: ProviderOpenAI, available: false}
		secondary := &fakeProvider{name: ProviderOllama, available: true, err: fmt.Errorf("unreachable")}
		svc := NewServiceWithProviders(testLogger(), primary, secondary)

		result := svc.GenerateResume(context.Background(), "prompt")
		if result.Provider != ProviderTemplate {
			t.Errorf("provider = %q", result.Provider)
		}
		if result.Text != "" {
			t.Errorf("text should be empty, got %q", result.Text)
		}
	})

	t.Run("empty completion falls through", func(t *testing.T) {
		primary := &fakeProvider{name: ProviderOpenAI, available: true, text: ""}
		secondary := &fakeProvider{name: ProviderOllama, available: true, text: "rescue"}
		svc := NewServiceWithProviders(testLogger(), primary, secondary)

		result := svc.GenerateResume(context.Background(), "prompt")
		if result.Provider != ProviderOllama {
			t.Errorf("provider = %q", result.Provider)
		}
	})
}

func TestImproveSection(t *testing.T) {
	input := ImproveSectionInput{
		SectionKey:  resume.SectionSummary,
		TargetRole:  "Data Analyst",
		CurrentText: "",
	}

	t.Run("tier output cleaned and capped", func(t *testing.T) {
		long := strings.Repeat("**Line of content**\n", 10)
		primary := &fakeProvider{name: ProviderOpenAI, available: true, text: long}
		svc := NewServiceWithProviders(testLogger(), primary)

		result := svc.ImproveSection(context.Background(), input)
		if result.Provider != ProviderOpenAI {
			t.Errorf("provider = %q", result.Provider)
		}
		lines := strings.Split(result.Text, "\n")
		if len(lines) != 6 {
			t.Errorf("expected 6 lines, got %d", len(lines))
		}
		if strings.Contains(result.Text, "**") {
			t.Error("markdown should be stripped")
		}
	})

	t.Run("no tiers yields deterministic rewrite", func(t *testing.T) {
		primary := &fakeProvider{name: ProviderOpenAI, available: false}
		svc := NewServiceWithProviders(testLogger(), primary)

		result := svc.ImproveSection(context.Background(), input)
		if result.Provider != ProviderTemplate {
			t.Errorf("provider = %q", result.Provider)
		}
		if strings.Contains(result.Text, "\n") {
			t.Errorf("summary fallback should be one line: %q", result.Text)
		}
		if !strings.Contains(result.Text, "Data Analyst") {
			t.Errorf("target role missing from %q", result.Text)
		}
	})

	t.Run("whitespace only tier output falls through", func(t *testing.T) {
		primary := &fakeProvider{name: ProviderOpenAI, available: true, text: "  \n \n"}
		svc := NewServiceWithProviders(testLogger(), primary)

		result := svc.ImproveSection(context.Background(), input)
		if result.Provider != ProviderTemplate {
			t.Errorf("provider = %q", result.Provider)
		}
	})

	t.Run("tag sticks to tier when output cleans to nothing", func(t *testing.T) {
		primary := &fakeProvider{name: ProviderOpenAI, available: true, text: "** **\n```"}
		secondary := &fakeProvider{name: ProviderOllama, available: true, text: "never reached"}
		svc := NewServiceWithProviders(testLogger(), primary, secondary)

		result := svc.ImproveSection(context.Background(), input)
		if result.Provider != ProviderOpenAI {
			t.Errorf("provider = %q, want %q", result.Provider, ProviderOpenAI)
		}
		if !strings.Contains(result.Text, "Data Analyst") {
			t.Errorf("deterministic rewrite missing from %q", result.Text)
		}
		if secondary.calls != 0 {
			t.Error("later tiers should not run once a tier produced output")
		}
	})
}
