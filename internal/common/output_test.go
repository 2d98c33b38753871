package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resumeforge/internal/formatters"
)

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name          string
		requested     string
		defaultFormat string
		supported     []string
		expected      string
		expectError   bool
	}{
		{
			name:          "explicit supported format",
			requested:     "json",
			defaultFormat: "text",
			supported:     []string{"json", "text", "markdown"},
			expected:      "json",
		},
		{
			name:          "empty request falls back to default",
			requested:     "",
			defaultFormat: "text",
			supported:     []string{"json", "text", "markdown"},
			expected:      "text",
		},
		{
			name:          "unsupported format rejected",
			requested:     "xml",
			defaultFormat: "text",
			supported:     []string{"json", "text", "markdown"},
			expectError:   true,
		},
		{
			name:          "unsupported default rejected",
			requested:     "",
			defaultFormat: "yaml",
			supported:     []string{"json", "text", "markdown"},
			expectError:   true,
		},
		{
			name:          "case sensitive",
			requested:     "JSON",
			defaultFormat: "text",
			supported:     []string{"json", "text", "markdown"},
			expectError:   true,
		},
		{
			name:          "empty supported list allows anything",
			requested:     "xml",
			defaultFormat: "text",
			supported:     nil,
			expected:      "xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFormat(tt.requested, tt.defaultFormat, tt.supported)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !strings.Contains(err.Error(), "unsupported output format") {
					t.Errorf("error = %q", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveFormat failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("format = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestResultWriterWrite(t *testing.T) {
	result := formatters.ResumeOutput{
		FullName:        "Ayesha Noor",
		JobTitle:        "Data Analyst",
		AIProvider:      "template",
		GeneratedResume: "Ayesha Noor\nData Analyst",
	}

	t.Run("writes json to nested output path", func(t *testing.T) {
		writer := NewResultWriter(testLogger(t))
		outFile := filepath.Join(t.TempDir(), "out", "resume.json")

		err := writer.Write(result, CommandConfig{OutputFile: outFile, OutputFormat: "json"})
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		content, err := os.ReadFile(outFile)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.Contains(string(content), `"aiProvider": "template"`) {
			t.Errorf("output = %s", content)
		}
	})

	t.Run("writes text format with generation details", func(t *testing.T) {
		writer := NewResultWriter(testLogger(t))
		outFile := filepath.Join(t.TempDir(), "resume.txt")

		err := writer.Write(result, CommandConfig{OutputFile: outFile, OutputFormat: "text"})
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		content, err := os.ReadFile(outFile)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.Contains(string(content), "Served by: template") {
			t.Errorf("output = %s", content)
		}
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		writer := NewResultWriter(testLogger(t))

		err := writer.Write(result, CommandConfig{OutputFormat: "xml"})
		if err == nil {
			t.Fatal("expected error for unknown format")
		}
	})
}

func TestSupportedFormats(t *testing.T) {
	writer := NewResultWriter(testLogger(t))

	formats := writer.SupportedFormats()
	for _, want := range []string{"json", "text", "markdown"} {
		found := false
		for _, f := range formats {
			if f == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("format %q missing from %v", want, formats)
		}
	}
}

// Benchmark to ensure format resolution stays cheap on the command path
func BenchmarkResolveFormat(b *testing.B) {
	supported := []string{"json", "text", "markdown"}

	b.Run("valid format", func(b *testing.B) {
		for b.Loop() {
			_, _ = ResolveFormat("json", "text", supported)
		}
	})

	b.Run("invalid format", func(b *testing.B) {
		for b.Loop() {
			_, _ = ResolveFormat("xml", "text", supported)
		}
	})
}
