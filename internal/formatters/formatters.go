package formatters

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ResumeOutput is the CLI-facing result of a generation run.
type ResumeOutput struct {
	FullName        string `json:"fullName"`
	JobTitle        string `json:"jobTitle"`
	AIProvider      string `json:"aiProvider"`
	GeneratedResume string `json:"generatedResume"`
}

// ImproveOutput is the CLI-facing result of a section rewrite.
type ImproveOutput struct {
	SectionKey   string `json:"sectionKey"`
	AIProvider   string `json:"aiProvider"`
	ImprovedText string `json:"improvedText"`
}

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ResumeOutput", &ResumeTextFormatter{})
	registry.RegisterFormatter("markdown", "ResumeOutput", &ResumeMarkdownFormatter{})
	registry.RegisterFormatter("text", "ImproveOutput", &ImproveTextFormatter{})
	registry.RegisterFormatter("markdown", "ImproveOutput", &ImproveMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case ResumeOutput:
		return "ResumeOutput"
	case ImproveOutput:
		return "ImproveOutput"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ResumeTextFormatter handles text formatting for generation results
type ResumeTextFormatter struct{}

func (rtf *ResumeTextFormatter) Format(data any) (string, error) {
	result, ok := data.(ResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected ResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== GENERATED RESUME ===\n\n")
	output.WriteString(result.GeneratedResume)
	output.WriteString("\n\n")

	output.WriteString("=== GENERATION DETAILS ===\n")
	output.WriteString(fmt.Sprintf("Candidate: %s\n", result.FullName))
	output.WriteString(fmt.Sprintf("Target role: %s\n", result.JobTitle))
	output.WriteString(fmt.Sprintf("Served by: %s\n", result.AIProvider))

	return output.String(), nil
}

func (rtf *ResumeTextFormatter) SupportedType() string {
	return "ResumeOutput"
}

// ResumeMarkdownFormatter handles markdown formatting for generation results
type ResumeMarkdownFormatter struct{}

func (rmf *ResumeMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(ResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected ResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Generated Resume\n\n")
	output.WriteString("```\n")
	output.WriteString(result.GeneratedResume)
	output.WriteString("\n```\n\n")

	output.WriteString("## Generation Details\n\n")
	output.WriteString(fmt.Sprintf("**Candidate:** %s\n\n", result.FullName))
	output.WriteString(fmt.Sprintf("**Target role:** %s\n\n", result.JobTitle))
	output.WriteString(fmt.Sprintf("**Served by:** %s\n", result.AIProvider))

	return output.String(), nil
}

func (rmf *ResumeMarkdownFormatter) SupportedType() string {
	return "ResumeOutput"
}

// ImproveTextFormatter handles text formatting for section rewrites
type ImproveTextFormatter struct{}

func (itf *ImproveTextFormatter) Format(data any) (string, error) {
	result, ok := data.(ImproveOutput)
	if !ok {
		return "", fmt.Errorf("expected ImproveOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== IMPROVED SECTION ===\n\n")
	output.WriteString(fmt.Sprintf("Section: %s\n\n", result.SectionKey))
	output.WriteString(result.ImprovedText)
	output.WriteString("\n\n")
	output.WriteString(fmt.Sprintf("Served by: %s\n", result.AIProvider))

	return output.String(), nil
}

func (itf *ImproveTextFormatter) SupportedType() string {
	return "ImproveOutput"
}

// ImproveMarkdownFormatter handles markdown formatting for section rewrites
type ImproveMarkdownFormatter struct{}

func (imf *ImproveMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(ImproveOutput)
	if !ok {
		return "", fmt.Errorf("expected ImproveOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Improved Section\n\n")
	output.WriteString(fmt.Sprintf("**Section:** %s\n\n", result.SectionKey))
	output.WriteString("```\n")
	output.WriteString(result.ImprovedText)
	output.WriteString("\n```\n\n")
	output.WriteString(fmt.Sprintf("**Served by:** %s\n", result.AIProvider))

	return output.String(), nil
}

func (imf *ImproveMarkdownFormatter) SupportedType() string {
	return "ImproveOutput"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
