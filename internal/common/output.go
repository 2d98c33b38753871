package common

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"resumeforge/internal/errors"
	"resumeforge/internal/formatters"
)

// CommandConfig holds the output flags shared by the resume commands.
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// ResolveFormat applies the configured default format and validates the
// result against the supported formats. An empty supported list means no
// restriction.
func ResolveFormat(requested, defaultFormat string, supported []string) (string, error) {
	format := requested
	if format == "" {
		format = defaultFormat
	}

	if len(supported) == 0 || slices.Contains(supported, format) {
		return format, nil
	}

	return "", fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supported)
}

// ResultWriter formats generation results and writes them to a file or
// stdout.
type ResultWriter struct {
	registry *formatters.FormatterRegistry
	logger   *errors.Logger
}

// NewResultWriter creates a writer over the global formatter registry.
func NewResultWriter(logger *errors.Logger) *ResultWriter {
	return &ResultWriter{
		registry: formatters.GlobalRegistry,
		logger:   logger,
	}
}

// Write renders the result in the configured format and writes it to the
// configured file, creating parent directories, or to stdout when no
// file is set.
func (rw *ResultWriter) Write(result any, config CommandConfig) error {
	output, err := rw.registry.Format(result, config.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", config.OutputFormat), err)
	}

	if config.OutputFile == "" {
		fmt.Print(output)
		return nil
	}

	if dir := filepath.Dir(config.OutputFile); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(config.OutputFile, []byte(output), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", config.OutputFile), err)
	}

	rw.logger.Info("Resume output written",
		"file", config.OutputFile, "format", config.OutputFormat)
	return nil
}

// SupportedFormats returns all formats the registry can render.
func (rw *ResultWriter) SupportedFormats() []string {
	return rw.registry.GetSupportedFormats()
}
