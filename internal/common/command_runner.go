package common

import (
	"context"

	"resumeforge/internal/errors"
)

// LoadInputFunc loads and validates the command's input file.
type LoadInputFunc[Input any] func(reader *InputReader, path string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// GenerationFunc is a generic function signature for a tiered generation operation.
type GenerationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// RunResumeCommand encapsulates the shared flow of the file-based resume
// commands: load and validate the input file, run the generation tiers,
// and write the formatted result.
func RunResumeCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	path string,
	loadInput LoadInputFunc[Input],
	operation GenerationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	reader := NewInputReader(logger)
	writer := NewResultWriter(logger)

	input, err := loadInput(reader, path)
	if err != nil {
		return err
	}

	logDetails(input, cmdConfig)

	result, err := operation(ctx, input)
	if err != nil {
		return err
	}

	return writer.Write(result, cmdConfig)
}
