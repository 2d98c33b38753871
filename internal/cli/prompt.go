package cli

import (
	"context"
	"fmt"

	"resumeforge/internal/ai"
	"resumeforge/internal/common"
	"resumeforge/internal/config"
	"resumeforge/internal/formatters"
	"resumeforge/internal/resume"

	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt [prompt-file]",
	Short: "Generate a resume from a free-text prompt file",
	Long: `Generate a professional resume from a free-text description of the
candidate. The prompt file should describe the person, their role, skills and
experience in plain language; identity and skills are extracted from the text
and the rest is composed by the generation tiers.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		format, err := common.ResolveFormat(promptConfig.OutputFormat, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
		if err != nil {
			return err
		}
		promptConfig.OutputFormat = format
		return nil
	},
	RunE: runPrompt,
}

var promptConfig common.CommandConfig

func init() {
	promptCmd.Flags().StringVarP(&promptConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	promptCmd.Flags().StringVar(&promptConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = promptCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runPrompt(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	prompts := config.NewPromptStore(cfg.Personas())
	aiService := ai.NewService(cfg.AI, prompts, logger)

	loadInput := func(reader *common.InputReader, path string) (string, error) {
		return reader.ReadPrompt(path)
	}

	logDetails := func(input string, cfg common.CommandConfig) {
		logger.Info("Starting prompt-based generation",
			"prompt_chars", len(input),
			"output_format", cfg.OutputFormat)
	}

	promptOperation := func(ctx context.Context, prompt string) (formatters.ResumeOutput, error) {
		data := resume.ParsePromptToProfile(prompt)
		result := aiService.GenerateResume(ctx, ai.BuildInstructionPrompt(prompt))
		generated := resume.BuildProfessionalResume(data, result.Text)

		return formatters.ResumeOutput{
			FullName:        data.FullName,
			JobTitle:        data.JobTitle,
			AIProvider:      result.Provider,
			GeneratedResume: generated,
		}, nil
	}

	err := common.RunResumeCommand(
		cmd.Context(),
		logger,
		promptConfig,
		args[0],
		loadInput,
		promptOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate resume from prompt: %w", err)
	}
	logger.Info("Prompt-based generation completed successfully")
	return nil
}
