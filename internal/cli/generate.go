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

var generateCmd = &cobra.Command{
	Use:   "generate [profile-file]",
	Short: "Generate a resume from a structured profile file",
	Long: `Generate a professional resume from a profile JSON file.
The profile must carry fullName and jobTitle plus at least one content field
(skills, competencies, quick profile, or experience). Generation falls through
the configured tiers and always produces a resume; the output reports which
tier served it.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		format, err := common.ResolveFormat(generateConfig.OutputFormat, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
		if err != nil {
			return err
		}
		generateConfig.OutputFormat = format
		return nil
	},
	RunE: runGenerate,
}

var generateConfig common.CommandConfig

func init() {
	generateCmd.Flags().StringVarP(&generateConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	generateCmd.Flags().StringVar(&generateConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = generateCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	prompts := config.NewPromptStore(cfg.Personas())
	aiService := ai.NewService(cfg.AI, prompts, logger)

	loadInput := func(reader *common.InputReader, path string) (resume.ProfileData, error) {
		return reader.ReadProfile(path)
	}

	logDetails := func(input resume.ProfileData, cfg common.CommandConfig) {
		logger.Info("Starting resume generation",
			"job_title", input.JobTitle,
			"output_format", cfg.OutputFormat)
	}

	generateOperation := func(ctx context.Context, data resume.ProfileData) (formatters.ResumeOutput, error) {
		prompt := ai.BuildStructuredPrompt(data)
		result := aiService.GenerateResume(ctx, prompt)

		var generated string
		if result.Text == "" {
			generated = resume.BuildPromptAwareResume(data, prompt, "")
		} else {
			sanitized := resume.SanitizeGeneratedResume(result.Text, data.FullName, data.JobTitle)
			if sanitized != "" {
				generated = sanitized
			} else {
				generated = resume.BuildPromptAwareResume(data, prompt, result.Text)
			}
		}

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
		generateConfig,
		args[0],
		loadInput,
		generateOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate resume: %w", err)
	}
	logger.Info("Resume generation completed successfully")
	return nil
}
