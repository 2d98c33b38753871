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

var improveCmd = &cobra.Command{
	Use:   "improve [section-file]",
	Short: "Rewrite one resume section for more impact",
	Long: `Rewrite a single resume section using the generation tiers. The file
holds the current section text; the section is named with --section (for
example experience, skills, or summary) and --role optionally targets the
rewrite at a specific job title.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if improveSection == "" {
			return fmt.Errorf("sectionKey is required")
		}
		format, err := common.ResolveFormat(improveConfig.OutputFormat, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
		if err != nil {
			return err
		}
		improveConfig.OutputFormat = format
		return nil
	},
	RunE: runImprove,
}

var (
	improveConfig  common.CommandConfig
	improveSection string
	improveRole    string
)

func init() {
	improveCmd.Flags().StringVarP(&improveConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	improveCmd.Flags().StringVar(&improveConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	improveCmd.Flags().StringVarP(&improveSection, "section", "s", "", "Section key to rewrite (required)")
	improveCmd.Flags().StringVarP(&improveRole, "role", "r", "", "Target role for the rewrite")

	_ = improveCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runImprove(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	prompts := config.NewPromptStore(cfg.Personas())
	aiService := ai.NewService(cfg.AI, prompts, logger)

	loadInput := func(reader *common.InputReader, path string) (ai.ImproveSectionInput, error) {
		currentText, err := reader.ReadSection(path)
		if err != nil {
			return ai.ImproveSectionInput{}, err
		}
		return ai.ImproveSectionInput{
			SectionKey:  resume.SectionKey(improveSection),
			TargetRole:  improveRole,
			CurrentText: currentText,
		}, nil
	}

	logDetails := func(input ai.ImproveSectionInput, cfg common.CommandConfig) {
		logger.Info("Starting section rewrite",
			"section", string(input.SectionKey),
			"target_role", input.TargetRole,
			"output_format", cfg.OutputFormat)
	}

	improveOperation := func(ctx context.Context, input ai.ImproveSectionInput) (formatters.ImproveOutput, error) {
		result := aiService.ImproveSection(ctx, input)
		return formatters.ImproveOutput{
			SectionKey:   improveSection,
			AIProvider:   result.Provider,
			ImprovedText: result.Text,
		}, nil
	}

	err := common.RunResumeCommand(
		cmd.Context(),
		logger,
		improveConfig,
		args[0],
		loadInput,
		improveOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to improve section: %w", err)
	}
	logger.Info("Section rewrite completed successfully")
	return nil
}
