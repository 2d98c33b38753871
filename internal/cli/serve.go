package cli

import (
	"fmt"

	"resumeforge/internal/ai"
	"resumeforge/internal/config"
	"resumeforge/internal/server"
	"resumeforge/internal/storage"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for resume generation",
	Long: `Start an HTTP server that provides REST API endpoints for resume generation.

Available endpoints:
- POST /api/resumes/generate: Generate a resume from a structured profile
- POST /api/resumes/generate-from-prompt: Generate a resume from a free-text prompt
- GET /api/resumes/history: List the caller's saved resumes, newest first
- POST /api/resumes/improve-section: Rewrite one resume section
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server
- Use --cert-file and --key-file for TLS certificates`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("storage-driver", "", "Storage driver: sqlite, file (overrides config)")

	// Bind flags to viper config keys
	bindFlag := func(key, flagName string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	bindFlag("server.port", "port")
	bindFlag("server.host", "host")
	bindFlag("server.tls.mode", "tls-mode")
	bindFlag("server.tls.certfile", "cert-file")
	bindFlag("server.tls.keyfile", "key-file")
	bindFlag("storage.driver", "storage-driver")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	prompts := config.NewPromptStore(cfg.Personas())

	if cfg.AI.CustomPrompts.WatchFiles {
		watcher := config.NewPromptWatcher(cfg.AI.CustomPrompts, cfg.Personas(), prompts, logger)
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("failed to start prompt watcher: %w", err)
		}
		defer func() {
			if err := watcher.Stop(); err != nil {
				logger.LogError(err, "Failed to stop prompt watcher")
			}
		}()
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open resume store: %w", err)
	}

	aiService := ai.NewService(cfg.AI, prompts, logger)

	return server.NewServer(cfg, Version, aiService, store, logger).Start()
}
