package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func defaultTestConfig() *Config {
	return &Config{
		AI: AIConfig{
			OpenAI: OpenAIConfig{
				BaseURL:     "https://api.openai.com/v1",
				Model:       "gpt-4o-mini",
				Temperature: 0.4,
				Timeout:     60 * time.Second,
			},
			Ollama: OllamaConfig{
				BaseURL:         "http://127.0.0.1:11434",
				Model:           "qwen2.5:0.5b",
				ProbeTimeout:    2 * time.Second,
				GenerateTimeout: 180 * time.Second,
				ImproveTimeout:  120 * time.Second,
			},
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: "8080",
			TLS:  TLSConfig{Mode: "disabled"},
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "resumeforge.db",
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "text",
			SupportedFormats: []string{"json", "text", "markdown"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:        "missing port",
			mutate:      func(c *Config) { c.Server.Port = "" },
			expectError: true,
		},
		{
			name:        "tls server mode without cert",
			mutate:      func(c *Config) { c.Server.TLS.Mode = "server" },
			expectError: true,
		},
		{
			name: "tls server mode with cert and key",
			mutate: func(c *Config) {
				c.Server.TLS.Mode = "server"
				c.Server.TLS.CertFile = "server.crt"
				c.Server.TLS.KeyFile = "server.key"
			},
		},
		{
			name:        "unknown tls mode",
			mutate:      func(c *Config) { c.Server.TLS.Mode = "mutual" },
			expectError: true,
		},
		{
			name:        "unknown storage driver",
			mutate:      func(c *Config) { c.Storage.Driver = "postgres" },
			expectError: true,
		},
		{
			name: "file storage requires directory",
			mutate: func(c *Config) {
				c.Storage.Driver = "file"
				c.Storage.FileDir = ""
			},
			expectError: true,
		},
		{
			name:        "zero probe timeout",
			mutate:      func(c *Config) { c.AI.Ollama.ProbeTimeout = 0 },
			expectError: true,
		},
		{
			name:        "default format not supported",
			mutate:      func(c *Config) { c.App.DefaultFormat = "pdf" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestLoadPromptFiles(t *testing.T) {
	t.Run("file content loaded", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "generate.txt")
		if err := os.WriteFile(path, []byte("You write resumes.\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg := defaultTestConfig()
		cfg.AI.CustomPrompts.GeneratePersonaFile = path
		if err := cfg.loadPromptFiles(); err != nil {
			t.Fatalf("loadPromptFiles: %v", err)
		}
		if cfg.AI.CustomPrompts.GeneratePersona != "You write resumes." {
			t.Errorf("persona = %q", cfg.AI.CustomPrompts.GeneratePersona)
		}
	})

	t.Run("inline value wins over file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "generate.txt")
		if err := os.WriteFile(path, []byte("from file"), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg := defaultTestConfig()
		cfg.AI.CustomPrompts.GeneratePersona = "inline"
		cfg.AI.CustomPrompts.GeneratePersonaFile = path
		if err := cfg.loadPromptFiles(); err != nil {
			t.Fatalf("loadPromptFiles: %v", err)
		}
		if cfg.AI.CustomPrompts.GeneratePersona != "inline" {
			t.Errorf("persona = %q", cfg.AI.CustomPrompts.GeneratePersona)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		cfg := defaultTestConfig()
		cfg.AI.CustomPrompts.ImprovePersonaFile = filepath.Join(t.TempDir(), "nope.txt")
		if err := cfg.loadPromptFiles(); err == nil {
			t.Error("expected error for missing prompt file")
		}
	})

	t.Run("empty file is an error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "empty.txt")
		if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg := defaultTestConfig()
		cfg.AI.CustomPrompts.ImprovePersonaFile = path
		if err := cfg.loadPromptFiles(); err == nil {
			t.Error("expected error for empty prompt file")
		}
	})
}

func TestPromptStore(t *testing.T) {
	store := NewPromptStore(Personas{Generate: "a", Improve: "b"})

	got := store.Current()
	if got.Generate != "a" || got.Improve != "b" {
		t.Errorf("Current = %+v", got)
	}

	store.Replace(Personas{Generate: "c"})
	got = store.Current()
	if got.Generate != "c" || got.Improve != "" {
		t.Errorf("after Replace = %+v", got)
	}
}
