package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
//
// Value precedence order:
// 1. Config file values
// 2. Environment variables (RESUMEFORGE_AI_OPENAI_APIKEY, etc.)
// 3. Default values
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	Storage       StorageConfig       `mapstructure:"storage"`
	App           AppConfig           `mapstructure:"app"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AIConfig holds the generation tier configuration. Tiers are tried in
// order: OpenAI-compatible provider, Ollama, deterministic template.
type AIConfig struct {
	OpenAI        OpenAIConfig      `mapstructure:"openai"`
	Ollama        OllamaConfig      `mapstructure:"ollama"`
	CustomPrompts PromptFilesConfig `mapstructure:"customPrompts"`
}

// OpenAIConfig holds the primary chat-completion provider configuration.
// A key carrying the placeholder prefix counts as not configured.
type OpenAIConfig struct {
	APIKey             string               `mapstructure:"apiKey"`
	BaseURL            string               `mapstructure:"baseURL"`
	Model              string               `mapstructure:"model"`
	Temperature        float32              `mapstructure:"temperature"`
	ImproveTemperature float32              `mapstructure:"improveTemperature"`
	Timeout            time.Duration        `mapstructure:"timeout"`
	CircuitBreaker     CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// OllamaConfig holds the self-hosted secondary provider configuration.
type OllamaConfig struct {
	BaseURL            string               `mapstructure:"baseURL"`
	Model              string               `mapstructure:"model"`
	Temperature        float32              `mapstructure:"temperature"`
	ImproveTemperature float32              `mapstructure:"improveTemperature"`
	ProbeTimeout       time.Duration        `mapstructure:"probeTimeout"`
	GenerateTimeout    time.Duration        `mapstructure:"generateTimeout"`
	ImproveTimeout     time.Duration        `mapstructure:"improveTimeout"`
	NumPredict         int                  `mapstructure:"numPredict"`
	ImproveNumPredict  int                  `mapstructure:"improveNumPredict"`
	CircuitBreaker     CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MinRequests      uint32        `mapstructure:"minRequests"`
	FailureThreshold float64       `mapstructure:"failureThreshold"`
}

// PromptFilesConfig points at optional external prompt template files.
// Inline values win over files; files are hot-reloaded when watching is
// enabled.
type PromptFilesConfig struct {
	GeneratePersona     string `mapstructure:"generatePersona"`
	GeneratePersonaFile string `mapstructure:"generatePersonaFile"`
	ImprovePersona      string `mapstructure:"improvePersona"`
	ImprovePersonaFile  string `mapstructure:"improvePersonaFile"`
	WatchFiles          bool   `mapstructure:"watchFiles"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	TLS TLSConfig `mapstructure:"tls"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"`

	MaxRequestSize int64 `mapstructure:"maxRequestSize"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig holds TLS configuration
type TLSConfig struct {
	Mode     string `mapstructure:"mode"` // "disabled" or "server"
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	ByIP           bool          `mapstructure:"byIP"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"`
	Window         time.Duration `mapstructure:"window"`
}

// StorageConfig holds resume history persistence configuration.
type StorageConfig struct {
	// Driver selects the store: "sqlite" or "file".
	Driver string `mapstructure:"driver"`
	// Path is the sqlite database file.
	Path string `mapstructure:"path"`
	// FileDir is the directory for the flat-file fallback store.
	FileDir string `mapstructure:"fileDir"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool             `mapstructure:"enabled"`
	ServiceName     string           `mapstructure:"serviceName"`
	ServiceVersion  string           `mapstructure:"serviceVersion"`
	ServiceInstance string           `mapstructure:"serviceInstance"`
	Tracing         TracingConfig    `mapstructure:"tracing"`
	Metrics         MetricsConfig    `mapstructure:"metrics"`
	Console         ConsoleConfig    `mapstructure:"console"`
	Prometheus      PrometheusConfig `mapstructure:"prometheus"`
	OTLP            OTLPConfig       `mapstructure:"otlp"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console exporter configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("RESUMEFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumeforge/")
	v.AddConfigPath("$HOME/.resumeforge")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.loadPromptFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// OpenAI-compatible primary tier
	v.SetDefault("ai.openai.apiKey", "")
	v.SetDefault("ai.openai.baseURL", "https://api.openai.com/v1")
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.openai.temperature", 0.4)
	v.SetDefault("ai.openai.improveTemperature", 0.35)
	v.SetDefault("ai.openai.timeout", 60*time.Second)
	v.SetDefault("ai.openai.circuitBreaker.enabled", true)
	v.SetDefault("ai.openai.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.openai.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.openai.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("ai.openai.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.openai.circuitBreaker.failureThreshold", 0.6)

	// Ollama secondary tier
	v.SetDefault("ai.ollama.baseURL", "http://127.0.0.1:11434")
	v.SetDefault("ai.ollama.model", "qwen2.5:0.5b")
	v.SetDefault("ai.ollama.temperature", 0.3)
	v.SetDefault("ai.ollama.improveTemperature", 0.25)
	v.SetDefault("ai.ollama.probeTimeout", 2*time.Second)
	v.SetDefault("ai.ollama.generateTimeout", 180*time.Second)
	v.SetDefault("ai.ollama.improveTimeout", 120*time.Second)
	v.SetDefault("ai.ollama.numPredict", 700)
	v.SetDefault("ai.ollama.improveNumPredict", 240)
	v.SetDefault("ai.ollama.circuitBreaker.enabled", true)
	v.SetDefault("ai.ollama.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.ollama.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.ollama.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("ai.ollama.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.ollama.circuitBreaker.failureThreshold", 0.6)

	// Custom prompt templates
	v.SetDefault("ai.customPrompts.generatePersona", "")
	v.SetDefault("ai.customPrompts.generatePersonaFile", "")
	v.SetDefault("ai.customPrompts.improvePersona", "")
	v.SetDefault("ai.customPrompts.improvePersonaFile", "")
	v.SetDefault("ai.customPrompts.watchFiles", false)

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 200*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.tls.mode", "disabled")
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.maxRequestSize", 1024*1024)
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// Storage Configuration
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "resumeforge.db")
	v.SetDefault("storage.fileDir", "data/resumes")

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "text")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumeforge")
	v.SetDefault("observability.serviceVersion", "")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch c.Server.TLS.Mode {
	case "disabled":
	case "server":
		if c.Server.TLS.CertFile == "" || c.Server.TLS.KeyFile == "" {
			return fmt.Errorf("TLS server mode requires certFile and keyFile")
		}
	default:
		return fmt.Errorf("invalid TLS mode: %s", c.Server.TLS.Mode)
	}

	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("sqlite storage requires a path")
		}
	case "file":
		if c.Storage.FileDir == "" {
			return fmt.Errorf("file storage requires a fileDir")
		}
	default:
		return fmt.Errorf("invalid storage driver: %s", c.Storage.Driver)
	}

	if c.AI.Ollama.ProbeTimeout <= 0 || c.AI.Ollama.GenerateTimeout <= 0 || c.AI.Ollama.ImproveTimeout <= 0 {
		return fmt.Errorf("ollama timeouts must be positive")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	return nil
}
