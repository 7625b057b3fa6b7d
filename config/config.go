package config

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/adrianliechti/docstofields/pkg/extractor"
	"github.com/adrianliechti/docstofields/pkg/extractor/custom"
	"github.com/adrianliechti/docstofields/pkg/extractor/pdf"
)

// Config holds the full application configuration. Values come from an
// optional YAML file and are overridden by environment variables.
type Config struct {
	Addr string `yaml:"addr"`

	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`

	AzureEndpoint   string `yaml:"azureEndpoint"`
	AzureDeployment string `yaml:"azureDeployment"`
	AzureAPIVersion string `yaml:"azureApiVersion"`

	// ExtractorURL selects a remote text-extraction service. Empty means the
	// built-in PDF extractor.
	ExtractorURL string `yaml:"extractorUrl"`
	ExtractorKey string `yaml:"extractorKey"`

	EnableTextract bool `yaml:"enableTextract"`

	// StatePath is the file backing persisted viewer geometry
	StatePath string `yaml:"statePath"`

	RateLimit float64 `yaml:"rateLimit"`
	RateBurst int     `yaml:"rateBurst"`
}

// Parse loads configuration: defaults, then the YAML file when a path is
// given, then environment overrides.
func Parse(path string) (*Config, error) {
	cfg := &Config{
		Addr: ":3000",

		Provider: "openai",
		Model:    "gpt-4o",

		AzureAPIVersion: "2024-02-15-preview",

		StatePath: "docstofields.state",

		RateLimit: 10,
		RateBurst: 20,
	}

	if path != "" {
		data, err := os.ReadFile(path)

		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}

	cfg.Provider = getEnv("AI_PROVIDER", cfg.Provider)
	cfg.Model = getEnv("DEFAULT_MODEL", cfg.Model)

	cfg.AzureEndpoint = getEnv("AZURE_OPENAI_ENDPOINT", cfg.AzureEndpoint)
	cfg.AzureDeployment = getEnv("AZURE_OPENAI_DEPLOYMENT", cfg.AzureDeployment)
	cfg.AzureAPIVersion = getEnv("AZURE_OPENAI_API_VERSION", cfg.AzureAPIVersion)

	cfg.ExtractorURL = getEnv("EXTRACTOR_URL", cfg.ExtractorURL)
	cfg.ExtractorKey = getEnv("EXTRACTOR_KEY", cfg.ExtractorKey)

	cfg.EnableTextract = getEnvAsBool("ENABLE_TEXTRACT", cfg.EnableTextract)

	cfg.StatePath = getEnv("STATE_PATH", cfg.StatePath)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Provider != "openai" && cfg.Provider != "azure" {
		return errors.New("unsupported provider: " + cfg.Provider)
	}

	if cfg.Provider == "azure" && cfg.AzureEndpoint == "" {
		return errors.New("azure provider requires an endpoint")
	}

	return nil
}

// Extractor returns the configured text-extraction provider.
func (cfg *Config) Extractor() extractor.Provider {
	if cfg.ExtractorURL != "" {
		opts := []custom.Option{}

		if cfg.ExtractorKey != "" {
			opts = append(opts, custom.WithKey(cfg.ExtractorKey))
		}

		client, err := custom.New(cfg.ExtractorURL, opts...)

		if err == nil {
			return client
		}
	}

	return pdf.New()
}

// Key returns the completion credential for the configured provider.
func (cfg *Config) Key() string {
	if cfg.Provider == "azure" {
		return os.Getenv("AZURE_OPENAI_API_KEY")
	}

	return os.Getenv("OPENAI_API_KEY")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}

	return fallback
}
