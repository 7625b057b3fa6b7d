package azure

import (
	"errors"
	"net/http"
	"os"

	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
)

const defaultAPIVersion = "2024-02-15-preview"

type Config struct {
	endpoint   string
	deployment string

	apiVersion string

	token string

	client *http.Client
}

type Option func(*Config)

func WithClient(client *http.Client) Option {
	return func(c *Config) {
		c.client = client
	}
}

func WithToken(token string) Option {
	return func(c *Config) {
		c.token = token
	}
}

func WithAPIVersion(version string) Option {
	return func(c *Config) {
		c.apiVersion = version
	}
}

func (cfg *Config) Options() ([]option.RequestOption, error) {
	if cfg.endpoint == "" {
		return nil, errors.New("missing azure endpoint")
	}

	if cfg.deployment == "" {
		return nil, errors.New("missing azure deployment")
	}

	version := cfg.apiVersion

	if version == "" {
		version = defaultAPIVersion
	}

	token := cfg.token

	if token == "" {
		token = os.Getenv("AZURE_OPENAI_API_KEY")
	}

	options := []option.RequestOption{
		azure.WithEndpoint(cfg.endpoint, version),
	}

	if token != "" {
		options = append(options, azure.WithAPIKey(token))
	}

	if cfg.client != nil {
		options = append(options, option.WithHTTPClient(cfg.client))
	}

	return options, nil
}
