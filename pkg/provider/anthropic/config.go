package anthropic

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type Config struct {
	url string

	token string
	model string

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

func (cfg *Config) Options() []option.RequestOption {
	url := cfg.url

	if url == "" {
		url = "https://api.anthropic.com/"
	}

	url = strings.TrimRight(url, "/") + "/"

	if strings.Contains(cfg.url, "amazonaws.com") {
		options := []option.RequestOption{
			bedrock.WithLoadDefaultConfig(context.Background()),
		}

		if cfg.client != nil {
			options = append(options, option.WithHTTPClient(cfg.client))
		}

		return options
	}

	token := cfg.token

	if token == "" {
		token = os.Getenv("ANTHROPIC_API_KEY")
	}

	options := []option.RequestOption{
		option.WithBaseURL(url),
	}

	if cfg.client != nil {
		options = append(options, option.WithHTTPClient(cfg.client))
	}

	if token != "" {
		options = append(options, option.WithAPIKey(token))
	}

	return options
}
