package client

import (
	"net/http"
)

// Client is the HTTP adapter to a remote docstofields backend. It satisfies
// the pipeline's Backend interface.
type Client struct {
	Extractions  ExtractionService
	TextExtracts TextExtractService
}

func New(url string, opts ...RequestOption) *Client {
	opts = append(opts, WithURL(url))

	return &Client{
		Extractions:  NewExtractionService(opts...),
		TextExtracts: NewTextExtractService(opts...),
	}
}

type RequestConfig struct {
	URL string
	Key string

	Client *http.Client
}

type RequestOption func(*RequestConfig)

func WithURL(url string) RequestOption {
	return func(c *RequestConfig) {
		c.URL = url
	}
}

func WithKey(key string) RequestOption {
	return func(c *RequestConfig) {
		c.Key = key
	}
}

func WithClient(client *http.Client) RequestOption {
	return func(c *RequestConfig) {
		c.Client = client
	}
}

func newRequestConfig(opts ...RequestOption) *RequestConfig {
	c := &RequestConfig{
		Client: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}
