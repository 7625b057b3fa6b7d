package custom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/adrianliechti/docstofields/pkg/codec"
	"github.com/adrianliechti/docstofields/pkg/extractor"
)

var _ extractor.Provider = (*Client)(nil)

// Client delegates text extraction to a remote service exposing the
// /extractText endpoint.
type Client struct {
	url string
	key string

	client *http.Client
}

type Option func(*Client)

func WithKey(key string) Option {
	return func(c *Client) {
		c.key = key
	}
}

func WithClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

func New(url string, options ...Option) (*Client, error) {
	if url == "" || !strings.HasPrefix(url, "http") {
		return nil, errors.New("invalid url")
	}

	c := &Client{
		url: strings.TrimRight(url, "/"),

		client: http.DefaultClient,
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *Client) Extract(ctx context.Context, file codec.File, options *extractor.ExtractOptions) (*extractor.Document, error) {
	if options == nil {
		options = new(extractor.ExtractOptions)
	}

	encoded, err := codec.Encode(file)

	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]any{
		"file":           encoded,
		"enableTextract": options.Enhanced,
	})

	if err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/extractText", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if c.key != "" {
		req.Header.Set("x-auth-key", c.key)
	}

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(resp.Status)
	}

	var document extractor.Document

	if err := json.NewDecoder(resp.Body).Decode(&document); err != nil {
		return nil, err
	}

	return &document, nil
}
