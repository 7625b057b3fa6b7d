package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/adrianliechti/docstofields/pkg/extract"
)

type ExtractionService struct {
	Options []RequestOption
}

func NewExtractionService(opts ...RequestOption) ExtractionService {
	return ExtractionService{
		Options: opts,
	}
}

func (r *ExtractionService) New(ctx context.Context, input extract.Request, opts ...RequestOption) (*extract.Response, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	body, err := json.Marshal(input)

	if err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, "POST", strings.TrimRight(c.URL, "/")+"/extract", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if key := firstNonEmpty(input.Key, c.Key); key != "" {
		req.Header.Set("x-auth-key", key)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(resp.Status)
	}

	var result extract.Response

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Extract lets the client stand in for the in-process extraction backend.
func (c *Client) Extract(ctx context.Context, req extract.Request) (*extract.Response, error) {
	return c.Extractions.New(ctx, req)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
