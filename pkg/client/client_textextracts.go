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

type TextExtractService struct {
	Options []RequestOption
}

func NewTextExtractService(opts ...RequestOption) TextExtractService {
	return TextExtractService{
		Options: opts,
	}
}

func (r *TextExtractService) New(ctx context.Context, input extract.ExtractTextRequest, opts ...RequestOption) (*extract.ExtractTextResponse, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	body, err := json.Marshal(input)

	if err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, "POST", strings.TrimRight(c.URL, "/")+"/extractText", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if c.Key != "" {
		req.Header.Set("x-auth-key", c.Key)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(resp.Status)
	}

	var result extract.ExtractTextResponse

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// ExtractText lets the client stand in for the in-process extraction
// backend.
func (c *Client) ExtractText(ctx context.Context, req extract.ExtractTextRequest) (*extract.ExtractTextResponse, error) {
	return c.TextExtracts.New(ctx, req)
}
