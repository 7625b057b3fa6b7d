package extractor

import (
	"context"
	"errors"

	"github.com/adrianliechti/docstofields/pkg/codec"
)

type Provider interface {
	Extract(ctx context.Context, file codec.File, options *ExtractOptions) (*Document, error)
}

var (
	ErrUnsupported = errors.New("unsupported type")
)

type ExtractOptions struct {
	// Enhanced requests the layout-aware backend (e.g. Textract) when available
	Enhanced bool
}

type Document struct {
	Text string `json:"text"`

	Pages int `json:"pages,omitempty"`

	Blocks []Block `json:"blocks"`
}

type Block struct {
	Page int `json:"page,omitempty"`

	Text string `json:"text,omitempty"`

	Box [4]int `json:"box,omitempty"` // [x1, y1, x2, y2]

	Confidence float64 `json:"confidence,omitempty"`
}
