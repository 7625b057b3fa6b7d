package pdf

import (
	"bytes"
	"context"
	"strings"

	"github.com/adrianliechti/docstofields/pkg/codec"
	"github.com/adrianliechti/docstofields/pkg/extractor"

	"github.com/ledongthuc/pdf"
)

var _ extractor.Provider = (*Extractor)(nil)

// Extractor extracts plain text from PDF documents in-process.
type Extractor struct {
}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, file codec.File, options *extractor.ExtractOptions) (*extractor.Document, error) {
	if options == nil {
		options = new(extractor.ExtractOptions)
	}

	if !isPDF(file) {
		return nil, extractor.ErrUnsupported
	}

	r, err := pdf.NewReader(bytes.NewReader(file.Content), int64(len(file.Content)))

	if err != nil {
		return nil, err
	}

	text, err := r.GetPlainText()

	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	if _, err := buf.ReadFrom(text); err != nil {
		return nil, err
	}

	return &extractor.Document{
		Text: buf.String(),

		Pages: r.NumPage(),

		Blocks: []extractor.Block{},
	}, nil
}

func isPDF(file codec.File) bool {
	if file.ContentType == "application/pdf" {
		return true
	}

	if strings.HasSuffix(strings.ToLower(file.Name), ".pdf") {
		return true
	}

	return bytes.HasPrefix(file.Content, []byte("%PDF-"))
}
