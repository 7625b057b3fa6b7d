package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/adrianliechti/docstofields/pkg/codec"
	"github.com/adrianliechti/docstofields/pkg/extractor"
	"github.com/adrianliechti/docstofields/pkg/provider"
)

const defaultTemperature = float32(0.1)

// Service resolves document text, renders the instruction template and
// drives the completion backend. It is the in-process form of the extraction
// backend; pkg/client is the remote one.
type Service struct {
	extractor extractor.Provider

	completer CompleterFunc

	logger *slog.Logger
}

// CompleterFunc selects a completion provider for a request.
type CompleterFunc func(req Request) (provider.Completer, error)

type Option func(*Service)

func WithCompleterFunc(fn CompleterFunc) Option {
	return func(s *Service) {
		s.completer = fn
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(provider extractor.Provider, options ...Option) *Service {
	s := &Service{
		extractor: provider,

		completer: ResolveCompleter,
	}

	for _, option := range options {
		option(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// ExtractText resolves the plain text of a single encoded file.
func (s *Service) ExtractText(ctx context.Context, req ExtractTextRequest) (*ExtractTextResponse, error) {
	file, err := codec.Decode(req.File)

	if err != nil {
		return nil, err
	}

	document, err := s.extractor.Extract(ctx, *file, &extractor.ExtractOptions{
		Enhanced: req.EnableTextract,
	})

	if err != nil {
		return nil, err
	}

	blocks := document.Blocks

	if blocks == nil {
		blocks = []extractor.Block{}
	}

	return &ExtractTextResponse{
		Text: document.Text,

		Blocks: blocks,
		Pages:  document.Pages,
	}, nil
}

// Extract runs one extraction or classification pass: resolve files, render
// the instruction, invoke the completer, return completion text plus the
// resolved files in request order.
func (s *Service) Extract(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	files, err := s.resolveFiles(ctx, req)

	if err != nil {
		return nil, err
	}

	prompt := renderPrompt(req.Prompt, files, req.Fields, req.Labels)

	completer, err := s.completer(req)

	if err != nil {
		return nil, err
	}

	temperature := defaultTemperature

	completion, err := completer.Complete(ctx, []provider.Message{
		provider.SystemMessage(req.SystemPrompt),
		provider.UserMessage(prompt),
	}, &provider.CompleteOptions{
		Temperature: &temperature,

		Format: provider.CompletionFormatJSON,
	})

	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "extract completed",
		"model", req.Model,
		"files", len(files),
		"fields", len(req.Fields),
		"labels", len(req.Labels),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return &Response{
		Text: completion.Text(),

		Files: files,
	}, nil
}

// resolveFiles materializes the text of every payload. Payloads carrying
// text pass through unchanged; encoded payloads run through the extractor.
func (s *Service) resolveFiles(ctx context.Context, req Request) ([]FilePayload, error) {
	result := make([]FilePayload, 0, len(req.Files))

	for _, f := range req.Files {
		if f.Text != "" {
			result = append(result, FilePayload{
				Name: f.Name,

				Text:   f.Text,
				Blocks: f.Blocks,
			})

			continue
		}

		file, err := codec.Decode(codec.Encoded{
			Name:   f.Name,
			Base64: f.Base64,
		})

		if err != nil {
			return nil, err
		}

		document, err := s.extractor.Extract(ctx, *file, &extractor.ExtractOptions{
			Enhanced: req.EnableTextract,
		})

		if err != nil {
			return nil, err
		}

		blocks := document.Blocks

		if blocks == nil {
			blocks = []extractor.Block{}
		}

		result = append(result, FilePayload{
			Name: f.Name,

			Text:   document.Text,
			Blocks: blocks,
		})
	}

	return result, nil
}
