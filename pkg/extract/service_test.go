package extract_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adrianliechti/docstofields/pkg/codec"
	"github.com/adrianliechti/docstofields/pkg/extract"
	"github.com/adrianliechti/docstofields/pkg/extractor"
	"github.com/adrianliechti/docstofields/pkg/field"
	"github.com/adrianliechti/docstofields/pkg/provider"
)

type fakeExtractor struct {
	calls int
}

func (e *fakeExtractor) Extract(ctx context.Context, file codec.File, options *extractor.ExtractOptions) (*extractor.Document, error) {
	e.calls++

	return &extractor.Document{
		Text: "text of " + file.Name,

		Pages: 1,
	}, nil
}

type fakeCompleter struct {
	messages []provider.Message
	options  *provider.CompleteOptions

	text string
}

func (c *fakeCompleter) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	c.messages = messages
	c.options = options

	return &provider.Completion{
		Message: &provider.Message{
			Role: provider.MessageRoleAssistant,

			Content: c.text,
		},
	}, nil
}

func TestServiceExtractText(t *testing.T) {
	service := extract.NewService(&fakeExtractor{})

	encoded, err := codec.Encode(codec.File{Name: "a.pdf", Content: []byte("raw")})
	require.NoError(t, err)

	resp, err := service.ExtractText(t.Context(), extract.ExtractTextRequest{File: *encoded})
	require.NoError(t, err)

	require.Equal(t, "text of a.pdf", resp.Text)
	require.NotNil(t, resp.Blocks)
	require.Equal(t, 1, resp.Pages)
}

func TestServiceExtract(t *testing.T) {
	completer := &fakeCompleter{text: `{"amount":"10"}`}
	resolver := &fakeExtractor{}

	service := extract.NewService(resolver,
		extract.WithCompleterFunc(func(req extract.Request) (provider.Completer, error) {
			return completer, nil
		}),
	)

	encoded, err := codec.Encode(codec.File{Name: "b.pdf", Content: []byte("raw")})
	require.NoError(t, err)

	resp, err := service.Extract(t.Context(), extract.Request{
		Prompt:       "Docs:{input_documents}\nFields:{fields}",
		SystemPrompt: "system instructions",

		Fields: []field.Field{
			{Name: "amount"},
		},

		Files: []extract.FilePayload{
			{Name: "a.pdf", Text: "Invoice #1"},
			{Name: "b.pdf", Base64: encoded.Base64},
		},
	})

	require.NoError(t, err)
	require.Equal(t, `{"amount":"10"}`, resp.Text)

	// only the unresolved file hits the extractor
	require.Equal(t, 1, resolver.calls)

	require.Len(t, resp.Files, 2)
	require.Equal(t, "Invoice #1", resp.Files[0].Text)
	require.Equal(t, "text of b.pdf", resp.Files[1].Text)

	require.Len(t, completer.messages, 2)
	require.Equal(t, provider.MessageRoleSystem, completer.messages[0].Role)
	require.Equal(t, "system instructions", completer.messages[0].Content)

	prompt := completer.messages[1].Content
	require.Contains(t, prompt, "Document 1 (a.pdf):\nInvoice #1")
	require.Contains(t, prompt, "Document 2 (b.pdf):\ntext of b.pdf")
	require.Contains(t, prompt, "- amount: Extract this field")
	require.NotContains(t, prompt, "{input_documents}")

	require.NotNil(t, completer.options.Temperature)
	require.Equal(t, float32(0.1), *completer.options.Temperature)
	require.Equal(t, provider.CompletionFormatJSON, completer.options.Format)
}
