package anthropic

import (
	"context"
	"strings"

	"github.com/adrianliechti/docstofields/pkg/provider"

	"github.com/anthropics/anthropic-sdk-go"
)

var _ provider.Completer = (*Completer)(nil)

type Completer struct {
	*Config
	messages anthropic.MessageService
}

func NewCompleter(url, model string, options ...Option) (*Completer, error) {
	cfg := &Config{
		url:   url,
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Completer{
		Config:   cfg,
		messages: anthropic.NewMessageService(cfg.Options()...),
	}, nil
}

func (c *Completer) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	if options == nil {
		options = new(provider.CompleteOptions)
	}

	req := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(8192),
	}

	if options.MaxTokens != nil {
		req.MaxTokens = int64(*options.MaxTokens)
	}

	if options.Temperature != nil {
		req.Temperature = anthropic.Float(float64(*options.Temperature))
	}

	var system []anthropic.TextBlockParam

	for _, m := range messages {
		switch m.Role {
		case provider.MessageRoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})

		case provider.MessageRoleUser:
			req.Messages = append(req.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))

		case provider.MessageRoleAssistant:
			req.Messages = append(req.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	if len(system) > 0 {
		req.System = system
	}

	resp, err := c.messages.New(ctx, req)

	if err != nil {
		return nil, err
	}

	var content strings.Builder

	for _, block := range resp.Content {
		if text := block.AsText(); text.Text != "" {
			content.WriteString(text.Text)
		}
	}

	return &provider.Completion{
		ID:    resp.ID,
		Model: c.model,

		Message: &provider.Message{
			Role: provider.MessageRoleAssistant,

			Content: content.String(),
		},
	}, nil
}

// ResolveModel strips the bedrock route prefix from caller model identifiers
// like "bedrock_anthropic.claude-v2".
func ResolveModel(model string) string {
	return strings.TrimPrefix(model, "bedrock_")
}

// IsClaudeModel reports whether a caller model identifier routes to this
// provider.
func IsClaudeModel(model string) bool {
	return strings.Contains(model, "anthropic.") || strings.Contains(model, "claude")
}
