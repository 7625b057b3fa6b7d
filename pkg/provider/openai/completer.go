package openai

import (
	"context"
	"strings"

	"github.com/adrianliechti/docstofields/pkg/provider"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
)

var _ provider.Completer = (*Completer)(nil)

type Completer struct {
	*Config
	completions openai.ChatCompletionService
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
		Config:      cfg,
		completions: openai.NewChatCompletionService(cfg.Options()...),
	}, nil
}

func (c *Completer) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	if options == nil {
		options = new(provider.CompleteOptions)
	}

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),

		Messages: convertMessages(messages),
	}

	if options.Temperature != nil {
		req.Temperature = openai.Float(float64(*options.Temperature))
	}

	if options.MaxTokens != nil {
		req.MaxCompletionTokens = openai.Int(int64(*options.MaxTokens))
	}

	if options.Format == provider.CompletionFormatJSON {
		req.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.completions.New(ctx, req)

	if err != nil {
		return nil, err
	}

	result := &provider.Completion{
		ID:    resp.ID,
		Model: resp.Model,

		Message: &provider.Message{
			Role: provider.MessageRoleAssistant,
		},
	}

	if len(resp.Choices) > 0 {
		result.Message.Content = resp.Choices[0].Message.Content
	}

	return result, nil
}

func convertMessages(messages []provider.Message) []openai.ChatCompletionMessageParamUnion {
	var result []openai.ChatCompletionMessageParamUnion

	for _, m := range messages {
		switch m.Role {
		case provider.MessageRoleSystem:
			result = append(result, openai.SystemMessage(m.Content))

		case provider.MessageRoleUser:
			result = append(result, openai.UserMessage(m.Content))

		case provider.MessageRoleAssistant:
			result = append(result, openai.AssistantMessage(m.Content))
		}
	}

	return result
}

// ResolveModel maps a caller model identifier to an API model name using a
// longest-match over the supported model families.
func ResolveModel(model string) string {
	switch {
	case strings.Contains(model, "gpt-4o"):
		return "gpt-4o"

	case strings.Contains(model, "gpt-4-turbo"):
		return "gpt-4-turbo"

	case strings.Contains(model, "gpt-4"):
		return "gpt-4"

	case strings.Contains(model, "gpt-3.5"):
		return "gpt-3.5-turbo"

	default:
		return "gpt-4-turbo"
	}
}
