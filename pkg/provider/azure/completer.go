package azure

import (
	"context"

	"github.com/adrianliechti/docstofields/pkg/provider"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
)

var _ provider.Completer = (*Completer)(nil)

// Completer targets an Azure OpenAI resource. Unlike the direct provider,
// the deployment name is passed through verbatim as the model identifier.
type Completer struct {
	*Config
	completions openai.ChatCompletionService
}

func NewCompleter(endpoint, deployment string, options ...Option) (*Completer, error) {
	cfg := &Config{
		endpoint:   endpoint,
		deployment: deployment,
	}

	for _, option := range options {
		option(cfg)
	}

	opts, err := cfg.Options()

	if err != nil {
		return nil, err
	}

	return &Completer{
		Config:      cfg,
		completions: openai.NewChatCompletionService(opts...),
	}, nil
}

func (c *Completer) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	if options == nil {
		options = new(provider.CompleteOptions)
	}

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.deployment),

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
