package provider

import (
	"context"
)

type Completer interface {
	Complete(ctx context.Context, messages []Message, options *CompleteOptions) (*Completion, error)
}

type Message struct {
	Role MessageRole

	Content string
}

func SystemMessage(text string) Message {
	return Message{
		Role: MessageRoleSystem,

		Content: text,
	}
}

func UserMessage(text string) Message {
	return Message{
		Role: MessageRoleUser,

		Content: text,
	}
}

type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

type CompleteOptions struct {
	MaxTokens   *int
	Temperature *float32

	Format CompletionFormat
}

type CompletionFormat string

const (
	CompletionFormatJSON CompletionFormat = "json"
)

type Completion struct {
	ID string

	Model string

	Message *Message
}

// Text returns the completion's textual payload.
func (c *Completion) Text() string {
	if c == nil || c.Message == nil {
		return ""
	}

	return c.Message.Content
}
