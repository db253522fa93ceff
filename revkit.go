package revkit

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// Generate sends a system prompt and a user prompt to the model and returns the
// text of the first choice.
func Generate(
	ctx context.Context,
	model Model,
	system, user string,
	options ...llms.CallOption,
) (string, error) {
	resp, err := model.GenerateContent(ctx, Messages(system, user), options...)
	if err != nil {
		return "", err
	}
	content := resp.Content()
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// Messages builds the system + human message pair every tool sends.
// An empty system prompt is omitted.
func Messages(system, user string) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, 2)
	if system != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, user))
	return messages
}
