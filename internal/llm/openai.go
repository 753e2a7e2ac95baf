package llm

import (
	"context"
	"fmt"
	log "log/slog"
	"time"

	openai "github.com/openai/openai-go/v3"
)

// maxHistory bounds the rolling conversation window sent with each turn.
// Oldest exchanges fall off first; the system prompt always stays.
const maxHistory = 20

// OpenAI is a chat-completions backend that keeps a rolling conversation
// history so follow-up turns have context.
type OpenAI struct {
	client  openai.Client
	model   openai.ChatModel
	system  string
	history []openai.ChatCompletionMessageParamUnion
}

func NewOpenAI(client openai.Client, model string) *OpenAI {
	m := openai.ChatModel(model)
	if model == "" {
		m = openai.ChatModelGPT5Nano
	}
	return &OpenAI{client: client, model: m}
}

// Init stores the system prompt and asks the model for an opening line.
// A failed greeting is not fatal; the conversation just starts silent.
func (o *OpenAI) Init(systemPrompt string) (string, error) {
	o.system = systemPrompt
	o.history = nil

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	greeting, err := o.Generate(ctx, greetingPrompt)
	if err != nil {
		log.Warn("greeting generation failed", "err", err)
		return "", nil
	}
	return greeting, nil
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(o.history)+2)
	msgs = append(msgs, openai.SystemMessage(o.system))
	msgs = append(msgs, o.history...)
	msgs = append(msgs, openai.UserMessage(prompt))

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    o.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty message content")
	}

	log.Debug("Generated", "model", o.model, "chars", len(content))

	o.history = append(o.history,
		openai.UserMessage(prompt),
		openai.AssistantMessage(content))
	if len(o.history) > maxHistory {
		o.history = o.history[len(o.history)-maxHistory:]
	}
	return content, nil
}

// Reset drops the conversation history, keeping the system prompt.
func (o *OpenAI) Reset() { o.history = nil }
