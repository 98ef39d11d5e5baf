package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/pkoukk/tiktoken-go"

	"ai-video-writer/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AIServiceAdapter = (*OpenAIAdapter)(nil)

// OpenAIAdapter implements adapter.AIServiceAdapter with the official SDK.
type OpenAIAdapter struct {
	client openai.Client
	model  string
}

func NewOpenAIAdapter(apiKey, model string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIAdapter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (o *OpenAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{o.model}, nil
}

// CountTokens uses tiktoken locally; the API has no counting endpoint.
// Per-message framing overhead is approximated at 4 tokens.
func (o *OpenAIAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	if model == "" {
		model = o.model
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0, err
		}
	}
	total := 0
	for _, m := range messages {
		total += len(enc.Encode(m.Content, nil, nil)) + 4
	}
	return total, nil
}

func (o *OpenAIAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	text, _, err := o.ChatWithUsage(ctx, model, messages)
	return text, err
}

func (o *OpenAIAdapter) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	if model == "" {
		model = o.model
	}
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: toOpenAIMessages(messages),
	}
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", adapter.Usage{}, err
	}
	if len(resp.Choices) == 0 {
		return "", adapter.Usage{}, errors.New("openai: empty response")
	}
	u := adapter.Usage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}
	return resp.Choices[0].Message.Content, u, nil
}

func toOpenAIMessages(messages []adapter.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch strings.ToLower(m.Role) {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
