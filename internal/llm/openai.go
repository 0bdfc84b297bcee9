package llm

import (
	"context"
	"errors"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements Completer using the official openai-go SDK.
// With a base URL override it also serves OpenAI-compatible gateways such
// as OpenRouter.
type OpenAIClient struct {
	provider string
	opts     []option.RequestOption
}

// NewOpenAIClient builds a chat-completions Completer. baseURL may be empty
// for the default endpoint; provider names the client in classified errors.
func NewOpenAIClient(provider, apiKey, baseURL string) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{provider: provider, opts: opts}, nil
}

// Complete implements Completer using the chat completions API.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	client := openai.NewClient(c.opts...)

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	msgs = append(msgs, openai.UserMessage(req.Prompt))

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.ModelID),
		Messages:    msgs,
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(req.MaxTokens),
	})
	if err != nil {
		return "", c.classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindUnknown, Provider: c.provider, Detail: "empty choices in response"}
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", &Error{Kind: KindUnknown, Provider: c.provider, Detail: "empty completion text"}
	}
	return text, nil
}

func (c *OpenAIClient) classify(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &Error{
			Kind:     classifyStatus(apierr.StatusCode),
			Provider: c.provider,
			Detail:   apierr.Message,
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &Error{Kind: KindUnavailable, Provider: c.provider, Detail: err.Error()}
}
