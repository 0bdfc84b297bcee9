package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Completer using the official Anthropic SDK.
type AnthropicClient struct {
	provider string
	opts     []option.RequestOption
}

// NewAnthropicClient builds a messages-API Completer.
func NewAnthropicClient(provider, apiKey string) (*AnthropicClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("anthropic api key is required")
	}
	return &AnthropicClient{
		provider: provider,
		opts:     []option.RequestOption{option.WithAPIKey(apiKey)},
	}, nil
}

// Complete implements Completer using the messages API.
func (c *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	client := anthropic.NewClient(c.opts...)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.ModelID),
		MaxTokens:   req.MaxTokens,
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := client.Messages.New(ctx, params)
	if err != nil {
		return "", c.classify(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", &Error{Kind: KindUnknown, Provider: c.provider, Detail: "no text blocks in response"}
	}
	return sb.String(), nil
}

func (c *AnthropicClient) classify(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return &Error{
			Kind:     classifyStatus(apierr.StatusCode),
			Provider: c.provider,
			Detail:   apierr.Error(),
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &Error{Kind: KindUnavailable, Provider: c.provider, Detail: err.Error()}
}
