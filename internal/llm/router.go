package llm

import (
	"context"
	"log/slog"

	"ideaforge/internal/config"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// Router dispatches completion requests to the client configured for the
// model's provider. Built once at startup from config; immutable afterwards.
type Router struct {
	completers map[string]Completer
}

// NewRouter constructs clients for every provider with credentials present.
// Providers without credentials are skipped, not errors: a deployment may
// carry a single provider key and a catalog trimmed to match.
func NewRouter(cfg *config.Config, logger *slog.Logger) (*Router, error) {
	completers := make(map[string]Completer)

	if cfg.OpenAIAPIKey != "" {
		client, err := NewOpenAIClient("openai", cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
		if err != nil {
			return nil, err
		}
		completers["openai"] = client
		logger.Info("llm provider configured", "provider", "openai")
	}

	if cfg.AnthropicAPIKey != "" {
		client, err := NewAnthropicClient("anthropic", cfg.AnthropicAPIKey)
		if err != nil {
			return nil, err
		}
		completers["anthropic"] = client
		logger.Info("llm provider configured", "provider", "anthropic")
	}

	if cfg.OpenRouterAPIKey != "" {
		client, err := NewOpenAIClient("openrouter", cfg.OpenRouterAPIKey, openRouterBaseURL)
		if err != nil {
			return nil, err
		}
		completers["openrouter"] = client
		logger.Info("llm provider configured", "provider", "openrouter")
	}

	return &Router{completers: completers}, nil
}

// Complete implements Completer by routing on the request's provider.
func (r *Router) Complete(ctx context.Context, req Request) (string, error) {
	completer, ok := r.completers[req.Provider]
	if !ok {
		return "", &Error{
			Kind:     KindUnavailable,
			Provider: req.Provider,
			Detail:   "provider is not configured",
		}
	}
	return completer.Complete(ctx, req)
}
