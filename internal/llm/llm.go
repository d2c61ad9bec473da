package llm

import (
	"context"
	"fmt"

	"github.com/dgallion1/sheetdeck/internal/config"
)

// Open builds the completion backend selected by cfg.LLMBackend.
func Open(ctx context.Context, cfg config.Config) (Completer, error) {
	switch cfg.LLMBackend {
	case "", "http":
		return NewHTTPClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.LLMTimeout), nil
	case "eino":
		c, err := NewEinoClient(ctx, cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.LLMTimeout)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown llm backend %q", cfg.LLMBackend)
	}
}
