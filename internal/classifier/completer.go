package classifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/spec-kit/ticket-desk/internal/config"
)

// ErrMissingAPIKey is reported on every call when no credential is configured.
var ErrMissingAPIKey = errors.New("classifier API key not configured")

type missingKeyCompleter struct {
	provider string
}

func (m missingKeyCompleter) Complete(context.Context, string) (string, error) {
	return "", fmt.Errorf("%s: %w", m.provider, ErrMissingAPIKey)
}

// NewCompleter builds the completer for the configured provider. A missing
// API key is not a startup error: classification degrades to the fallback.
func NewCompleter(ctx context.Context, cfg config.ClassifierConfig) (Completer, error) {
	if cfg.APIKey == "" {
		return missingKeyCompleter{provider: cfg.Provider}, nil
	}
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiCompleter(ctx, cfg.APIKey, cfg.Model)
	case config.ProviderAnthropic:
		return NewAnthropicCompleter(cfg.APIKey, cfg.Model, cfg.MaxTokens), nil
	}
	return nil, fmt.Errorf("unknown classifier provider %q", cfg.Provider)
}
