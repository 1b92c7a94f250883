// scout/services/llm/llm.go
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"scout/scout/config"

	"github.com/rotisserie/eris"
)

// ErrModelUnavailable wraps every transport, auth or response failure.
var ErrModelUnavailable = eris.New("language model unavailable")

// LanguageModel turns a prompt into a free-text completion.
type LanguageModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// unavailable tags err with ErrModelUnavailable while keeping the cause.
func unavailable(provider string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrModelUnavailable, provider, err)
}

// New builds the client for cfg.Provider.
func New(cfg config.LLMConfig) (LanguageModel, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderGemini, config.ProviderOpenAI, config.ProviderGroq:
		return NewGPTClient(cfg.Provider, cfg.BaseURL, cfg.APIKey, cfg.Model, httpClient), nil
	case config.ProviderOllama:
		return NewOllamaClient(cfg.BaseURL, cfg.Model, httpClient), nil
	case config.ProviderAnthropic:
		return NewAnthropicClient(cfg.APIKey, cfg.Model, cfg.MaxTokens, cfg.Timeout), nil
	default:
		return nil, eris.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// withDefaultTimeout is used by clients that do not carry an *http.Client.
func withDefaultTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
