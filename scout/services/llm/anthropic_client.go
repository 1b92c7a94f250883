package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"scout/scout/config"
	"scout/scout/utils/logging"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

type AnthropicClient struct {
	client    sdk.Client
	model     string
	maxTokens int64
	timeout   time.Duration
}

// NewAnthropicClient builds a client on the official SDK. Extra options
// (base URL, HTTP client) are appended after the API key.
func NewAnthropicClient(apiKey, model string, maxTokens int64, timeout time.Duration, opts ...option.RequestOption) *AnthropicClient {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicClient{
		client:    sdk.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
	}
}

func (c *AnthropicClient) Name() string { return config.ProviderAnthropic }

func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (string, error) {
	defer logging.LogDuration(ctx, "anthropic_complete")()
	ctx, cancel := withDefaultTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt))},
	})
	if err != nil {
		logging.ErrorLogger.Error("anthropic message failed", zap.Error(err))
		return "", unavailable(c.Name(), err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", unavailable(c.Name(), fmt.Errorf("no text content in response"))
	}
	return sb.String(), nil
}
