package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	httputils "scout/scout/utils/http"
	"scout/scout/utils/logging"

	"go.uber.org/zap"
)

// GPTClient talks to any OpenAI-compatible chat completions endpoint
// (OpenAI, Groq, Gemini's OpenAI surface).
type GPTClient struct {
	provider string
	apiKey   string
	baseURL  string
	model    string
	http     *http.Client
}

func NewGPTClient(provider, baseURL, apiKey, model string, httpClient *http.Client) *GPTClient {
	return &GPTClient{
		provider: provider,
		apiKey:   apiKey,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		model:    model,
		http:     httpClient,
	}
}

type gptChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature float64   `json:"temperature"`
}

type gptResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *GPTClient) Name() string { return c.provider }

// Complete executes a single non-streaming chat completion.
func (c *GPTClient) Complete(ctx context.Context, prompt string) (string, error) {
	defer logging.LogDuration(ctx, c.provider+"_complete")()

	req := gptChatRequest{
		Model:       c.model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Stream:      false,
		Temperature: 0.1,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	var parsed gptResponse
	if err := httputils.PostJSON(ctx, c.http, c.baseURL+"/chat/completions", headers, req, &parsed); err != nil {
		logging.ErrorLogger.Error("chat completion failed", zap.String("provider", c.provider), zap.Error(err))
		return "", unavailable(c.provider, err)
	}
	if len(parsed.Choices) == 0 {
		return "", unavailable(c.provider, fmt.Errorf("no content in response"))
	}
	return parsed.Choices[0].Message.Content, nil
}
