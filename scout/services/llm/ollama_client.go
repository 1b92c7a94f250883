package llm

import (
	"context"
	"net/http"
	"strings"

	"scout/scout/config"
	httputils "scout/scout/utils/http"
	"scout/scout/utils/logging"

	"go.uber.org/zap"
)

type OllamaClient struct {
	baseURL string
	model   string
	http    *http.Client
}

func NewOllamaClient(baseURL, model string, httpClient *http.Client) *OllamaClient {
	if baseURL == "" {
		baseURL = "http://localhost:11434/api"
	}
	return &OllamaClient{baseURL: strings.TrimSuffix(baseURL, "/"), model: model, http: httpClient}
}

type ollamaChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type ollamaChatResponse struct {
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

func (c *OllamaClient) Name() string { return config.ProviderOllama }

func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	defer logging.LogDuration(ctx, "ollama_complete")()
	req := ollamaChatRequest{
		Model:    c.model,
		Messages: []Message{{Role: "user", Content: prompt}},
		Stream:   false,
	}
	var resp ollamaChatResponse
	if err := httputils.PostJSON(ctx, c.http, c.baseURL+"/chat", nil, req, &resp); err != nil {
		logging.ErrorLogger.Error("ollama request failed", zap.Error(err))
		return "", unavailable(c.Name(), err)
	}
	return resp.Message.Content, nil
}
