package scraper

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	httputils "scout/scout/utils/http"
	"scout/scout/utils/logging"

	"go.uber.org/zap"
)

const maxHTTPBody = 5 << 20

// HTTPRenderer fetches raw HTML with a plain GET. It does not run scripts.
type HTTPRenderer struct {
	client    *http.Client
	userAgent string
}

func NewHTTPRenderer(timeout time.Duration) *HTTPRenderer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPRenderer{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext:         (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		userAgent: defaultUserAgent,
	}
}

func (h *HTTPRenderer) Name() string { return "http" }
func (h *HTTPRenderer) Ready() bool  { return true }
func (h *HTTPRenderer) Close() error { return nil }

func (h *HTTPRenderer) Fetch(ctx context.Context, url string) (string, error) {
	defer logging.LogDuration(ctx, "http_fetch")()

	body, status, err := httputils.GetBody(ctx, h.client, url, map[string]string{
		"User-Agent": h.userAgent,
		"Accept":     "text/html,application/xhtml+xml",
	}, maxHTTPBody)
	if err != nil {
		return "", renderFailed(h.Name(), url, err)
	}
	if status >= 400 {
		logging.ErrorLogger.Error("Failed to load page", zap.String("url", url), zap.Int("status", status))
		return "", renderFailed(h.Name(), url, fmt.Errorf("status %d", status))
	}
	return string(body), nil
}
