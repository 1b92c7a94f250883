package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"scout/scout/agents/core"
	"scout/scout/services/scraper"
	"scout/scout/sources/storage"
	"scout/scout/utils/logging"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var ErrInvalidURL = eris.New("a valid http(s) url is required")

// ScreenshotStore persists page captures.
type ScreenshotStore interface {
	UploadScreenshot(ctx context.Context, url string, png []byte) (*storage.Screenshot, error)
	GetScreenshot(ctx context.Context, key string) ([]byte, error)
}

// PageController serves model-free page analysis and screenshots.
type PageController struct {
	fetcher core.Fetcher
	shooter scraper.Screenshotter
	store   ScreenshotStore
}

// NewPageController accepts a nil shooter or store; screenshot endpoints
// then report 503.
func NewPageController(fetcher core.Fetcher, shooter scraper.Screenshotter, store ScreenshotStore) *PageController {
	return &PageController{fetcher: fetcher, shooter: shooter, store: store}
}

func (c *PageController) Analyze(ctx context.Context, rawURL string) (*scraper.PageAnalysis, int, error) {
	url := core.NormalizeURL(rawURL)
	if url == "" {
		return nil, http.StatusBadRequest, ErrInvalidURL
	}
	html, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, renderStatus(err), err
	}
	analysis, err := scraper.Analyze(html, url)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return analysis, http.StatusOK, nil
}

func (c *PageController) Screenshot(ctx context.Context, rawURL string) (*storage.Screenshot, int, error) {
	if c.shooter == nil || c.store == nil {
		return nil, http.StatusServiceUnavailable, storage.ErrNotConfigured
	}
	url := core.NormalizeURL(rawURL)
	if url == "" {
		return nil, http.StatusBadRequest, ErrInvalidURL
	}
	png, err := c.shooter.Screenshot(ctx, url)
	if err != nil {
		return nil, renderStatus(err), err
	}
	shot, err := c.store.UploadScreenshot(ctx, url, png)
	if err != nil {
		logging.ErrorLogger.Error("Screenshot upload failed", zap.String("url", url), zap.Error(err))
		return nil, http.StatusInternalServerError, err
	}
	return shot, http.StatusOK, nil
}

func (c *PageController) GetScreenshot(ctx context.Context, key string) ([]byte, int, error) {
	if c.store == nil {
		return nil, http.StatusServiceUnavailable, storage.ErrNotConfigured
	}
	if !strings.HasPrefix(key, "screenshots/") || strings.Contains(key, "..") {
		return nil, http.StatusBadRequest, eris.Errorf("invalid screenshot key %q", key)
	}
	data, err := c.store.GetScreenshot(ctx, key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, http.StatusNotFound, eris.Errorf("screenshot %q not found", key)
	case err != nil:
		logging.ErrorLogger.Error("Screenshot read failed", zap.String("key", key), zap.Error(err))
		return nil, http.StatusInternalServerError, err
	case len(data) == 0:
		return nil, http.StatusNotFound, eris.Errorf("screenshot %q not found", key)
	}
	return data, http.StatusOK, nil
}

func renderStatus(err error) int {
	if errors.Is(err, scraper.ErrRenderFailed) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
