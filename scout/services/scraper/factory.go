package scraper

import (
	"scout/scout/config"
	"scout/scout/utils/logging"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// NewFromConfig builds the renderer chain: the browser first, then the
// plain HTTP renderer when fallback is enabled. A browser that fails to
// start is only fatal without the fallback.
func NewFromConfig(cfg config.RenderConfig) (*Chain, error) {
	var renderers []Renderer

	browser, err := NewBrowserRenderer(BrowserOptionsFromConfig(cfg))
	switch {
	case err == nil:
		renderers = append(renderers, browser)
	case !cfg.HTTPFallback:
		return nil, eris.Wrap(err, "start browser renderer")
	default:
		logging.ErrorLogger.Warn("Browser unavailable, continuing with HTTP renderer only", zap.Error(err))
		logging.AppLogger.Warn("Browser unavailable, continuing with HTTP renderer only")
	}

	if cfg.HTTPFallback {
		renderers = append(renderers, NewHTTPRenderer(cfg.Timeout))
	}
	return NewChain(renderers...), nil
}
