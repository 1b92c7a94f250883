package scraper

import (
	"context"

	"github.com/rotisserie/eris"
)

// ErrRenderFailed marks navigation errors and HTTP statuses >= 400.
var ErrRenderFailed = eris.New("render failed")

// ErrClosed is returned by renderers after Close.
var ErrClosed = eris.New("renderer closed")

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Renderer turns a URL into serialized HTML.
type Renderer interface {
	Name() string
	Fetch(ctx context.Context, url string) (string, error)
	Ready() bool
	Close() error
}

// Screenshotter is implemented by renderers that can capture a page image.
type Screenshotter interface {
	Screenshot(ctx context.Context, url string) ([]byte, error)
}

// PoolReporter is implemented by renderers backed by a page pool.
type PoolReporter interface {
	PoolStats() (size, available int)
}

// renderFailed wraps cause under ErrRenderFailed with the renderer and URL.
func renderFailed(renderer, url string, cause error) error {
	if cause == nil {
		return eris.Wrapf(ErrRenderFailed, "%s: %s", renderer, url)
	}
	return eris.Wrapf(ErrRenderFailed, "%s: %s: %v", renderer, url, cause)
}
