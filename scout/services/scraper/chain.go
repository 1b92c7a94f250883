package scraper

import (
	"context"
	"errors"

	"scout/scout/utils/logging"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Chain tries renderers in order and returns the first success.
type Chain struct {
	renderers []Renderer
}

func NewChain(renderers ...Renderer) *Chain {
	return &Chain{renderers: renderers}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	for _, r := range c.renderers {
		if !r.Ready() {
			continue
		}
		html, err := r.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		logging.AppLogger.Debug("renderer failed, trying next",
			zap.String("renderer", r.Name()),
			zap.String("url", url),
			zap.Error(err),
		)
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		return "", eris.Wrap(lastErr, "all renderers failed")
	}
	return "", renderFailed(c.Name(), url, errors.New("no ready renderer"))
}

// Screenshot delegates to the first ready renderer that can take one.
func (c *Chain) Screenshot(ctx context.Context, url string) ([]byte, error) {
	for _, r := range c.renderers {
		if s, ok := r.(Screenshotter); ok && r.Ready() {
			return s.Screenshot(ctx, url)
		}
	}
	return nil, renderFailed(c.Name(), url, errors.New("no renderer supports screenshots"))
}

// CanScreenshot reports whether Screenshot has a renderer to use.
func (c *Chain) CanScreenshot() bool {
	for _, r := range c.renderers {
		if _, ok := r.(Screenshotter); ok && r.Ready() {
			return true
		}
	}
	return false
}

func (c *Chain) Ready() bool {
	for _, r := range c.renderers {
		if r.Ready() {
			return true
		}
	}
	return false
}

// PoolStats sums the pools of every pooled renderer in the chain.
func (c *Chain) PoolStats() (size, available int) {
	for _, r := range c.renderers {
		if p, ok := r.(PoolReporter); ok {
			s, a := p.PoolStats()
			size += s
			available += a
		}
	}
	return size, available
}

func (c *Chain) Close() error {
	var errs []error
	for _, r := range c.renderers {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}
