package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"scout/scout/config"
	"scout/scout/utils/logging"

	"github.com/playwright-community/playwright-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const scrollChunk = 1000

var blockedResourceTypes = map[string]bool{
	"image":      true,
	"stylesheet": true,
	"font":       true,
	"media":      true,
}

type BrowserOptions struct {
	PoolSize       int
	Timeout        time.Duration
	Settle         time.Duration
	ScrollPause    time.Duration
	Scroll         bool
	Headless       bool
	BlockResources bool
	UserAgent      string
}

func BrowserOptionsFromConfig(cfg config.RenderConfig) BrowserOptions {
	return BrowserOptions{
		PoolSize:       cfg.PoolSize,
		Timeout:        cfg.Timeout,
		Settle:         cfg.Settle,
		ScrollPause:    500 * time.Millisecond,
		Scroll:         cfg.Scroll,
		Headless:       cfg.Headless,
		BlockResources: cfg.BlockResources,
		UserAgent:      defaultUserAgent,
	}
}

// BrowserRenderer owns one Chromium instance and a fixed pool of pages.
// Each page serves a single navigation at a time.
type BrowserRenderer struct {
	opts    BrowserOptions
	pw      *playwright.Playwright
	browser playwright.Browser
	bctx    playwright.BrowserContext
	pages   *Pool[playwright.Page]
	closed  atomic.Bool
}

// NewBrowserRenderer starts Playwright and opens opts.PoolSize pages.
func NewBrowserRenderer(opts BrowserOptions) (*BrowserRenderer, error) {
	if opts.PoolSize < 1 {
		opts.PoolSize = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, eris.Wrap(err, "start playwright")
	}
	r := &BrowserRenderer{opts: opts, pw: pw}

	r.browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
			"--no-first-run",
			"--disable-background-timer-throttling",
			"--disable-backgrounding-occluded-windows",
			"--disable-renderer-backgrounding",
		},
	})
	if err != nil {
		_ = r.Close()
		return nil, eris.Wrap(err, "launch chromium")
	}

	r.bctx, err = r.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:         playwright.String(opts.UserAgent),
		Viewport:          &playwright.Size{Width: 1920, Height: 1080},
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		_ = r.Close()
		return nil, eris.Wrap(err, "create browser context")
	}

	pages := make([]playwright.Page, 0, opts.PoolSize)
	for i := 0; i < opts.PoolSize; i++ {
		page, err := r.bctx.NewPage()
		if err != nil {
			r.pages = NewPool(pages)
			_ = r.Close()
			return nil, eris.Wrapf(err, "open page %d", i)
		}
		page.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))
		if opts.BlockResources {
			if err := page.Route("**/*", blockResource); err != nil {
				logging.ErrorLogger.Warn("Resource blocking disabled", zap.Error(err))
			}
		}
		pages = append(pages, page)
	}
	r.pages = NewPool(pages)

	logging.AppLogger.Info("Browser initialized successfully",
		zap.Int("pool_size", opts.PoolSize),
		zap.Bool("headless", opts.Headless),
		zap.Bool("block_resources", opts.BlockResources),
	)
	return r, nil
}

func blockResource(route playwright.Route) {
	if blockedResourceTypes[route.Request().ResourceType()] {
		_ = route.Abort()
		return
	}
	_ = route.Continue()
}

func (r *BrowserRenderer) Name() string { return "browser" }

// PoolStats reports the page pool size and how many pages are idle.
func (r *BrowserRenderer) PoolStats() (size, available int) {
	if r.pages == nil {
		return 0, 0
	}
	return r.pages.Size(), r.pages.Available()
}

func (r *BrowserRenderer) Ready() bool {
	return r != nil && !r.closed.Load() && r.browser != nil && r.browser.IsConnected()
}

// Fetch navigates a pooled page to url and returns the serialized DOM.
func (r *BrowserRenderer) Fetch(ctx context.Context, url string) (string, error) {
	defer logging.LogDuration(ctx, "browser_fetch")()

	var html string
	err := r.withPage(ctx, url, func(page playwright.Page) error {
		var err error
		html, err = page.Content()
		return err
	})
	if err != nil {
		return "", err
	}
	logging.AppLogger.Info("Successfully loaded page", zap.String("url", url), zap.Int("characters", len(html)))
	return html, nil
}

// Screenshot renders url and returns a full-page PNG.
func (r *BrowserRenderer) Screenshot(ctx context.Context, url string) ([]byte, error) {
	defer logging.LogDuration(ctx, "browser_screenshot")()

	var png []byte
	err := r.withPage(ctx, url, func(page playwright.Page) error {
		var err error
		png, err = page.Screenshot(playwright.PageScreenshotOptions{
			FullPage: playwright.Bool(true),
			Type:     playwright.ScreenshotTypePng,
		})
		return err
	})
	return png, err
}

func (r *BrowserRenderer) withPage(ctx context.Context, url string, fn func(playwright.Page) error) error {
	if r.closed.Load() {
		return renderFailed(r.Name(), url, ErrClosed)
	}
	page, err := r.pages.Acquire(ctx)
	if err != nil {
		return renderFailed(r.Name(), url, err)
	}
	defer r.pages.Release(page)

	if err := r.navigate(ctx, page, url); err != nil {
		return err
	}
	if err := fn(page); err != nil {
		return renderFailed(r.Name(), url, err)
	}
	return nil
}

// navigate loads url up to DOMContentLoaded, then waits for network idle.
// An idle timeout is tolerated since the document is already usable.
func (r *BrowserRenderer) navigate(ctx context.Context, page playwright.Page, url string) error {
	timeout := r.timeout(ctx)
	logging.AppLogger.Info("Navigating to", zap.String("url", url))

	resp, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(timeout),
	})
	if err != nil {
		logging.ErrorLogger.Error("Error loading page", zap.String("url", url), zap.Error(err))
		return renderFailed(r.Name(), url, err)
	}
	if resp != nil && resp.Status() >= 400 {
		logging.ErrorLogger.Error("Failed to load page", zap.String("url", url), zap.Int("status", resp.Status()))
		return renderFailed(r.Name(), url, fmt.Errorf("status %d", resp.Status()))
	}

	if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(r.timeout(ctx)),
	}); err != nil {
		logging.AppLogger.Debug("Network idle not reached, using DOMContentLoaded", zap.String("url", url), zap.Error(err))
	}

	if err := sleepCtx(ctx, r.opts.Settle); err != nil {
		return renderFailed(r.Name(), url, err)
	}
	if r.opts.Scroll {
		r.scroll(ctx, page)
	}
	if err := ctx.Err(); err != nil {
		return renderFailed(r.Name(), url, err)
	}
	return nil
}

// scroll walks the page in fixed chunks to trigger lazy loading, then
// returns to the top. Failures are not fatal.
func (r *BrowserRenderer) scroll(ctx context.Context, page playwright.Page) {
	height, err := page.Evaluate("() => document.body ? document.body.scrollHeight : 0")
	if err != nil {
		logging.AppLogger.Warn("Error during page scrolling", zap.Error(err))
		return
	}
	for pos := 0; pos < toInt(height); pos += scrollChunk {
		if _, err := page.Evaluate(fmt.Sprintf("window.scrollTo(0, %d)", pos)); err != nil {
			logging.AppLogger.Warn("Error during page scrolling", zap.Error(err))
			return
		}
		if sleepCtx(ctx, r.opts.ScrollPause) != nil {
			return
		}
	}
	_, _ = page.Evaluate("window.scrollTo(0, 0)")
	_ = sleepCtx(ctx, r.opts.ScrollPause)
}

// timeout returns the navigation budget in milliseconds, capped by the
// context deadline.
func (r *BrowserRenderer) timeout(ctx context.Context) float64 {
	d := r.opts.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < d {
			d = left
		}
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return float64(d.Milliseconds())
}

// Close releases every page, the browser and the Playwright driver.
func (r *BrowserRenderer) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	var errs []error
	if r.pages != nil {
		for _, page := range r.pages.Close() {
			errs = append(errs, page.Close())
		}
	}
	if r.bctx != nil {
		errs = append(errs, r.bctx.Close())
	}
	if r.browser != nil {
		errs = append(errs, r.browser.Close())
	}
	if r.pw != nil {
		errs = append(errs, r.pw.Stop())
	}
	logging.AppLogger.Info("Browser cleanup completed")
	return errors.Join(errs...)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
