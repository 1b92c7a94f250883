package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"scout/scout/services/scraper"
	"scout/scout/sources/storage"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageFetcher struct {
	html string
	err  error
	urls []string
}

func (f *pageFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.html, f.err
}

type pageShooter struct {
	png []byte
	err error
}

func (s *pageShooter) Screenshot(context.Context, string) ([]byte, error) {
	return s.png, s.err
}

type memoryStore struct {
	objects   map[string][]byte
	uploadErr error
	getErr    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}}
}

func (m *memoryStore) UploadScreenshot(_ context.Context, url string, png []byte) (*storage.Screenshot, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	key := storage.ScreenshotKey(url, "fixed")
	m.objects[key] = png
	return &storage.Screenshot{Key: key, URL: url, Size: int64(len(png)), CreatedAt: time.Now()}, nil
}

func (m *memoryStore) GetScreenshot(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func renderErr() error {
	return eris.Wrapf(scraper.ErrRenderFailed, "browser: https://x.test: %v", errors.New("timeout"))
}

func TestAnalyze_Success(t *testing.T) {
	f := &pageFetcher{html: `<html><head><title>Hello</title></head><body><h1>A headline that is long</h1></body></html>`}
	c := NewPageController(f, nil, nil)

	a, status, err := c.Analyze(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"https://example.com"}, f.urls)
	assert.Equal(t, "Hello", a.Title)
	assert.Equal(t, []string{"A headline that is long"}, a.Headlines)
}

func TestAnalyze_Errors(t *testing.T) {
	_, status, err := NewPageController(&pageFetcher{}, nil, nil).Analyze(context.Background(), "not a url")
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Equal(t, http.StatusBadRequest, status)

	_, status, err = NewPageController(&pageFetcher{err: renderErr()}, nil, nil).Analyze(context.Background(), "https://x.test")
	assert.ErrorIs(t, err, scraper.ErrRenderFailed)
	assert.Equal(t, http.StatusBadGateway, status)

	_, status, _ = NewPageController(&pageFetcher{err: errors.New("boom")}, nil, nil).Analyze(context.Background(), "https://x.test")
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestScreenshot_RoundTrip(t *testing.T) {
	store := newMemoryStore()
	c := NewPageController(&pageFetcher{}, &pageShooter{png: []byte("png")}, store)

	shot, status, err := c.Screenshot(context.Background(), "https://www.cnn.com")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "screenshots/b7f8938851261c8403f75f40eb1d8645/fixed.png", shot.Key)
	assert.Equal(t, int64(3), shot.Size)

	data, status, err := c.GetScreenshot(context.Background(), shot.Key)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []byte("png"), data)
}

func TestScreenshot_Errors(t *testing.T) {
	_, status, err := NewPageController(&pageFetcher{}, nil, nil).Screenshot(context.Background(), "https://x.test")
	assert.ErrorIs(t, err, storage.ErrNotConfigured)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	c := NewPageController(&pageFetcher{}, &pageShooter{err: renderErr()}, newMemoryStore())
	_, status, _ = c.Screenshot(context.Background(), "")
	assert.Equal(t, http.StatusBadRequest, status)
	_, status, _ = c.Screenshot(context.Background(), "https://x.test")
	assert.Equal(t, http.StatusBadGateway, status)

	failing := newMemoryStore()
	failing.uploadErr = errors.New("bucket gone")
	_, status, _ = NewPageController(&pageFetcher{}, &pageShooter{png: []byte("x")}, failing).Screenshot(context.Background(), "https://x.test")
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestGetScreenshot_Errors(t *testing.T) {
	_, status, _ := NewPageController(&pageFetcher{}, nil, nil).GetScreenshot(context.Background(), "screenshots/a/b.png")
	assert.Equal(t, http.StatusServiceUnavailable, status)

	c := NewPageController(&pageFetcher{}, nil, newMemoryStore())
	for _, key := range []string{"other/a.png", "screenshots/../secret"} {
		_, status, _ = c.GetScreenshot(context.Background(), key)
		assert.Equal(t, http.StatusBadRequest, status, key)
	}
	_, status, _ = c.GetScreenshot(context.Background(), "screenshots/missing/x.png")
	assert.Equal(t, http.StatusNotFound, status)

	broken := newMemoryStore()
	broken.getErr = errors.New("access denied")
	_, status, err := NewPageController(&pageFetcher{}, nil, broken).GetScreenshot(context.Background(), "screenshots/a/b.png")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.ErrorContains(t, err, "access denied")
}
