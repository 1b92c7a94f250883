package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"scout/scout/config"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestScreenshotKey(t *testing.T) {
	key := ScreenshotKey("https://www.cnn.com", "abc")
	assert.Equal(t, "screenshots/b7f8938851261c8403f75f40eb1d8645/abc.png", key)

	parts := strings.Split(key, "/")
	assert.Equal(t, parts[1], strings.Split(ScreenshotKey("https://www.cnn.com", "other"), "/")[1])
	assert.NotEqual(t, parts[1], strings.Split(ScreenshotKey("https://www.bbc.com", "abc"), "/")[1])
}

func TestNewMinIOClient_NotConfigured(t *testing.T) {
	_, err := NewMinIOClient(context.Background(), config.MinIOConfig{})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestGetError(t *testing.T) {
	missing := getError("screenshots/a/b.png", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404})
	assert.True(t, errors.Is(missing, ErrNotFound))

	denied := getError("screenshots/a/b.png", minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403})
	assert.False(t, errors.Is(denied, ErrNotFound))
	assert.ErrorContains(t, denied, "screenshots/a/b.png")

	transport := getError("screenshots/a/b.png", errors.New("connection refused"))
	assert.False(t, errors.Is(transport, ErrNotFound))
}
