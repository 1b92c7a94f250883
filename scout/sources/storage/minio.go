package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"path"
	"time"

	"scout/scout/config"
	"scout/scout/utils/logging"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured = eris.New("object storage not configured")
	ErrNotFound      = eris.New("object not found")
)

type MinIOClient struct {
	client *minio.Client
	bucket string
}

// Screenshot describes a stored page capture.
type Screenshot struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMinIOClient(ctx context.Context, cfg config.MinIOConfig) (*MinIOClient, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, eris.Wrap(err, "create minio client")
	}
	// Create bucket if not exists
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, eris.Wrapf(err, "check bucket %s", cfg.Bucket)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, eris.Wrapf(err, "create bucket %s", cfg.Bucket)
		}
	}
	logging.AppLogger.Info("MinIO connected", zap.String("endpoint", cfg.Endpoint), zap.String("bucket", cfg.Bucket))
	return &MinIOClient{client: client, bucket: cfg.Bucket}, nil
}

// ScreenshotKey groups captures of the same URL under its md5 hash.
func ScreenshotKey(url, id string) string {
	hash := fmt.Sprintf("%x", md5.Sum([]byte(url)))
	return path.Join("screenshots", hash, id+".png")
}

func (m *MinIOClient) UploadScreenshot(ctx context.Context, url string, png []byte) (*Screenshot, error) {
	key := ScreenshotKey(url, uuid.NewString())
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(png), int64(len(png)), minio.PutObjectOptions{
		ContentType:  "image/png",
		UserMetadata: map[string]string{"source-url": url},
	})
	if err != nil {
		return nil, eris.Wrapf(err, "upload %s", key)
	}
	logging.AppLogger.Info("Uploaded screenshot", zap.String("key", key), zap.Int("bytes", len(png)))
	return &Screenshot{Key: key, URL: url, Size: int64(len(png)), CreatedAt: time.Now().UTC()}, nil
}

func (m *MinIOClient) GetScreenshot(ctx context.Context, key string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, getError(key, err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, getError(key, err)
	}
	return data, nil
}

// getError maps a missing key to ErrNotFound and keeps every other cause.
func getError(key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return eris.Wrapf(ErrNotFound, "get %s", key)
	}
	return eris.Wrapf(err, "get %s", key)
}
