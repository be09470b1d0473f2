// AngelaMos | 2026
// storage.go

package core

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/propsunday/classifieds-api/internal/config"
)

// ObjectStorage is an S3-compatible bucket used for listing photos and
// advertisement creatives.
type ObjectStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewObjectStorage(
	ctx context.Context,
	cfg config.StorageConfig,
) (*ObjectStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(checkCtx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}

	if !exists {
		err := client.MakeBucket(checkCtx, cfg.Bucket, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &ObjectStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

func (s *ObjectStorage) Put(
	ctx context.Context,
	objectName string,
	body io.Reader,
	size int64,
	contentType string,
	metadata map[string]string,
) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, body, size,
		minio.PutObjectOptions{
			ContentType:  contentType,
			UserMetadata: metadata,
		})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", objectName, err)
	}

	return s.URL(objectName), nil
}

func (s *ObjectStorage) URL(objectName string) string {
	return s.publicURL + "/" + objectName
}

func (s *ObjectStorage) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.client.BucketExists(pingCtx, s.bucket); err != nil {
		return fmt.Errorf("object storage ping failed: %w", err)
	}
	return nil
}
