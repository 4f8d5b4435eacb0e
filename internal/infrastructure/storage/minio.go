package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gallery-auction/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioImageStore keeps artwork image binaries. Uploads return a public
// locator built from the configured public URL; Owns recognizes locators
// under that prefix so artwork deletion can cascade to objects the catalog
// exclusively owns while leaving external URLs alone.
type MinioImageStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioImageStore(cfg config.MinioConfig) (*MinioImageStore, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("minio endpoint is required")
	}
	if strings.TrimSpace(cfg.AccessKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("minio access key and secret key are required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("minio bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	return &MinioImageStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// EnsureBucket makes sure the configured bucket exists.
func (s *MinioImageStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

func (s *MinioImageStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key), nil
}

func (s *MinioImageStore) Delete(ctx context.Context, locator string) error {
	key, ok := s.keyFromLocator(locator)
	if !ok {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *MinioImageStore) Exists(ctx context.Context, locator string) (bool, error) {
	key, ok := s.keyFromLocator(locator)
	if !ok {
		return false, nil
	}
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *MinioImageStore) Owns(locator string) bool {
	_, ok := s.keyFromLocator(locator)
	return ok
}

func (s *MinioImageStore) keyFromLocator(locator string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", s.publicURL, s.bucket)
	if !strings.HasPrefix(locator, prefix) {
		return "", false
	}
	return strings.TrimPrefix(locator, prefix), true
}
