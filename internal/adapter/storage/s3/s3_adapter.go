// Package s3 uploads listing photos to S3-compatible object storage and
// hands back the durable public URL that gets stored on the listing.
// Orphaned objects are never cleaned up here.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/casalivre/listing-service/internal/platform/logger"
)

type Storage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

func NewStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool, log *logger.Logger) (*Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", endpoint, err)
	}

	ctx := context.Background()
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		exists, existsErr := client.BucketExists(ctx, bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("make bucket %s: %w", bucket, err)
		}
	}

	log.Info("object storage ready", "endpoint", endpoint, "bucket", bucket)
	return &Storage{client: client, bucket: bucket, logger: log}, nil
}

// Upload stores the image under a generated key, keeping the original
// extension, and returns its public URL.
func (s *Storage) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	key := fmt.Sprintf("photos/%s%s", uuid.New().String(), filepath.Ext(fileName))

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: http.DetectContentType(data),
	})
	if err != nil {
		s.logger.Error("upload failed", "bucket", s.bucket, "key", key, "error", err.Error())
		return "", fmt.Errorf("upload object %s: %w", key, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key)
	s.logger.Info("photo uploaded", "key", key, "size_bytes", len(data), "url", url)
	return url, nil
}
