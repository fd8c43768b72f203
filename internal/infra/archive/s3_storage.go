package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/crop-advisor/internal/domain/report"
)

// S3Storage uploads history archives to any S3-compatible bucket.
type S3Storage struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewS3Storage constructs the storage adapter.
func NewS3Storage(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*S3Storage, error) {
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL(endpoint),
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Storage{client: client, bucket: bucket, logger: logger.With("component", "archive.s3")}, nil
}

func (s *S3Storage) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "BucketAlreadyOwnedByYou" {
			return nil
		}
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("archive bucket created", "bucket", s.bucket)
	return nil
}

// Put uploads a single archive object.
func (s *S3Storage) Put(ctx context.Context, key string, data []byte, contentType string) (report.StoredObject, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return report.StoredObject{}, err
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:      contentType,
		DisableMultipart: len(data) < 5*1024*1024,
	})
	if err != nil {
		return report.StoredObject{}, err
	}
	return report.StoredObject{Key: key, Size: info.Size, ETag: info.ETag}, nil
}

var _ report.ObjectStorage = (*S3Storage)(nil)

// sanitizeEndpoint strips scheme and path so minio.New accepts the host.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}

func useSSL(endpoint string) bool {
	return !strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "http://")
}
