package objectstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/utils"
)

// Service stores the original document bytes so ingested chunks can always be
// traced back to their source file.
type Service interface {
	Put(ctx context.Context, objectPath string, data []byte, contentType string) error
	Remove(ctx context.Context, objectPath string) error
}

type service struct {
	log    *logger.Logger
	client *minio.Client
	bucket string
}

func NewService(ctx context.Context, logg *logger.Logger) (Service, error) {
	serviceLog := logg.With("service", "ObjectStore")

	endpoint := utils.GetEnv("MINIO_ENDPOINT", "localhost:9000", logg)
	accessKey := utils.GetEnv("MINIO_ACCESS_KEY", "", logg)
	secretKey := utils.GetEnv("MINIO_SECRET_KEY", "", logg)
	bucket := utils.GetEnv("MINIO_BUCKET", "documents", logg)
	secure := utils.GetEnvAsBool("MINIO_SECURE", false, logg)

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check MinIO bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create MinIO bucket %q: %w", bucket, err)
		}
		serviceLog.Info("Created MinIO bucket", "bucket", bucket)
	}

	return &service{log: serviceLog, client: client, bucket: bucket}, nil
}

func (s *service) Put(ctx context.Context, objectPath string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectPath, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to store object %q: %w", objectPath, err)
	}
	return nil
}

func (s *service) Remove(ctx context.Context, objectPath string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectPath, minio.RemoveObjectOptions{})
}
