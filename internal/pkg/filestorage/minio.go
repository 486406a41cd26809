package filestorage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// MinioConfig holds connection settings for an S3 compatible object store
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PublicURL string // Base URL objects are served from, e.g. http://localhost:9000
}

// MinioStorage stores files as objects in MinIO buckets
type MinioStorage struct {
	client    *minio.Client
	publicURL string
	logger    zerolog.Logger
}

const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// NewMinioStorage connects to MinIO and makes sure every bucket exists and is publicly readable
func NewMinioStorage(ctx context.Context, cfg MinioConfig, logger zerolog.Logger, buckets ...string) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint
	}

	s := &MinioStorage{
		client:    client,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}

	for _, bucket := range buckets {
		if err := s.ensureBucket(ctx, bucket); err != nil {
			return nil, err
		}
	}

	logger.Info().Str("endpoint", cfg.Endpoint).Strs("buckets", buckets).Msg("MinIO storage initialized")
	return s, nil
}

func (s *MinioStorage) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("error checking if bucket exists: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("error creating bucket %s: %w", bucket, err)
		}
		s.logger.Info().Str("bucket", bucket).Msg("Bucket created")
	}

	if err := s.client.SetBucketPolicy(ctx, bucket, fmt.Sprintf(publicReadPolicy, bucket)); err != nil {
		return fmt.Errorf("error setting bucket policy for %s: %w", bucket, err)
	}
	return nil
}

// SaveFile uploads the file under a random object name
func (s *MinioStorage) SaveFile(ctx context.Context, bucket string, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", ErrEmptyFile
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	objectName := uuid.New().String() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, bucket, objectName, file, fileHeader.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("bucket", bucket).Str("object", objectName).Msg("Failed to upload object")
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.publicURL, bucket, objectName)
	s.logger.Info().Str("bucket", bucket).Str("object", objectName).Msg("Object uploaded")
	return url, nil
}

// DeleteFile removes the object behind fileURL
func (s *MinioStorage) DeleteFile(ctx context.Context, bucket, fileURL string) error {
	if fileURL == "" {
		return nil
	}

	objectName := objectNameFromURL(fileURL)
	if err := s.client.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error().Err(err).Str("bucket", bucket).Str("object", objectName).Msg("Failed to remove object")
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}
