// Package storage hands synthesized audio to the video service as a URL,
// either through an object store or inline.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"persona-video/internal/app/api/did"
	apperrors "persona-video/internal/app/errors"
)

const audioContentType = "audio/mpeg"

// AudioStore turns mp3 bytes into a URL the video service can fetch
type AudioStore interface {
	Put(ctx context.Context, mp3 []byte) (string, error)
}

// InlineStore embeds the audio as a data URL. It makes no network calls.
type InlineStore struct{}

// Put implements AudioStore
func (InlineStore) Put(_ context.Context, mp3 []byte) (string, error) {
	if len(mp3) == 0 {
		return "", apperrors.Validation(apperrors.StageStorage, "audio payload is empty")
	}
	return did.AudioDataURL(mp3), nil
}

// objectClient is the subset of *minio.Client the store uses
type objectClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// MinioConfig represents the object store settings
type MinioConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	PresignTTL time.Duration
}

// MinioStore uploads audio to a bucket and returns a presigned GET URL
type MinioStore struct {
	client objectClient
	bucket string
	ttl    time.Duration
	newKey func() string
	logger *zap.Logger
}

// NewMinioStore connects to the object store and ensures the bucket exists
func NewMinioStore(ctx context.Context, config MinioConfig, logger *zap.Logger) (*MinioStore, error) {
	if config.Endpoint == "" || config.AccessKey == "" || config.SecretKey == "" {
		return nil, apperrors.Configuration("audio store endpoint and credentials are required")
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, apperrors.Configuration("failed to create MinIO client: %v", err)
	}

	store := newMinioStore(client, config.Bucket, config.PresignTTL, logger)
	if err := store.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func newMinioStore(client objectClient, bucket string, ttl time.Duration, logger *zap.Logger) *MinioStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MinioStore{
		client: client,
		bucket: bucket,
		ttl:    ttl,
		newKey: func() string { return fmt.Sprintf("audio/%s.mp3", uuid.New().String()) },
		logger: logger,
	}
}

func (s *MinioStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return apperrors.Storage(fmt.Errorf("failed to check bucket existence: %w", err))
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return apperrors.Storage(fmt.Errorf("failed to create bucket: %w", err))
	}
	s.logger.Info("created audio bucket", zap.String("bucket", s.bucket))
	return nil
}

// Put implements AudioStore
func (s *MinioStore) Put(ctx context.Context, mp3 []byte) (string, error) {
	if len(mp3) == 0 {
		return "", apperrors.Validation(apperrors.StageStorage, "audio payload is empty")
	}

	key := s.newKey()
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(mp3), int64(len(mp3)), minio.PutObjectOptions{
		ContentType: audioContentType,
	})
	if err != nil {
		return "", apperrors.Storage(fmt.Errorf("failed to upload %s: %w", key, err))
	}

	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.ttl, url.Values{})
	if err != nil {
		return "", apperrors.Storage(fmt.Errorf("failed to presign %s: %w", key, err))
	}

	s.logger.Debug("uploaded synthesized audio", zap.String("key", key), zap.Int("bytes", len(mp3)))
	return presigned.String(), nil
}
