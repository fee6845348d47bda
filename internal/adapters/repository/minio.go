package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/okian/skillpulse/internal/domain/model"
)

const csvContentType = "text/csv"

// objectPutter is the subset of *minio.Client the sink uses.
type objectPutter interface {
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinIOConfig holds connection settings for an S3-compatible store.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// MinIOSink uploads CSV objects to a bucket.
type MinIOSink struct {
	client objectPutter
	bucket string
	prefix string
}

// NewMinIOSink connects to the store and makes sure the bucket exists.
func NewMinIOSink(ctx context.Context, cfg MinIOConfig) (*MinIOSink, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}
	return newMinIOSink(client, cfg.Bucket, cfg.Prefix), nil
}

func newMinIOSink(client objectPutter, bucket, prefix string) *MinIOSink {
	return &MinIOSink{client: client, bucket: bucket, prefix: prefix}
}

// Name implements Sink.
func (s *MinIOSink) Name() string { return "minio" }

// Write implements Sink.
func (s *MinIOSink) Write(ctx context.Context, artifact string, rows []model.EmergingSkill) error {
	if err := checkArtifact(artifact); err != nil {
		return err
	}
	data, err := EncodeCSV(rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", artifact, err)
	}
	object := s.prefix + objectName(artifact)
	_, err = s.client.PutObject(ctx, s.bucket, object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: csvContentType})
	if err != nil {
		return fmt.Errorf("%w: put %s/%s: %w", ErrWrite, s.bucket, object, err)
	}
	return nil
}
