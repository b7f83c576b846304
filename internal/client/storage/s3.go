// Package storage reads and writes encrypted document blobs in an
// S3-compatible object store. Only ciphertext ever crosses this boundary.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds the connection settings for the object store. BaseEndpoint
// points at a MinIO or other S3-compatible deployment.
type Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
}

type S3Store struct {
	client *s3.Client
}

func NewS3Store(ctx context.Context, cfg *Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client}, nil
}

// PutObject uploads data to bucket/path.
func (s *S3Store) PutObject(ctx context.Context, bucket, path string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &path,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s/%s: %w", bucket, path, err)
	}
	return nil
}

// GetObject downloads the full object at bucket/path.
func (s *S3Store) GetObject(ctx context.Context, bucket, path string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &path,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucket, path, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s/%s: %w", bucket, path, err)
	}
	return data, nil
}
