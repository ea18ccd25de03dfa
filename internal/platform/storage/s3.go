// Copyright (c) 2026 Study Partner. All rights reserved.

/*
Package storage persists uploaded document bytes in S3-compatible object storage.

Row metadata lives in PostgreSQL; only the raw PDF payload goes to the bucket.
The [ObjectStore] interface keeps domain services testable with an in-memory
fake, while the production implementation targets AWS S3 or any endpoint that
speaks the same API (MinIO, R2).
*/
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

// ObjectStore abstracts the blob operations document services need.
type ObjectStore interface {
	// Put stores the payload under key, overwriting any existing object.
	Put(ctx context.Context, key string, contentType string, payload []byte) error

	// Get retrieves the full payload stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// S3Store implements [ObjectStore] against an S3-compatible bucket.
type S3Store struct {
	client *s3.Client
	bucket string
}

// S3Config carries bucket location and static credentials.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Store builds a bucket-scoped object store.
//
// When AccessKey is empty the default AWS credential chain applies, which
// covers instance profiles and environment credentials.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.Endpoint)
			// Path-style addressing is required by most self-hosted S3 endpoints.
			options.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

// Put implements [ObjectStore].
func (s *S3Store) Put(ctx context.Context, key string, contentType string, payload []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("storage: put %q: %w", key, err)
	}
	return nil
}

// Get implements [ObjectStore].
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: get %q: %w", key, err)
	}
	defer func() { _ = output.Body.Close() }()

	payload, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("storage: read %q: %w", key, err)
	}

	return payload, nil
}

// Delete implements [ObjectStore].
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: delete %q: %w", key, err)
	}
	return nil
}
