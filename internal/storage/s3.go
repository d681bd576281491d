package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pageza/foodgram/backend/config"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps images in an S3 bucket.
type S3Store struct {
	client S3API
	bucket string
	urlFor func(key string) string
}

// NewS3Store wraps the configured S3 client.
func NewS3Store(cfg *config.S3Config) *S3Store {
	return &S3Store{
		client: cfg.Client,
		bucket: cfg.BucketName,
		urlFor: cfg.ObjectURL,
	}
}

// NewS3StoreWithClient builds a store around any S3API implementation.
func NewS3StoreWithClient(client S3API, bucket string, urlFor func(string) string) *S3Store {
	return &S3Store{client: client, bucket: bucket, urlFor: urlFor}
}

func (s *S3Store) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.urlFor(key), nil
}

// Delete removes the object behind url. URLs outside the bucket are ignored.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	prefix := s.urlFor("")
	key, ok := strings.CutPrefix(url, prefix)
	if !ok || key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
