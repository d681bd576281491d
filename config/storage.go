package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the S3 client and bucket used for recipe images
type S3Config struct {
	Client     *s3.Client
	BucketName string
	Region     string
	Endpoint   string
}

// NewS3Config initializes the S3 client from the loaded configuration.
// A custom endpoint switches the client to path-style addressing so that
// S3-compatible stores work too.
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Config{
		Client:     client,
		BucketName: cfg.S3Bucket,
		Region:     cfg.S3Region,
		Endpoint:   cfg.S3Endpoint,
	}, nil
}

// ObjectURL returns the public URL of an object in the bucket.
func (s *S3Config) ObjectURL(key string) string {
	if s.Endpoint != "" {
		return s.Endpoint + "/" + s.BucketName + "/" + key
	}
	return "https://" + s.BucketName + ".s3." + s.Region + ".amazonaws.com/" + key
}
