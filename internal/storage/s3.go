package storage

import (
	"context" // Request scoped operations
	"fmt"     // Error wrapping
	"io"      // Streams
	"strings" // String manipulation

	"github.com/aws/aws-sdk-go-v2/aws"         // AWS core types
	"github.com/aws/aws-sdk-go-v2/config"      // SDK config loading
	"github.com/aws/aws-sdk-go-v2/credentials" // Static credentials
	"github.com/aws/aws-sdk-go-v2/service/s3"  // S3 client
)

// S3Config configures an S3 or MinIO bucket
type S3Config struct {
	Region       string
	Bucket       string
	Endpoint     string // Custom endpoint, e.g. MinIO
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	PublicURL    string // Base URL objects are served from
}

// ObjectAPI is the subset of the S3 client the disk uses
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Disk stores files in a bucket
type S3Disk struct {
	client  ObjectAPI
	bucket  string
	baseURL string
}

// NewS3Disk builds an S3 client from cfg
func NewS3Disk(ctx context.Context, cfg S3Config) (*S3Disk, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	base := cfg.PublicURL
	if base == "" && cfg.Endpoint != "" {
		base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return NewS3DiskWithClient(client, cfg.Bucket, base), nil
}

// NewS3DiskWithClient wraps an existing client
func NewS3DiskWithClient(client ObjectAPI, bucket, baseURL string) *S3Disk {
	return &S3Disk{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

// Put uploads r to key
func (d *S3Disk) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (d *S3Disk) Delete(ctx context.Context, key string) error {
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

// URL returns baseURL/key
func (d *S3Disk) URL(key string) string {
	return d.baseURL + "/" + strings.TrimLeft(key, "/")
}
