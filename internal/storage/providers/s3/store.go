// Package s3 implements storage.Client on Amazon S3 or any S3-compatible endpoint.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/storage"
)

// Options configure the store.
type Options struct {
	Bucket        string
	Prefix        string // Prepended to every key, e.g. "uploads"
	Region        string
	Endpoint      string // Custom endpoint for LocalStack or MinIO; enables path-style addressing
	PublicBaseURL string // Base for public URLs; derived from bucket and region if empty

	// Static credentials; when empty the default AWS credential chain is used.
	AccessKeyID     string
	SecretAccessKey string
}

// Store writes blobs as S3 objects.
type Store struct {
	client  *s3.Client
	bucket  string
	prefix  string
	baseURL string
}

// NewStore loads the AWS configuration and builds an S3 client.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	zap.L().Info("s3 storage configured",
		zap.String("bucket", opts.Bucket),
		zap.String("region", cfg.Region),
		zap.String("endpoint", opts.Endpoint),
	)

	return &Store{
		client:  client,
		bucket:  opts.Bucket,
		prefix:  strings.Trim(opts.Prefix, "/"),
		baseURL: publicBaseURL(opts, cfg.Region),
	}, nil
}

func publicBaseURL(opts Options, region string) string {
	switch {
	case opts.PublicBaseURL != "":
		return opts.PublicBaseURL
	case opts.Endpoint != "":
		return strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, region)
	}
}

// Put uploads content under the prefixed key. S3 overwrites silently, so the
// requested key is always the stored key; callers use random filenames.
func (s *Store) Put(ctx context.Context, key string, content io.Reader, contentType string) (storage.Object, error) {
	key, err := storage.CleanKey(key)
	if err != nil {
		return storage.Object{}, err
	}

	// Payload signing over plain HTTP endpoints needs a seekable body.
	data, err := io.ReadAll(content)
	if err != nil {
		return storage.Object{}, fmt.Errorf("read blob: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.objectKey(key)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return storage.Object{}, fmt.Errorf("failed to put object: %w", err)
	}

	return storage.Object{
		Key:         key,
		URL:         s.URL(key),
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	key, err := storage.CleanKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *Store) URL(key string) string {
	return storage.JoinURL(s.baseURL, s.objectKey(key))
}

func (s *Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

var _ storage.Client = (*Store)(nil)
