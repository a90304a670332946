package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"

	"clientportal/internal/config"
)

// s3Storage implements Storage with the AWS SDK. A custom endpoint switches to
// path-style addressing for S3-compatible services.
type s3Storage struct {
	client *s3.Client
	bucket string
	logger *slog.Logger
}

// NewS3 builds an S3 client from cfg. Static credentials are used when set, otherwise
// the SDK's default chain applies.
func NewS3(ctx context.Context, cfg config.S3Config, logger *slog.Logger) (Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		// The buildable client keeps AWS_CA_BUNDLE and other transport options working.
		awsconfig.WithHTTPClient(awshttp.NewBuildableClient()),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	otelaws.AppendMiddlewares(&awsCfg.APIOptions)

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Storage{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.With("component", "storage", "driver", "s3"),
	}, nil
}

// Save buffers r in memory; client files are capped at a few megabytes and PutObject
// needs a known content length.
func (s *s3Storage) Save(ctx context.Context, r io.Reader, originalName string, category Category) (SavedFile, error) {
	if !category.Valid() {
		return SavedFile{}, ErrInvalidCategory
	}
	name, key := newObjectKey(originalName, category)

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return SavedFile{}, fmt.Errorf("read upload: %w", err)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String(contentTypeFor(key)),
	})
	if err != nil {
		return SavedFile{}, fmt.Errorf("put object: %w", err)
	}

	s.logger.Debug("object stored", "location", key, "size", buf.Len())
	return SavedFile{Name: name, Location: key}, nil
}

func (s *s3Storage) Delete(ctx context.Context, location string) error {
	key, err := cleanKey(location)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isS3NotFound(err) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *s3Storage) Exists(ctx context.Context, location string) (bool, error) {
	key, err := cleanKey(location)
	if err != nil {
		return false, err
	}
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("head object: %w", err)
	}
	return true, nil
}

func isS3NotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
