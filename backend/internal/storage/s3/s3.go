// Package s3 stores uploaded media in an S3-compatible bucket (AWS, MinIO).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	internal_config "github.com/aljannat-dev/aljannat/shared/config"
	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// objectAPI is the part of *s3.Client the store needs.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Storage struct {
	client  objectAPI
	bucket  string
	baseURL string
	now     func() time.Time
}

func New(ctx context.Context, cfg internal_config.S3) (*Storage, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return newWithClient(client, cfg), nil
}

func newWithClient(client objectAPI, cfg internal_config.S3) *Storage {
	return &Storage{client: client, bucket: cfg.Bucket, baseURL: publicBaseURL(cfg), now: time.Now}
}

// publicBaseURL is the prefix that object keys are appended to.
func publicBaseURL(cfg internal_config.S3) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/")
	case cfg.Endpoint != "" && cfg.UsePathStyle:
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/")
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

func (s *Storage) Upload(ctx context.Context, obj domain.Object) (domain.StoredObject, error) {
	now := s.now().UTC()
	key := fmt.Sprintf("media/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.NewString(), strings.ToLower(obj.Ext))

	// a seekable body lets the SDK sign and checksum without streaming tricks
	body, ok := obj.Data.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(obj.Data)
		if err != nil {
			return domain.StoredObject{}, fmt.Errorf("failed to buffer object: %w", err)
		}
		body = bytes.NewReader(data)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}
	if obj.Size > 0 {
		input.ContentLength = aws.Int64(obj.Size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return domain.StoredObject{}, fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return domain.StoredObject{URL: s.baseURL + "/" + key, Key: key}, nil
}

// Destroy deletes the object. A key that is already gone is not an error.
func (s *Storage) Destroy(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("invalid object key %q", key)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil
		}
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}
