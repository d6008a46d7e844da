package store

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/matzehuels/figurine/pkg/cache"
	"github.com/matzehuels/figurine/pkg/errors"
)

// S3Config configures [NewS3Store].
type S3Config struct {
	Bucket          string `toml:"bucket"`
	Prefix          string `toml:"prefix"`        // prepended to every key
	Region          string `toml:"region"`        // default us-east-1
	Endpoint        string `toml:"endpoint"`      // S3-compatible storage
	AccessKeyID     string `toml:"access_key_id"` // default credential chain if empty
	SecretAccessKey string `toml:"secret_access_key"`
	PublicBaseURL   string `toml:"public_base_url"` // e.g. a CDN in front of the bucket
	CacheControl    string `toml:"cache_control"`
}

// putObjectAPI is the subset of the S3 client used by S3Store.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads objects to a bucket.
type S3Store struct {
	client putObjectAPI
	cfg    S3Config
}

// NewS3Store loads AWS configuration and creates the client.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "s3 store needs a bucket")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load AWS config")
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	return newS3Store(s3.NewFromConfig(awsCfg, s3Opts...), cfg), nil
}

func newS3Store(client putObjectAPI, cfg S3Config) *S3Store {
	if cfg.CacheControl == "" {
		cfg.CacheControl = "public, max-age=31536000, immutable"
	}
	return &S3Store{client: client, cfg: cfg}
}

// Put uploads data and returns its public URL. Transport failures are
// retried with backoff.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := errors.ValidatePath(key); err != nil {
		return "", err
	}
	objectKey := s.objectKey(key)
	in := &s3.PutObjectInput{
		Bucket:       aws.String(s.cfg.Bucket),
		Key:          aws.String(objectKey),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(s.cfg.CacheControl),
	}

	err := cache.RetryWithBackoff(ctx, func() error {
		in.Body = bytes.NewReader(data)
		if _, err := s.client.PutObject(ctx, in); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "upload s3://%s/%s", s.cfg.Bucket, objectKey)
	}
	return s.URL(key), nil
}

// URL returns the public URL of key.
func (s *S3Store) URL(key string) string {
	objectKey := s.objectKey(key)
	if s.cfg.PublicBaseURL != "" {
		return joinURL(s.cfg.PublicBaseURL, objectKey)
	}
	if s.cfg.Endpoint != "" {
		return joinURL(joinURL(s.cfg.Endpoint, s.cfg.Bucket), objectKey)
	}
	return joinURL(fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.cfg.Bucket, s.cfg.Region), objectKey)
}

func (s *S3Store) objectKey(key string) string {
	prefix := strings.Trim(s.cfg.Prefix, "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

var _ Store = (*S3Store)(nil)
