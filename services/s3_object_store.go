package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rpupo63/data-table-transformer/errs"
	"github.com/rs/zerolog/log"
)

// S3Api is the part of the S3 client the object store needs
type S3Api interface {
	manager.UploadAPIClient
	s3.HeadObjectAPIClient
}

type S3ObjectStore struct {
	client   S3Api
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

var _ ObjectStore = (*S3ObjectStore)(nil)

// NewS3ObjectStore uploads into bucket. Public URLs are built from baseURL
// when given, otherwise from the endpoint or the bucket's virtual-host name.
func NewS3ObjectStore(ctx context.Context, cfg S3ClientConfig, bucket, baseURL string) (*S3ObjectStore, error) {
	if bucket == "" {
		return nil, errors.New("bucket is required")
	}

	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize s3 client: %w", err)
	}

	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = joinURL(cfg.Endpoint, bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, cfg.Region)
		}
	}

	return NewS3ObjectStoreFromClient(client, bucket, baseURL), nil
}

func NewS3ObjectStoreFromClient(client S3Api, bucket, baseURL string) *S3ObjectStore {
	return &S3ObjectStore{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		baseURL:  baseURL,
	}
}

func (s *S3ObjectStore) exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check s3://%s/%s: %w", s.bucket, key, err)
}

func (s *S3ObjectStore) Upload(ctx context.Context, key string, body io.Reader, size int64, opts UploadOptions) (string, error) {
	if !opts.Upsert {
		exists, err := s.exists(ctx, key)
		if err != nil {
			return "", err
		}
		if exists {
			return "", fmt.Errorf("s3://%s/%s: %w", s.bucket, key, errs.ErrObjectKeyExists)
		}
	}

	progress := newProgressReader(body, size, opts.OnProgress)
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   progress,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object to s3://%s/%s: %w", s.bucket, key, err)
	}
	progress.done()

	log.Info().Str("bucket", s.bucket).Str("key", key).Int64("size", size).Msg("object uploaded")

	return joinURL(s.baseURL, key), nil
}
