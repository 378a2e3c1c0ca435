package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/data-table-transformer/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ConnectResult describes the object an S3 connection points at
type ConnectResult struct {
	// Size is nil when the connector did not look at the object.
	Size *int64
}

// Connector checks that an S3 source can be imported from.
type Connector interface {
	Connect(ctx context.Context, cfg models.S3Config) (*ConnectResult, error)
}

// SimulatedConnector waits a fixed delay and succeeds without touching the network.
type SimulatedConnector struct {
	Delay time.Duration
}

func (c SimulatedConnector) Connect(ctx context.Context, cfg models.S3Config) (*ConnectResult, error) {
	timer := time.NewTimer(c.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return &ConnectResult{}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type s3ProbeAPI interface {
	s3.HeadBucketAPIClient
	s3.HeadObjectAPIClient
}

// S3Connector verifies the bucket and object with the supplied credentials.
type S3Connector struct {
	// Endpoint overrides the AWS endpoint, e.g. for MinIO.
	Endpoint  string
	newClient func(ctx context.Context, cfg S3ClientConfig) (s3ProbeAPI, error)
}

func NewS3Connector(endpoint string) *S3Connector {
	return &S3Connector{
		Endpoint: endpoint,
		newClient: func(ctx context.Context, cfg S3ClientConfig) (s3ProbeAPI, error) {
			return newS3Client(ctx, cfg)
		},
	}
}

func (c *S3Connector) Connect(ctx context.Context, cfg models.S3Config) (*ConnectResult, error) {
	client, err := c.newClient(ctx, S3ClientConfig{
		Endpoint:        c.Endpoint,
		Region:          cfg.Region,
		AccessKeyID:     cfg.AccessKey,
		SecretAccessKey: cfg.SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize s3 client: %w", err)
	}

	var size int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := client.HeadBucket(gctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
			return fmt.Errorf("failed to verify access to s3://%s: %w", cfg.Bucket, err)
		}
		return nil
	})
	g.Go(func() error {
		out, err := client.HeadObject(gctx, &s3.HeadObjectInput{
			Bucket: aws.String(cfg.Bucket),
			Key:    aws.String(cfg.FilePath),
		})
		if err != nil {
			return fmt.Errorf("failed to find s3://%s/%s: %w", cfg.Bucket, cfg.FilePath, err)
		}
		size = aws.ToInt64(out.ContentLength)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().
		Str("bucket", cfg.Bucket).
		Str("key", cfg.FilePath).
		Str("access_key_id", models.MaskKey(cfg.AccessKey)).
		Int64("size", size).
		Msg("connected to s3 source")

	return &ConnectResult{Size: &size}, nil
}
