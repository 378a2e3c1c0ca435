package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rpupo63/data-table-transformer/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProbe struct {
	bucketErr error
	size      int64
	missing   bool
}

func (f *fakeProbe) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.bucketErr != nil {
		return nil, f.bucketErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeProbe) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.missing {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(f.size)}, nil
}

func probeConnector(probe *fakeProbe, gotCfg *S3ClientConfig) *S3Connector {
	c := NewS3Connector("http://minio:9000")
	c.newClient = func(ctx context.Context, cfg S3ClientConfig) (s3ProbeAPI, error) {
		*gotCfg = cfg
		return probe, nil
	}
	return c
}

func TestS3ConnectorReportsObjectSize(t *testing.T) {
	var got S3ClientConfig
	c := probeConnector(&fakeProbe{size: 2048}, &got)

	result, err := c.Connect(context.Background(), validS3Config())
	require.NoError(t, err)
	require.NotNil(t, result.Size)
	assert.Equal(t, int64(2048), *result.Size)

	assert.Equal(t, S3ClientConfig{
		Endpoint:        "http://minio:9000",
		Region:          "us-east-1",
		AccessKeyID:     "AKIAEXAMPLEKEY9876",
		SecretAccessKey: "wJalrXUtnFEMI",
	}, got)
}

func TestS3ConnectorFailures(t *testing.T) {
	var got S3ClientConfig

	_, err := probeConnector(&fakeProbe{bucketErr: errors.New("403 Forbidden")}, &got).Connect(context.Background(), validS3Config())
	assert.ErrorContains(t, err, "s3://my-data-bucket")

	_, err = probeConnector(&fakeProbe{missing: true}, &got).Connect(context.Background(), validS3Config())
	var notFound *types.NotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestSimulatedConnector(t *testing.T) {
	result, err := SimulatedConnector{Delay: time.Millisecond}.Connect(context.Background(), models.S3Config{})
	require.NoError(t, err)
	assert.Nil(t, result.Size)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = SimulatedConnector{Delay: time.Hour}.Connect(ctx, models.S3Config{})
	assert.ErrorIs(t, err, context.Canceled)
}
