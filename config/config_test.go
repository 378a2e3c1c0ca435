package config

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":             "9000",
		"BAD_INT":          "abc",
		"FLAG":             "Yes",
		"EMPTY":            "",
		"DELAY_MS":         "250",
		"ACCEPTED_ORIGINS": "http://a.test, ,http://b.test",
	}

	assert.Equal(t, 9000, GetInt(c, "PORT", 8080))
	assert.Equal(t, 8080, GetInt(c, "BAD_INT", 8080))
	assert.Equal(t, 1, GetInt(nil, "PORT", 1))
	assert.True(t, GetBool(c, "FLAG", false))
	assert.True(t, GetBool(c, "MISSING", true))
	assert.Equal(t, "fallback", GetString(c, "EMPTY", "fallback"))
	assert.Equal(t, 250*time.Millisecond, GetMillis(c, "DELAY_MS", time.Second))
	assert.Equal(t, time.Second, GetMillis(c, "MISSING", time.Second))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, GetList(c, "ACCEPTED_ORIGINS"))
}

func TestNewSnapshotsEnvironment(t *testing.T) {
	t.Setenv("DTT_CONFIG_TEST", "a=b")
	assert.Equal(t, "a=b", New()["DTT_CONFIG_TEST"])
}

type fakeParameters struct {
	pages [][]types.Parameter
	calls int
}

func (f *fakeParameters) GetParametersByPath(ctx context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	out := &ssm.GetParametersByPathOutput{Parameters: f.pages[f.calls]}
	f.calls++
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestOverlayFromSSM(t *testing.T) {
	src := &fakeParameters{pages: [][]types.Parameter{
		{{Name: aws.String("/dtt/prod/JWT_SECRET"), Value: aws.String("s3cr3t")}},
		{{Name: aws.String("/dtt/prod/S3_BUCKET"), Value: aws.String("uploads")}},
	}}
	c := map[string]string{"S3_BUCKET": "local"}

	require.NoError(t, overlayFrom(context.Background(), src, "/dtt/prod", c))
	assert.Equal(t, "s3cr3t", c["JWT_SECRET"])
	assert.Equal(t, "uploads", c["S3_BUCKET"])
	assert.Equal(t, 2, src.calls)
}
