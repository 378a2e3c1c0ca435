package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterSource lists parameters under a path. *ssm.Client satisfies it.
type ParameterSource interface {
	ssm.GetParametersByPathAPIClient
}

// OverlaySSM copies every parameter under SSM_PARAMETER_PATH into config,
// keyed by the last path segment (/app/prod/JWT_SECRET -> JWT_SECRET).
// Values already present in config are overwritten.
func OverlaySSM(ctx context.Context, config map[string]string) error {
	prefix := GetString(config, "SSM_PARAMETER_PATH", "")
	if prefix == "" {
		return nil
	}

	opts := []func(*aws_config.LoadOptions) error{}
	if region := GetString(config, "AWS_REGION", ""); region != "" {
		opts = append(opts, aws_config.WithRegion(region))
	}
	awsCfg, err := aws_config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to load aws config for ssm: %w", err)
	}

	return overlayFrom(ctx, ssm.NewFromConfig(awsCfg), prefix, config)
}

func overlayFrom(ctx context.Context, client ParameterSource, prefix string, config map[string]string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to read ssm parameters under %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			name := strings.TrimSpace(path.Base(aws.ToString(p.Name)))
			if name == "" || name == "/" || name == "." {
				continue
			}
			config[name] = aws.ToString(p.Value)
			loaded++
		}
	}

	log.Info().Str("path", prefix).Int("count", loaded).Msg("loaded parameters from ssm")
	return nil
}
