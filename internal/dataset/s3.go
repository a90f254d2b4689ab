package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/GiovanoMP/projeto-kore-data/internal/config"
)

// openS3 builds an opener that fetches table CSVs from an S3 bucket. Used
// when the snapshot exports live in object storage instead of local disk.
func openS3(ctx context.Context, cfg config.DataConfig) (opener, error) {
	var awsCfg aws.Config
	var err error
	if cfg.AWSProfile != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.S3Region),
			awsconfig.WithSharedConfigProfile(cfg.AWSProfile),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.S3Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	bucket := cfg.S3Bucket

	return func(ctx context.Context, name string) (io.ReadCloser, error) {
		out, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(name),
		})
		if err != nil {
			var noKey *types.NoSuchKey
			if errors.As(err, &noKey) {
				return nil, fmt.Errorf("%s table (s3://%s/%s): %w", name, bucket, name, ErrMissingSource)
			}
			return nil, fmt.Errorf("%s table: get s3 object: %w", name, err)
		}
		return out.Body, nil
	}, nil
}
