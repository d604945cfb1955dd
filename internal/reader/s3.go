package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/types"
)

type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

// ObjectGetter is the part of the S3 client the reader uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds a path-style client. Static credentials are used when
// both keys are set, otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(cfg.Endpoint))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	}), nil
}

// S3CSV returns a reader for CSV objects addressed either as
// s3://bucket/key or by bucket and key kwargs. defaultBucket is used when
// neither names a bucket.
func S3CSV(client ObjectGetter, defaultBucket string) Reader {
	return func(ctx context.Context, args []any, kwargs types.Params) (*types.Table, error) {
		if client == nil {
			return nil, fmt.Errorf("%w: s3 reader needs an S3 client", errs.ErrConfiguration)
		}
		bucket, key, err := s3Location(args, kwargs, defaultBucket)
		if err != nil {
			return nil, err
		}
		opts, err := csvOptions(kwargs)
		if err != nil {
			return nil, err
		}

		obj, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
		}
		defer obj.Body.Close()
		return ReadCSV(key, obj.Body, opts)
	}
}

func s3Location(args []any, kwargs types.Params, defaultBucket string) (string, string, error) {
	if len(args) > 0 || strings.HasPrefix(kwargs.String("path", ""), "s3://") {
		path, err := stringArg(args, kwargs, 0, "path")
		if err != nil {
			return "", "", err
		}
		rest, ok := strings.CutPrefix(path, "s3://")
		if !ok {
			return "", "", fmt.Errorf("%w: %q is not an s3:// path", errs.ErrConfiguration, path)
		}
		bucket, key, ok := strings.Cut(rest, "/")
		if !ok || bucket == "" || key == "" {
			return "", "", fmt.Errorf("%w: %q must be s3://bucket/key", errs.ErrConfiguration, path)
		}
		return bucket, key, nil
	}

	bucket := kwargs.String("bucket", defaultBucket)
	key := kwargs.String("key", "")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: s3 reader needs bucket and key", errs.ErrConfiguration)
	}
	return bucket, key, nil
}
