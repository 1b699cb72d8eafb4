package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/dataguard/pkg/quality"
)

// S3Client is the subset of *s3.Client used by S3Sink.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config describes the report archive bucket.
type S3Config struct {
	Bucket         string `env:"DQ_S3_BUCKET"`
	Region         string `env:"DQ_S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"DQ_S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"DQ_S3_SECRET_KEY"`
	Endpoint       string `env:"DQ_S3_ENDPOINT"`                            // Optional: for S3-compatible services
	ForcePathStyle bool   `env:"DQ_S3_FORCE_PATH_STYLE" envDefault:"false"` // For S3-compatible services like MinIO
	Prefix         string `env:"DQ_S3_PREFIX" envDefault:"reports"`
}

// Enabled reports whether a bucket is configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// NewS3Client builds an S3 client from cfg. Static credentials are used
// when both keys are set; otherwise the default AWS chain applies.
func NewS3Client(ctx context.Context, cfg S3Config, httpClient *http.Client) (*s3.Client, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, errors.Join(ErrArchiveReport, errors.New("bucket and region are required"))
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}
	if httpClient != nil {
		opts = append(opts, config.WithHTTPClient(httpClient))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Join(ErrArchiveReport, err)
	}

	return s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	}), nil
}

// S3Sink archives each report as <prefix>/<yyyy>/<mm>/<dd>/<run id>.json.
type S3Sink struct {
	client S3Client
	bucket string
	prefix string
}

func NewS3Sink(client S3Client, cfg S3Config) *S3Sink {
	return &S3Sink{client: client, bucket: cfg.Bucket, prefix: strings.Trim(cfg.Prefix, "/")}
}

// Key returns the object key of r.
func (s *S3Sink) Key(r *quality.Report) string {
	return path.Join(s.prefix, r.StartedAt.UTC().Format("2006/01/02"), r.RunID.String()+".json")
}

func (s *S3Sink) Store(ctx context.Context, r *quality.Report) error {
	if r == nil {
		return ErrNilReport
	}

	body, err := json.Marshal(r)
	if err != nil {
		return errors.Join(ErrArchiveReport, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.Key(r)),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
		Metadata: map[string]string{
			"run-id": r.RunID.String(),
			"status": string(r.Summary.Status),
		},
	})
	if err != nil {
		return classifyS3Error(err)
	}
	return nil
}

func classifyS3Error(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrArchiveReport, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return errors.Join(ErrArchiveReport, fmt.Errorf("s3 %s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage()))
	}
	return errors.Join(ErrArchiveReport, err)
}
