package origin

import (
	"context"
	"fmt"
	"io"

	"media-gate/internal/config"
	apperrors "media-gate/pkg/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const emptyAWSSessionToken = ""

// S3Fetcher reads raw content from an S3 bucket keyed by the content path.
// Selected with ORIGIN_BACKEND=s3 for deployments that mirror the content
// store into object storage.
type S3Fetcher struct {
	svc    *s3.S3
	bucket string
}

func NewS3Fetcher(cfg *config.AWSConfig) (*S3Fetcher, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
	})

	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return &S3Fetcher{
		svc:    s3.New(sess),
		bucket: cfg.Bucket,
	}, nil
}

func (f *S3Fetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	out, err := f.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(path),
	})

	if err != nil {
		return nil, apperrors.Upstream(fmt.Sprintf(errGetObjectFmt, f.bucket, path), err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, apperrors.Upstream(fmt.Sprintf(errReadObjectFmt, f.bucket, path), err)
	}

	return body, nil
}

const (
	errFailedCreateAWSSessionFmt = "failed to create AWS session: %w"
	errGetObjectFmt              = "failed to get object s3://%s/%s"
	errReadObjectFmt             = "failed to read object s3://%s/%s"
)
