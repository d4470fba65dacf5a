package objectclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	cfg "github.com/markdave123-py/Cluster/internal/config"
	"github.com/markdave123-py/Cluster/internal/core"
)

// S3Client archives lecture uploads. With an endpoint set it talks
// path-style to an S3-compatible server such as MinIO.
type S3Client struct {
	uploader *manager.Uploader
	region   string
	endpoint string
}

var _ core.ObjectClient = (*S3Client)(nil)

func NewS3Client(ctx context.Context, c *cfg.Config) (*S3Client, error) {
	if c.AwsAccessKey == "" || c.AwsSecretKey == "" {
		return nil, errors.New("AWS credentials not set")
	}
	if c.AwsRegion == "" {
		return nil, errors.New("AWS_REGION not set")
	}
	if c.BucketName == "" {
		return nil, errors.New("S3 bucket name not set")
	}

	awsCfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(c.AwsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AwsAccessKey, c.AwsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimRight(c.AwsEndpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Client{
		uploader: manager.NewUploader(client),
		region:   c.AwsRegion,
		endpoint: endpoint,
	}, nil
}

// UploadFile streams data to the bucket and returns the object's URL.
func (c *S3Client) UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (string, error) {
	ctxUpload, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	_, err := c.uploader.Upload(ctxUpload, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("archive %s/%s: %w", bucket, key, err)
	}
	if c.endpoint != "" {
		return c.endpoint + "/" + bucket + "/" + escapeKey(key), nil
	}
	return ObjectURL(bucket, c.region, key), nil
}

// ObjectURL builds the virtual-hosted style URL of an object.
func ObjectURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, escapeKey(key))
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
