// Package publish uploads rendered images to S3-compatible storage.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/dustin/go-humanize"

	"github.com/df07/go-raytracer/pkg/config"
	"github.com/df07/go-raytracer/pkg/core"
)

// UploadTimeout bounds a single upload
const UploadTimeout = 30 * time.Second

// Content types of the published formats
const (
	ContentTypePNG = "image/png"
	ContentTypePPM = "image/x-portable-pixmap"
)

// Publisher writes images under a key prefix in one bucket
type Publisher struct {
	client s3iface.S3API
	bucket string
	prefix string
	logger core.Logger
}

// NewS3Client creates an S3 client for cfg. Custom endpoints use path-style
// addressing so S3-compatible stores work.
func NewS3Client(cfg config.S3Config) (s3iface.S3API, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return s3.New(sess), nil
}

// NewPublisher creates a publisher for bucket
func NewPublisher(client s3iface.S3API, bucket, prefix string) *Publisher {
	return &Publisher{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: core.NopLogger{},
	}
}

// SetLogger sets the sink for upload log lines
func (p *Publisher) SetLogger(logger core.Logger) {
	p.logger = logger
}

// Key returns the object key name is stored under
func (p *Publisher) Key(name string) string {
	return path.Join(p.prefix, name)
}

// Publish uploads data as name and returns its key
func (p *Publisher) Publish(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	key := p.Key(name)
	size := int64(len(data))
	_, err := p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	p.logger.Printf("Uploaded s3://%s/%s (%s)", p.bucket, key, humanize.Bytes(uint64(size)))
	return key, nil
}

// ContentType returns the content type for an output format
func ContentType(format string) string {
	if format == config.FormatPNG {
		return ContentTypePNG
	}
	return ContentTypePPM
}
