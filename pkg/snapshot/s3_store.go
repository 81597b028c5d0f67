package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
)

// S3Options configures the S3 snapshot store
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, for S3-compatible services
	AccessKey string
	SecretKey string
	Prefix    string // key prefix, defaults to "renders"
}

// PutObjectAPI is the subset of the S3 client the store needs
type PutObjectAPI interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// S3Store uploads snapshots to a bucket
type S3Store struct {
	client PutObjectAPI
	bucket string
	prefix string
	logger core.Logger
	now    func() time.Time
}

// NewS3Store creates a session and client for the configured bucket
func NewS3Store(opts S3Options, logger core.Logger) (*S3Store, error) {
	s3Config := &aws.Config{
		Region:           aws.String(opts.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if opts.AccessKey != "" {
		s3Config.Credentials = credentials.NewStaticCredentials(opts.AccessKey, opts.SecretKey, "")
	}
	if opts.Endpoint != "" {
		s3Config.Endpoint = aws.String(opts.Endpoint)
	}

	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, fmt.Errorf("create S3 session: %w", err)
	}
	return NewS3StoreWithClient(s3.New(sess), opts, logger), nil
}

// NewS3StoreWithClient wraps an existing client
func NewS3StoreWithClient(client PutObjectAPI, opts S3Options, logger core.Logger) *S3Store {
	if logger == nil {
		logger = core.NopLogger{}
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "renders"
	}
	return &S3Store{
		client: client,
		bucket: opts.Bucket,
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}
}

// Key returns the object key for a snapshot
func (s *S3Store) Key(sceneName string, now time.Time) string {
	return path.Join(s.prefix, sceneName, FileName(now))
}

// Save uploads data and returns the s3:// location
func (s *S3Store) Save(ctx context.Context, sceneName string, data []byte) (string, error) {
	key := s.Key(sceneName, s.now())
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("upload s3://%s/%s: %w", s.bucket, key, err)
	}

	location := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	s.logger.Printf("Render uploaded to %s\n", location)
	return location, nil
}
