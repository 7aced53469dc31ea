// Package storage holds the sinks media downloads are written to.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"go.uber.org/zap"
)

// Sink stores a downloaded media file and returns where it ended up
type Sink interface {
	Save(ctx context.Context, name string, content io.Reader) (string, error)
}

// LocalSink writes downloads into a directory
type LocalSink struct {
	dir    string
	logger *zap.Logger
}

func NewLocalSink(dir string, logger *zap.Logger) *LocalSink {
	return &LocalSink{dir: dir, logger: logger}
}

func (s *LocalSink) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download dir: %w", err)
	}

	target := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, readerWithContext(ctx, content))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", name, err)
	}

	s.logger.Info("Media downloaded",
		zap.String("path", target),
		zap.Int64("bytes", written),
	)
	return target, nil
}

// S3Sink uploads downloads to a bucket
type S3Sink struct {
	uploader s3manageriface.UploaderAPI
	bucket   string
	prefix   string
	logger   *zap.Logger
}

// NewS3Sink builds an uploader from the default credential chain
func NewS3Sink(region, bucket string, logger *zap.Logger) (*S3Sink, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}
	return NewS3SinkWithUploader(s3manager.NewUploader(sess), bucket, logger), nil
}

func NewS3SinkWithUploader(uploader s3manageriface.UploaderAPI, bucket string, logger *zap.Logger) *S3Sink {
	return &S3Sink{
		uploader: uploader,
		bucket:   bucket,
		prefix:   "downloads",
		logger:   logger,
	}
}

func (s *S3Sink) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}

	key := path.Join(s.prefix, name)
	result, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   content,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	s.logger.Info("Media uploaded to S3",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
	)
	return result.Location, nil
}

func cleanName(name string) (string, error) {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return name, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
