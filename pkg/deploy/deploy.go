// Package deploy publishes static snapshots of rendered pages to S3.
// Interactive behavior needs the live server; a snapshot is the first-paint
// HTML plus whatever assets the caller hands over.
package deploy

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the slice of the S3 client the deployer needs.
// *s3.Client satisfies it.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Deployer uploads site files to one bucket.
type Deployer struct {
	client ObjectPutter
	bucket string
	prefix string
	logger *slog.Logger
}

// Option configures a Deployer.
type Option func(*Deployer)

// WithPrefix prepends a key prefix to every uploaded object.
func WithPrefix(prefix string) Option {
	return func(d *Deployer) {
		d.prefix = prefix
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Deployer) {
		d.logger = logger
	}
}

// New returns a deployer targeting bucket.
func New(client ObjectPutter, bucket string, opts ...Option) *Deployer {
	d := &Deployer{
		client: client,
		bucket: bucket,
		logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deploy uploads every file, keyed by its name under the configured prefix.
// Files go up in sorted order so retries after a partial failure are
// deterministic.
func (d *Deployer) Deploy(ctx context.Context, files map[string][]byte) error {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		key := path.Join(d.prefix, name)

		_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(d.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(files[name]),
			ContentType: aws.String(contentType(name)),
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}

		d.logger.Info("uploaded", "bucket", d.bucket, "key", key, "bytes", len(files[name]))
	}
	return nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
