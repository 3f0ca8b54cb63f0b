package gcp

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
	"github.com/armature-io/armature/pkg/logger"
)

// NewStorageClient creates a Cloud Storage client.
func NewStorageClient(ctx context.Context, cfg *config.GCPConfig) (*storage.Client, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "gcp config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid gcp config")
	}

	client, err := storage.NewClient(ctx, clientOptions(cfg)...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create storage client")
	}
	return client, nil
}

// ParseGCSURI splits gs://bucket/object into its parts. Anything that is not
// a gs:// URI with both a bucket and an object is a validation error, caught
// before any request is made.
func ParseGCSURI(uri string) (bucket, object string, err error) {
	const scheme = "gs://"
	if !strings.HasPrefix(uri, scheme) {
		return "", "", errors.Newf(errors.ErrorTypeValidation, "not a gs:// URI: %s", uri)
	}
	rest := strings.TrimPrefix(uri, scheme)
	bucket, object, found := strings.Cut(rest, "/")
	if !found || bucket == "" || object == "" {
		return "", "", errors.Newf(errors.ErrorTypeValidation, "gs:// URI must name a bucket and an object: %s", uri)
	}
	return bucket, object, nil
}

// Copy performs a server-side copy between two gs:// URIs. Bytes never
// transit the caller, so the destination is byte-identical to the source.
func Copy(ctx context.Context, client *storage.Client, srcURI, dstURI string) error {
	srcBucket, srcObject, err := ParseGCSURI(srcURI)
	if err != nil {
		return err
	}
	dstBucket, dstObject, err := ParseGCSURI(dstURI)
	if err != nil {
		return err
	}

	src := client.Bucket(srcBucket).Object(srcObject)
	dst := client.Bucket(dstBucket).Object(dstObject)
	if _, err := dst.CopierFrom(src).Run(ctx); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "gcs copy failed").
			WithDetail("src", srcURI).
			WithDetail("dst", dstURI)
	}

	logger.WithBackend("gcs").Info("object copied",
		zap.String("src", srcURI),
		zap.String("dst", dstURI))
	return nil
}

// Upload streams r into the object named by uri. Objects ending in .gz are
// gzip-compressed on the way in.
func Upload(ctx context.Context, client *storage.Client, uri string, r io.Reader) error {
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return err
	}

	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	if err := encodeStream(w, object, r); err != nil {
		_ = w.Close()
		return errors.Wrap(err, errors.ErrorTypeData, "gcs upload failed").WithDetail("uri", uri)
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "gcs upload failed").WithDetail("uri", uri)
	}
	return nil
}

// Download opens the object named by uri for reading. Objects ending in .gz
// are transparently decompressed; Close releases both readers.
func Download(ctx context.Context, client *storage.Client, uri string) (io.ReadCloser, error) {
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return nil, err
	}

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "gcs download failed").WithDetail("uri", uri)
	}

	decoded, err := decodeStream(r, object)
	if err != nil {
		_ = r.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeData, "gcs download failed").WithDetail("uri", uri)
	}
	return decoded, nil
}

// encodeStream copies r into w, gzip-compressing when the object name says
// so.
func encodeStream(w io.Writer, object string, r io.Reader) error {
	if !strings.HasSuffix(object, ".gz") {
		_, err := io.Copy(w, r)
		return err
	}

	gz := gzip.NewWriter(w)
	if _, err := io.Copy(gz, r); err != nil {
		return err
	}
	return gz.Close()
}

// decodeStream wraps r with a gzip reader when the object name says so. The
// returned closer closes both layers.
func decodeStream(r io.ReadCloser, object string) (io.ReadCloser, error) {
	if !strings.HasSuffix(object, ".gz") {
		return r, nil
	}

	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return &layeredCloser{Reader: gz, layers: []io.Closer{gz, r}}, nil
}

type layeredCloser struct {
	io.Reader
	layers []io.Closer
}

func (l *layeredCloser) Close() error {
	var first error
	for _, c := range l.layers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
