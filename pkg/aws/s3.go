// Package aws constructs Amazon S3 clients and transfer helpers from
// S3Config, covering both AWS proper and S3-compatible servers via endpoint
// and path-style overrides.
package aws

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
	"github.com/armature-io/armature/pkg/logger"
)

// NewS3Client creates an S3 client. Static credentials are used when the
// key pair is configured; otherwise the default AWS credential chain
// applies. Construction performs no network I/O.
func NewS3Client(ctx context.Context, cfg *config.S3Config) (*s3.Client, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "s3 config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid s3 config")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.WithBackend("s3").Debug("s3 client created",
		zap.String("region", cfg.Region),
		zap.Bool("static_credentials", cfg.AccessKeyID != ""))

	return client, nil
}

// ParseS3URI splits s3://bucket/key into its parts. Anything else is a
// validation error, caught before any request is made.
func ParseS3URI(uri string) (bucket, key string, err error) {
	const scheme = "s3://"
	if !strings.HasPrefix(uri, scheme) {
		return "", "", errors.Newf(errors.ErrorTypeValidation, "not an s3:// URI: %s", uri)
	}
	rest := strings.TrimPrefix(uri, scheme)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", errors.Newf(errors.ErrorTypeValidation, "s3:// URI must name a bucket and a key: %s", uri)
	}
	return bucket, key, nil
}

// Copy performs a server-side copy between two s3:// URIs.
func Copy(ctx context.Context, client *s3.Client, srcURI, dstURI string) error {
	srcBucket, srcKey, err := ParseS3URI(srcURI)
	if err != nil {
		return err
	}
	dstBucket, dstKey, err := ParseS3URI(dstURI)
	if err != nil {
		return err
	}

	_, err = client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(dstBucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(srcBucket + "/" + url.QueryEscape(srcKey)),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "s3 copy failed").
			WithDetail("src", srcURI).
			WithDetail("dst", dstURI)
	}

	logger.WithBackend("s3").Info("object copied",
		zap.String("src", srcURI),
		zap.String("dst", dstURI))
	return nil
}

// Upload streams r into the object named by uri using the transfer manager.
func Upload(ctx context.Context, client *s3.Client, uri string, r io.Reader) error {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return err
	}

	uploader := manager.NewUploader(client)
	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "s3 upload failed").WithDetail("uri", uri)
	}
	return nil
}

// Download fetches the object named by uri into w using the transfer
// manager.
func Download(ctx context.Context, client *s3.Client, uri string, w io.WriterAt) error {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return err
	}

	downloader := manager.NewDownloader(client)
	_, err = downloader.Download(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "s3 download failed").WithDetail("uri", uri)
	}
	return nil
}
