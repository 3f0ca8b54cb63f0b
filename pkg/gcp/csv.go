package gcp

import (
	"context"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/klauspost/compress/gzip"

	"github.com/armature-io/armature/pkg/errors"
)

// ReadCSV reads a CSV object into Arrow records with inferred column types.
// Objects ending in .gz are decompressed first. The caller releases the
// returned records.
func ReadCSV(ctx context.Context, client *storage.Client, uri string, opts ...csv.Option) ([]arrow.Record, error) {
	r, err := Download(ctx, client, uri)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	reader := csv.NewInferringReader(r, append([]csv.Option{
		csv.WithHeader(true),
		csv.WithChunk(-1),
	}, opts...)...)

	var records []arrow.Record
	for reader.Next() {
		rec := reader.Record()
		rec.Retain()
		records = append(records, rec)
	}
	if err := reader.Err(); err != nil && err != io.EOF {
		for _, rec := range records {
			rec.Release()
		}
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read csv").WithDetail("uri", uri)
	}
	return records, nil
}

// WriteCSV writes Arrow records to a CSV object with a header row. Objects
// ending in .gz are gzip-compressed. All records must share one schema; the
// data passes through unmodified.
func WriteCSV(ctx context.Context, client *storage.Client, uri string, records []arrow.Record) error {
	if len(records) == 0 {
		return errors.New(errors.ErrorTypeValidation, "no records to write")
	}

	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return err
	}

	w := client.Bucket(bucket).Object(object).NewWriter(ctx)

	var sink io.Writer = w
	var gz *gzip.Writer
	if strings.HasSuffix(object, ".gz") {
		gz = gzip.NewWriter(w)
		sink = gz
	}

	writer := csv.NewWriter(sink, records[0].Schema(), csv.WithHeader(true))
	for _, rec := range records {
		if err := writer.Write(rec); err != nil {
			_ = w.Close()
			return errors.Wrap(err, errors.ErrorTypeData, "failed to write csv").WithDetail("uri", uri)
		}
	}
	if err := writer.Flush(); err != nil {
		_ = w.Close()
		return errors.Wrap(err, errors.ErrorTypeData, "failed to write csv").WithDetail("uri", uri)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			_ = w.Close()
			return errors.Wrap(err, errors.ErrorTypeData, "failed to write csv").WithDetail("uri", uri)
		}
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to write csv").WithDetail("uri", uri)
	}
	return nil
}
