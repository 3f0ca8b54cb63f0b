package gcp

import (
	"context"
	"strings"

	"cloud.google.com/go/bigquery"
	"go.uber.org/zap"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
	"github.com/armature-io/armature/pkg/logger"
)

// NewBigQueryClient creates a BigQuery client for the configured project.
func NewBigQueryClient(ctx context.Context, cfg *config.GCPConfig) (*bigquery.Client, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "gcp config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid gcp config")
	}

	client, err := bigquery.NewClient(ctx, cfg.ProjectID, clientOptions(cfg)...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create bigquery client")
	}
	return client, nil
}

// dataFormats maps config format strings to BigQuery source formats.
var dataFormats = map[string]bigquery.DataFormat{
	"csv":     bigquery.CSV,
	"json":    bigquery.JSON,
	"avro":    bigquery.Avro,
	"parquet": bigquery.Parquet,
}

// parseTableID splits project.dataset.table; a two-part dataset.table falls
// back to the client's project.
func parseTableID(client *bigquery.Client, tableID string) (project, dataset, table string, err error) {
	parts := strings.Split(tableID, ".")
	switch len(parts) {
	case 3:
		return parts[0], parts[1], parts[2], nil
	case 2:
		return client.Project(), parts[0], parts[1], nil
	default:
		return "", "", "", errors.Newf(errors.ErrorTypeValidation,
			"table id must be project.dataset.table or dataset.table: %s", tableID)
	}
}

// dataFormat resolves a format string; unknown formats are config errors.
func dataFormat(format string) (bigquery.DataFormat, error) {
	f, ok := dataFormats[strings.ToLower(format)]
	if !ok {
		return "", errors.Newf(errors.ErrorTypeConfig, "unsupported data format: %s", format)
	}
	return f, nil
}

// LoadFromGCS runs a load job from a gs:// URI into a table and waits for
// it. The URI and format are validated before the job is created.
func LoadFromGCS(ctx context.Context, client *bigquery.Client, tableID, uri, format string) error {
	if _, _, err := ParseGCSURI(uri); err != nil {
		return err
	}
	f, err := dataFormat(format)
	if err != nil {
		return err
	}
	project, dataset, table, err := parseTableID(client, tableID)
	if err != nil {
		return err
	}

	gcsRef := bigquery.NewGCSReference(uri)
	gcsRef.SourceFormat = f

	loader := client.DatasetInProject(project, dataset).Table(table).LoaderFrom(gcsRef)
	job, err := loader.Run(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to start load job").
			WithDetail("table", tableID).
			WithDetail("uri", uri)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "load job failed").WithDetail("table", tableID)
	}
	if err := status.Err(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "load job failed").WithDetail("table", tableID)
	}

	logger.WithBackend("bigquery").Info("load job completed",
		zap.String("table", tableID),
		zap.String("uri", uri),
		zap.String("format", format))
	return nil
}

// ExtractToGCS runs an extract job from a table to a gs:// URI and waits for
// it.
func ExtractToGCS(ctx context.Context, client *bigquery.Client, tableID, uri, format string) error {
	if _, _, err := ParseGCSURI(uri); err != nil {
		return err
	}
	f, err := dataFormat(format)
	if err != nil {
		return err
	}
	project, dataset, table, err := parseTableID(client, tableID)
	if err != nil {
		return err
	}

	gcsRef := bigquery.NewGCSReference(uri)
	gcsRef.DestinationFormat = f

	extractor := client.DatasetInProject(project, dataset).Table(table).ExtractorTo(gcsRef)
	job, err := extractor.Run(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to start extract job").
			WithDetail("table", tableID).
			WithDetail("uri", uri)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "extract job failed").WithDetail("table", tableID)
	}
	if err := status.Err(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "extract job failed").WithDetail("table", tableID)
	}

	logger.WithBackend("bigquery").Info("extract job completed",
		zap.String("table", tableID),
		zap.String("uri", uri),
		zap.String("format", format))
	return nil
}
