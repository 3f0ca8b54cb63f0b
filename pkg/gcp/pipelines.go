package gcp

import (
	"context"
	"fmt"

	dataproc "cloud.google.com/go/dataproc/v2/apiv1"
	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
	"go.uber.org/zap"
	dataflow "google.golang.org/api/dataflow/v1b3"
	"google.golang.org/api/option"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
	"github.com/armature-io/armature/pkg/logger"
)

// NewDataflowService creates a Dataflow API service handle.
func NewDataflowService(ctx context.Context, cfg *config.GCPConfig) (*dataflow.Service, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "gcp config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid gcp config")
	}

	svc, err := dataflow.NewService(ctx, clientOptions(cfg)...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create dataflow service")
	}
	return svc, nil
}

// TemplateParams describes one Dataflow template launch.
type TemplateParams struct {
	JobName string
	// GCSPath is the gs:// path of the template
	GCSPath    string
	Region     string
	Parameters map[string]string
	// TempLocation is forwarded into the runtime environment
	TempLocation string
}

// Validate checks required fields before any API call.
func (p *TemplateParams) Validate() error {
	if p.JobName == "" {
		return errors.New(errors.ErrorTypeConfig, "job name is required")
	}
	if p.Region == "" {
		return errors.New(errors.ErrorTypeConfig, "region is required")
	}
	if _, _, err := ParseGCSURI(p.GCSPath); err != nil {
		return err
	}
	return nil
}

// LaunchDataflowTemplate launches one job from a GCS-hosted template and
// returns the launch response. One-shot: no polling, no job management.
func LaunchDataflowTemplate(ctx context.Context, svc *dataflow.Service, cfg *config.GCPConfig, params TemplateParams) (*dataflow.LaunchTemplateResponse, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	launch := &dataflow.LaunchTemplateParameters{
		JobName:    params.JobName,
		Parameters: params.Parameters,
	}
	if params.TempLocation != "" {
		launch.Environment = &dataflow.RuntimeEnvironment{TempLocation: params.TempLocation}
	}

	resp, err := svc.Projects.Locations.Templates.Launch(cfg.ProjectID, params.Region, launch).
		GcsPath(params.GCSPath).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "dataflow template launch failed").
			WithDetail("job_name", params.JobName).
			WithDetail("template", params.GCSPath)
	}

	logger.WithBackend("dataflow").Info("template launched",
		zap.String("job_name", params.JobName),
		zap.String("region", params.Region))
	return resp, nil
}

// NewDataprocJobClient creates a job controller client pinned to the
// region's endpoint, which Dataproc requires for job submission.
func NewDataprocJobClient(ctx context.Context, cfg *config.GCPConfig, region string) (*dataproc.JobControllerClient, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "gcp config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid gcp config")
	}
	if region == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "region is required")
	}

	opts := append(clientOptions(cfg),
		option.WithEndpoint(fmt.Sprintf("%s-dataproc.googleapis.com:443", region)))
	client, err := dataproc.NewJobControllerClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create dataproc job client")
	}
	return client, nil
}

// PySparkParams describes one Dataproc PySpark job submission.
type PySparkParams struct {
	Region  string
	Cluster string
	// MainPythonFileURI is the gs:// path of the driver script
	MainPythonFileURI string
	Args              []string
	Properties        map[string]string
}

// Validate checks required fields before any API call.
func (p *PySparkParams) Validate() error {
	if p.Region == "" {
		return errors.New(errors.ErrorTypeConfig, "region is required")
	}
	if p.Cluster == "" {
		return errors.New(errors.ErrorTypeConfig, "cluster is required")
	}
	if _, _, err := ParseGCSURI(p.MainPythonFileURI); err != nil {
		return err
	}
	return nil
}

// SubmitDataprocPySpark submits one PySpark job to a cluster and returns the
// job. One-shot: no polling, no job management.
func SubmitDataprocPySpark(ctx context.Context, client *dataproc.JobControllerClient, cfg *config.GCPConfig, params PySparkParams) (*dataprocpb.Job, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	req := &dataprocpb.SubmitJobRequest{
		ProjectId: cfg.ProjectID,
		Region:    params.Region,
		Job: &dataprocpb.Job{
			Placement: &dataprocpb.JobPlacement{ClusterName: params.Cluster},
			TypeJob: &dataprocpb.Job_PysparkJob{
				PysparkJob: &dataprocpb.PySparkJob{
					MainPythonFileUri: params.MainPythonFileURI,
					Args:              params.Args,
					Properties:        params.Properties,
				},
			},
		},
	}

	job, err := client.SubmitJob(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "dataproc job submission failed").
			WithDetail("cluster", params.Cluster).
			WithDetail("region", params.Region)
	}

	logger.WithBackend("dataproc").Info("pyspark job submitted",
		zap.String("cluster", params.Cluster),
		zap.String("job_id", job.GetReference().GetJobId()))
	return job, nil
}
