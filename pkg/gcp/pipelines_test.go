package gcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armature-io/armature/pkg/errors"
)

func TestTemplateParamsValidate(t *testing.T) {
	valid := TemplateParams{
		JobName: "nightly-export",
		GCSPath: "gs://templates/export",
		Region:  "europe-west1",
	}
	require.NoError(t, valid.Validate())

	cases := []TemplateParams{
		{GCSPath: "gs://templates/export", Region: "europe-west1"},
		{JobName: "j", GCSPath: "gs://templates/export"},
		{JobName: "j", GCSPath: "/local/template", Region: "europe-west1"},
	}
	for i, params := range cases {
		err := params.Validate()
		require.Error(t, err, i)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfig) ||
			errors.IsType(err, errors.ErrorTypeValidation), i)
	}
}

func TestPySparkParamsValidate(t *testing.T) {
	valid := PySparkParams{
		Region:            "europe-west1",
		Cluster:           "etl",
		MainPythonFileURI: "gs://jobs/main.py",
	}
	require.NoError(t, valid.Validate())

	cases := []PySparkParams{
		{Cluster: "etl", MainPythonFileURI: "gs://jobs/main.py"},
		{Region: "europe-west1", MainPythonFileURI: "gs://jobs/main.py"},
		{Region: "europe-west1", Cluster: "etl", MainPythonFileURI: "main.py"},
	}
	for i, params := range cases {
		err := params.Validate()
		require.Error(t, err, i)
	}
}
