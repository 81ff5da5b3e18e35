package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultRegion, cfg.Region)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Contains(t, cfg.Services, "s3")
	assert.Contains(t, cfg.Dependencies["s3"], "lambda")
}

func TestGetEndpoint_EnvOverride(t *testing.T) {
	t.Setenv(EnvEndpoint, "http://localhost:14566")
	assert.Equal(t, "http://localhost:14566", GetEndpoint())
}

func TestGetEndpoint_Default(t *testing.T) {
	t.Setenv(EnvEndpoint, "")
	assert.Equal(t, DefaultEndpoint, GetEndpoint())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chaosd.yaml")
	content := `
endpoint: http://emulator:4566
region: eu-west-1
services: [s3, dynamodb]
timeout: 2s
dependencies:
  s3: [lambda]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv(EnvEndpoint, "")
	t.Setenv(EnvRegion, "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://emulator:4566", cfg.Endpoint)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, []string{"s3", "dynamodb"}, cfg.Services)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"lambda"}, cfg.Dependencies["s3"])
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chaosd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region: us-east-2\n"), 0o644))

	t.Setenv(EnvEndpoint, "")
	t.Setenv(EnvRegion, "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "us-east-2", cfg.Region)
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultServices, cfg.Services)
	assert.NotEmpty(t, cfg.Dependencies)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chaosd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: http://file:4566\n"), 0o644))

	t.Setenv(EnvEndpoint, "http://env:4566")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:4566", cfg.Endpoint)
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chaosd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services: {not-a-list\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvEndpoint, "")
	t.Setenv(EnvRegion, "")
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
}
