package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/dbseed/pkg/dbseed"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))
}

func TestLoad_AllFields(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `connection:
  url: mongodb://localhost:27017
  driver: mongodb
  database: app
  connect_timeout: 5s

fixtures:
  - fixtures/users.json
  - fixtures/**/*.yml

encoding: latin1
timeout: 10m
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "mongodb://localhost:27017", cfg.Connection.URL)
	assert.Equal(t, "mongodb", cfg.Connection.Driver)
	assert.Equal(t, "app", cfg.Connection.Database)
	assert.Equal(t, "5s", cfg.Connection.ConnectTimeout)
	assert.Equal(t, []string{"fixtures/users.json", "fixtures/**/*.yml"}, cfg.Fixtures)
	assert.Equal(t, "latin1", cfg.Encoding)
	assert.Equal(t, "10m", cfg.Timeout)
}

func TestLoad_MinimalYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "fixtures:\n  - seed.json\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "", cfg.Connection.URL)
	assert.Equal(t, []string{filepath.Join(dir, "seed.json")}, cfg.Sources())
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "{{invalid")

	cfg, err := Load(dir)
	assert.ErrorIs(t, err, dbseed.ErrInvalidConfig)
	assert.Nil(t, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Fixtures)
	assert.Nil(t, cfg.Sources())
}

func TestLoadFile_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed-ci.yaml")
	require.NoError(t, os.WriteFile(path, []byte("encoding: utf-16\n"), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "utf-16", cfg.Encoding)
}

func TestSources_AbsoluteKept(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "abs.json")
	cfg := &ProjectConfig{Fixtures: []string{abs, "rel.json"}, dir: "/project"}
	assert.Equal(t, []string{abs, filepath.Join("/project", "rel.json")}, cfg.Sources())
}

func TestApply_FillsZeroFields(t *testing.T) {
	project := &ProjectConfig{
		Connection: ConnectionConfig{URL: "sqlite://seed.db", Driver: "sqlite", ConnectTimeout: "2s"},
		Fixtures:   []string{"a.json"},
		Encoding:   "latin1",
		Timeout:    "1m",
	}

	var cfg dbseed.SeedConfig
	require.NoError(t, project.Apply(&cfg))

	assert.Equal(t, []string{"a.json"}, cfg.Sources)
	assert.Equal(t, "latin1", cfg.Encoding)
	assert.Equal(t, "sqlite://seed.db", cfg.Connection.DSN)
	assert.Equal(t, dbseed.DriverSQLite, cfg.Connection.Driver)
	assert.Equal(t, 2*time.Second, cfg.Connection.ConnectTimeout)
	assert.Equal(t, time.Minute, cfg.Timeout)
}

func TestApply_ExplicitValuesWin(t *testing.T) {
	project := &ProjectConfig{
		Connection: ConnectionConfig{URL: "sqlite://seed.db"},
		Fixtures:   []string{"a.json"},
		Encoding:   "latin1",
		Timeout:    "1m",
	}
	cfg := dbseed.SeedConfig{
		Sources:    []string{"b.json"},
		Encoding:   "utf-8",
		Timeout:    time.Hour,
		Connection: dbseed.ConnectionConfig{DSN: "memory://"},
	}

	require.NoError(t, project.Apply(&cfg))
	assert.Equal(t, []string{"b.json"}, cfg.Sources)
	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.Equal(t, time.Hour, cfg.Timeout)
	assert.Equal(t, "memory://", cfg.Connection.DSN)
}

func TestApply_InvalidDuration(t *testing.T) {
	tests := []struct {
		name    string
		project ProjectConfig
		field   string
	}{
		{"timeout", ProjectConfig{Timeout: "soon"}, "timeout"},
		{"connect timeout", ProjectConfig{Connection: ConnectionConfig{ConnectTimeout: "5 sec"}}, "connection.connect_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg dbseed.SeedConfig
			err := tt.project.Apply(&cfg)
			assert.ErrorIs(t, err, dbseed.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoad_CloudAuth(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `connection:
  url: postgresql://seeder@app.rds.amazonaws.com/app
  auth: aws
  aws_region: eu-west-1
`)

	project, err := Load(dir)
	require.NoError(t, err)

	cfg := dbseed.SeedConfig{Connection: dbseed.ConnectionConfig{AWSRegion: "us-east-1"}}
	require.NoError(t, project.Apply(&cfg))
	assert.Equal(t, dbseed.AuthAWSIAM, cfg.Connection.Auth)
	assert.Equal(t, "us-east-1", cfg.Connection.AWSRegion, "flag value wins over the project file")
}

func TestApply_AzureAndGoogleFields(t *testing.T) {
	project := &ProjectConfig{Connection: ConnectionConfig{
		Auth:           "azure",
		AzureTenantID:  "tenant",
		AzureClientID:  "client",
		GoogleInstance: "acme:europe-west1:app",
	}}

	var cfg dbseed.SeedConfig
	require.NoError(t, project.Apply(&cfg))
	assert.Equal(t, dbseed.AuthAzure, cfg.Connection.Auth)
	assert.Equal(t, "tenant", cfg.Connection.AzureTenantID)
	assert.Equal(t, "client", cfg.Connection.AzureClientID)
	assert.Equal(t, "acme:europe-west1:app", cfg.Connection.GoogleInstance)
	assert.Empty(t, cfg.Connection.AzureClientSecret)
}
