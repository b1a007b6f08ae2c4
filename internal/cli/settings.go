package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vvka-141/dbseed/internal/config"
	"github.com/vvka-141/dbseed/pkg/dbseed"
)

// Environment variables consulted when --connection is not given.
const (
	envConnection  = "DBSEED_CONNECTION"
	envDatabaseURL = "DATABASE_URL"
)

// Cloud SDK variables used to fill in authentication settings.
const (
	envAWSRegion         = "AWS_REGION"
	envAzureTenantID     = "AZURE_TENANT_ID"
	envAzureClientID     = "AZURE_CLIENT_ID"
	envAzureClientSecret = "AZURE_CLIENT_SECRET"
)

// sourceFlags are shared by every command that reads fixture files.
type sourceFlags struct {
	configPath string
	encoding   string
	envFiles   []string
}

// loadEnvFiles loads .env files into the process environment without
// overriding variables that are already set. With no explicit files, a
// missing ./.env is not an error.
func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("%w: failed to load env file: %w", dbseed.ErrInvalidConfig, err)
	}
	return nil
}

// loadProjectConfig reads an explicit --config path, or dbseed.yaml in the
// working directory when present. Returns nil when there is no project file.
func loadProjectConfig(path string) (*config.ProjectConfig, error) {
	if path != "" {
		cfg, err := config.LoadFile(path)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: config file %s does not exist", dbseed.ErrInvalidConfig, path)
		}
		return cfg, err
	}

	cfg, err := config.Load(".")
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, nil
	}
	return cfg, err
}

// connectionFromEnv returns the first non-empty connection variable.
func connectionFromEnv() string {
	for _, key := range []string{envConnection, envDatabaseURL} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// resolveSources applies .env files and the project file to cfg.
// Precedence: flags and arguments > environment > dbseed.yaml.
func resolveSources(flags sourceFlags, cfg *dbseed.SeedConfig, verbose bool) error {
	if err := loadEnvFiles(flags.envFiles); err != nil {
		return err
	}

	if cfg.Encoding == "" {
		cfg.Encoding = flags.encoding
	}
	if cfg.Connection.DSN == "" {
		cfg.Connection.DSN = connectionFromEnv()
	}

	project, err := loadProjectConfig(flags.configPath)
	if err != nil {
		return err
	}
	if project == nil {
		return nil
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Using project file with %d fixture source(s)\n", len(project.Fixtures))
	}
	return project.Apply(cfg)
}

// applyCloudAuthEnv fills cloud authentication settings from the cloud SDK
// environment variables. Azure tenant and client IDs are taken from the
// environment only together with $AZURE_CLIENT_SECRET; otherwise the default
// credential chain reads them itself (workload and managed identity).
func applyCloudAuthEnv(conn *dbseed.ConnectionConfig) {
	switch conn.Auth {
	case dbseed.AuthAWSIAM:
		if conn.AWSRegion == "" {
			conn.AWSRegion = os.Getenv(envAWSRegion)
		}
	case dbseed.AuthAzure:
		secret := os.Getenv(envAzureClientSecret)
		if secret == "" {
			return
		}
		conn.AzureClientSecret = secret
		if conn.AzureTenantID == "" {
			conn.AzureTenantID = os.Getenv(envAzureTenantID)
		}
		if conn.AzureClientID == "" {
			conn.AzureClientID = os.Getenv(envAzureClientID)
		}
	}
}
