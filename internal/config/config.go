// Package config reads the dbseed.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/dbseed/pkg/dbseed"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	URL            string `yaml:"url"`
	Driver         string `yaml:"driver,omitempty"`
	Database       string `yaml:"database,omitempty"`
	ConnectTimeout string `yaml:"connect_timeout,omitempty"`

	// Cloud authentication. Secrets never come from the project file.
	Auth           string `yaml:"auth,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Fixtures   []string         `yaml:"fixtures"`
	Encoding   string           `yaml:"encoding"`
	Timeout    string           `yaml:"timeout"`

	// dir is the directory the file was read from; relative fixture paths resolve against it.
	dir string
}

const ConfigFileName = "dbseed.yaml"

// Load reads ConfigFileName from dir.
func Load(dir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads a project file from an explicit path.
func LoadFile(configPath string) (*ProjectConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", dbseed.ErrInvalidConfig, configPath, err)
	}
	cfg.dir = filepath.Dir(configPath)
	return &cfg, nil
}

// Sources returns the fixture patterns with relative entries resolved
// against the directory of the project file.
func (c *ProjectConfig) Sources() []string {
	if len(c.Fixtures) == 0 {
		return nil
	}
	sources := make([]string, len(c.Fixtures))
	for i, src := range c.Fixtures {
		if c.dir == "" || src == "" || filepath.IsAbs(src) {
			sources[i] = src
			continue
		}
		sources[i] = filepath.Join(c.dir, src)
	}
	return sources
}

// Apply fills every zero field of cfg from the project file.
// Values already set on cfg (from flags or environment) win.
func (c *ProjectConfig) Apply(cfg *dbseed.SeedConfig) error {
	if len(cfg.Sources) == 0 {
		cfg.Sources = c.Sources()
	}
	if cfg.Encoding == "" {
		cfg.Encoding = c.Encoding
	}
	if cfg.Connection.DSN == "" {
		cfg.Connection.DSN = c.Connection.URL
	}
	if cfg.Connection.Driver == "" {
		cfg.Connection.Driver = dbseed.Driver(c.Connection.Driver)
	}
	if cfg.Connection.Database == "" {
		cfg.Connection.Database = c.Connection.Database
	}
	applyAuth(&cfg.Connection, c.Connection)

	if cfg.Timeout == 0 && c.Timeout != "" {
		d, err := parseDuration("timeout", c.Timeout)
		if err != nil {
			return err
		}
		cfg.Timeout = d
	}
	if cfg.Connection.ConnectTimeout == 0 && c.Connection.ConnectTimeout != "" {
		d, err := parseDuration("connection.connect_timeout", c.Connection.ConnectTimeout)
		if err != nil {
			return err
		}
		cfg.Connection.ConnectTimeout = d
	}
	return nil
}

func applyAuth(dst *dbseed.ConnectionConfig, src ConnectionConfig) {
	if dst.Auth == "" {
		dst.Auth = dbseed.AuthMethod(src.Auth)
	}
	if dst.AWSRegion == "" {
		dst.AWSRegion = src.AWSRegion
	}
	if dst.AzureTenantID == "" {
		dst.AzureTenantID = src.AzureTenantID
	}
	if dst.AzureClientID == "" {
		dst.AzureClientID = src.AzureClientID
	}
	if dst.GoogleInstance == "" {
		dst.GoogleInstance = src.GoogleInstance
	}
}

func parseDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", dbseed.ErrInvalidConfig, field, err)
	}
	return d, nil
}
