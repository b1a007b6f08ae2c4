package dbseed

import (
	"errors"
	"fmt"
	"time"
)

// Fixture is one row to insert into a named table.
// Readers produce fixtures; loaders never modify them.
type Fixture struct {
	// Table is the destination table or collection. May be schema-qualified ("public.users").
	Table string

	// Data maps column names to values.
	Data map[string]any
}

// Driver identifies a storage backend.
type Driver string

const (
	DriverPostgres Driver = "postgres" // pgx
	DriverPQ       Driver = "pq"       // database/sql + lib/pq
	DriverMySQL    Driver = "mysql"    // database/sql + go-sql-driver/mysql
	DriverSQLite   Driver = "sqlite"   // database/sql + modernc.org/sqlite
	DriverMongo    Driver = "mongodb"  // mongo-driver v2
	DriverMemory   Driver = "memory"   // in-process recorder, nothing is persisted
)

// IsValid reports whether d names a known driver.
func (d Driver) IsValid() bool {
	switch d {
	case DriverPostgres, DriverPQ, DriverMySQL, DriverSQLite, DriverMongo, DriverMemory:
		return true
	default:
		return false
	}
}

// AuthMethod selects how the postgres driver authenticates.
type AuthMethod string

const (
	AuthPassword AuthMethod = ""       // credentials from the DSN
	AuthAWSIAM   AuthMethod = "aws"    // RDS IAM token as password
	AuthAzure    AuthMethod = "azure"  // Entra ID token as password
	AuthGoogle   AuthMethod = "google" // Cloud SQL connector with IAM authN
)

// AuthMethods lists the accepted --auth values.
var AuthMethods = []AuthMethod{AuthAWSIAM, AuthAzure, AuthGoogle}

// IsValid reports whether a names a known authentication method.
func (a AuthMethod) IsValid() bool {
	switch a {
	case AuthPassword, AuthAWSIAM, AuthAzure, AuthGoogle:
		return true
	default:
		return false
	}
}

// String returns a human-readable name.
func (a AuthMethod) String() string {
	switch a {
	case AuthPassword:
		return "password"
	case AuthAWSIAM:
		return "AWS IAM"
	case AuthAzure:
		return "Azure Entra ID"
	case AuthGoogle:
		return "Google Cloud SQL IAM"
	default:
		return fmt.Sprintf("unknown(%s)", string(a))
	}
}

// ConnectionConfig describes how to reach the storage backend.
type ConnectionConfig struct {
	Driver Driver

	// DSN is the driver-native data source name passed to the backend.
	DSN string

	// Database selects the database for backends that address it separately (MongoDB).
	Database string

	// ConnectTimeout bounds each connection attempt. Zero means no extra bound.
	ConnectTimeout time.Duration

	// Auth replaces the DSN password with a cloud identity. Postgres driver only.
	Auth AuthMethod

	// AWSRegion is required for AuthAWSIAM.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance (project:region:instance) for AuthGoogle.
	GoogleInstance string

	// Azure service principal. When all three are empty AuthAzure uses the
	// DefaultAzureCredential chain (environment, managed identity, Azure CLI).
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// ValidateAuth checks that the cloud authentication settings are complete
// and used with a driver that supports them.
func (c ConnectionConfig) ValidateAuth() error {
	if !c.Auth.IsValid() {
		return fmt.Errorf("unknown auth method %q: %w", string(c.Auth), ErrInvalidConfig)
	}
	if c.Auth == AuthPassword {
		return nil
	}

	var errs []error
	if c.Driver != DriverPostgres {
		errs = append(errs, fmt.Errorf("%s authentication requires the %s driver, not %q: %w", c.Auth, DriverPostgres, c.Driver, ErrInvalidConfig))
	}
	switch c.Auth {
	case AuthAWSIAM:
		if c.AWSRegion == "" {
			errs = append(errs, fmt.Errorf("AWS IAM authentication requires a region: %w", ErrInvalidConfig))
		}
	case AuthGoogle:
		if c.GoogleInstance == "" {
			errs = append(errs, fmt.Errorf("Google Cloud SQL IAM authentication requires an instance (project:region:instance): %w", ErrInvalidConfig))
		}
	case AuthAzure:
		set := 0
		for _, v := range []string{c.AzureTenantID, c.AzureClientID, c.AzureClientSecret} {
			if v != "" {
				set++
			}
		}
		if set != 0 && set != 3 {
			errs = append(errs, fmt.Errorf("Azure service principal requires tenant ID, client ID and client secret together: %w", ErrInvalidConfig))
		}
	}
	return errors.Join(errs...)
}

// SeedConfig contains all parameters needed for a seeding run.
type SeedConfig struct {
	// Sources are filenames or glob patterns, read in order.
	Sources []string

	// Connection selects the storage backend.
	Connection ConnectionConfig

	// Encoding is the text encoding of fixture files (default DefaultEncoding).
	Encoding string

	// Timeout is the global timeout for the whole run.
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the SeedConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *SeedConfig) Validate() error {
	var errs []error

	if len(c.Sources) == 0 {
		errs = append(errs, fmt.Errorf("at least one fixture source is required: %w", ErrInvalidConfig))
	}
	for i, src := range c.Sources {
		if src == "" {
			errs = append(errs, fmt.Errorf("fixture source %d is empty: %w", i, ErrInvalidConfig))
		}
	}

	if !c.Connection.Driver.IsValid() {
		errs = append(errs, fmt.Errorf("unknown driver %q: %w", c.Connection.Driver, ErrInvalidConfig))
	}

	if c.Connection.Driver != DriverMemory && c.Connection.DSN == "" {
		errs = append(errs, fmt.Errorf("connection string is required: %w", ErrInvalidConfig))
	}

	if c.Connection.Driver == DriverMongo && c.Connection.Database == "" {
		errs = append(errs, fmt.Errorf("mongodb requires a database name: %w", ErrInvalidConfig))
	}

	if err := c.Connection.ValidateAuth(); err != nil {
		errs = append(errs, err)
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}
