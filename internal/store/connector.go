package store

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/dbseed/internal/retry"
	"github.com/vvka-141/dbseed/pkg/dbseed"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Inserts run one at a time, so the pool stays small.
const (
	defaultMaxConns        = 2
	defaultMaxConnIdleTime = 5 * time.Minute

	// tokenExpiryWarning is the remaining token lifetime below which a warning is logged.
	tokenExpiryWarning = 5 * time.Minute
)

// Connector opens a storage backend and verifies it answers, retrying
// transient failures with exponential backoff.
type Connector struct {
	config    dbseed.ConnectionConfig
	executor  *retry.Executor
	logger    dbseed.Logger
	tokens    TokenProvider
	newDialer func(context.Context) (cloudSQLDialer, error)
}

// ConnectorOption configures a Connector.
type ConnectorOption func(*Connector)

// WithTokenProvider replaces the cloud token provider selected by the
// connection's auth method. Only used with AuthAWSIAM and AuthAzure.
func WithTokenProvider(p TokenProvider) ConnectorOption {
	return func(c *Connector) {
		c.tokens = p
	}
}

// NewConnector resolves config and creates a Connector for its driver.
// Retries use dbseed.DefaultRetryMaxAttempts attempts starting at
// dbseed.DefaultRetryInitialDelay, capped at dbseed.DefaultRetryMaxDelay.
func NewConnector(config dbseed.ConnectionConfig, logger dbseed.Logger, opts ...ConnectorOption) (*Connector, error) {
	if logger == nil {
		panic("logger cannot be nil")
	}

	resolved, err := ResolveConnection(config)
	if err != nil {
		return nil, err
	}
	if !resolved.Driver.IsValid() {
		return nil, fmt.Errorf("%w: unknown driver %q", dbseed.ErrInvalidConfig, resolved.Driver)
	}
	if resolved.Driver == dbseed.DriverMongo && resolved.Database == "" {
		return nil, fmt.Errorf("%w: mongodb requires a database name", dbseed.ErrInvalidConfig)
	}
	if err := resolved.ValidateAuth(); err != nil {
		return nil, err
	}

	strategy := retry.NewExponentialBackoff(dbseed.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(dbseed.DefaultRetryInitialDelay),
		retry.WithMaxDelay(dbseed.DefaultRetryMaxDelay),
	)
	executor := retry.NewExecutor(retry.NewConnectionErrorClassifier(), strategy).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Verbose("Connection attempt %d failed (%v), retrying in %s", attempt+1, err, delay.Round(time.Millisecond))
		})

	c := &Connector{config: resolved, executor: executor, logger: logger, newDialer: newCloudSQLDialer}
	for _, opt := range opts {
		opt(c)
	}
	switch resolved.Auth {
	case dbseed.AuthAWSIAM, dbseed.AuthAzure:
		if c.tokens == nil {
			tokens, err := tokenProviderFor(resolved)
			if err != nil {
				return nil, err
			}
			c.tokens = tokens
		}
		logger.Verbose("Authenticating with %s via %s", resolved.Auth, c.tokens)
	case dbseed.AuthGoogle:
		logger.Verbose("Authenticating with %s through instance %s", resolved.Auth, resolved.GoogleInstance)
	}
	return c, nil
}

// tokenProviderFor builds the provider of a token-based auth method.
func tokenProviderFor(cfg dbseed.ConnectionConfig) (TokenProvider, error) {
	switch cfg.Auth {
	case dbseed.AuthAzure:
		return NewAzureTokenProvider(cfg.AzureTenantID, cfg.AzureClientID, cfg.AzureClientSecret)
	case dbseed.AuthAWSIAM:
		connConfig, err := pgconn.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse connection string: %v", dbseed.ErrInvalidConfig, err)
		}
		endpoint := net.JoinHostPort(connConfig.Host, strconv.Itoa(int(connConfig.Port)))
		return NewAWSTokenProvider(endpoint, cfg.AWSRegion, connConfig.User)
	}
	return nil, fmt.Errorf("%w: %s authentication does not use tokens", dbseed.ErrInvalidConfig, cfg.Auth)
}

// Config returns the resolved connection configuration.
func (c *Connector) Config() dbseed.ConnectionConfig {
	return c.config
}

// Connect opens the backend and pings it. Failures wrap dbseed.ErrConnectionFailed.
func (c *Connector) Connect(ctx context.Context) (dbseed.Connection, error) {
	var conn dbseed.Connection

	err := c.executor.Execute(ctx, func(ctx context.Context) error {
		attemptCtx := ctx
		if c.config.ConnectTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, c.config.ConnectTimeout)
			defer cancel()
		}

		opened, err := c.open(attemptCtx)
		if err != nil {
			return err
		}
		if err := opened.Ping(attemptCtx); err != nil {
			_ = opened.Close()
			return err
		}
		conn = opened
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dbseed.ErrConnectionFailed, describeConnectionError(err, c.config.Driver))
	}

	c.logger.Verbose("Connected to %s backend", c.config.Driver)
	return conn, nil
}

func (c *Connector) open(ctx context.Context) (dbseed.Connection, error) {
	switch c.config.Driver {
	case dbseed.DriverPostgres:
		poolConfig, release, err := c.postgresPoolConfig(ctx)
		if err != nil {
			return nil, err
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			release()
			return nil, err
		}
		return &pgxConnection{Postgres: NewPostgres(pool), pool: pool, release: release}, nil

	case dbseed.DriverPQ, dbseed.DriverMySQL, dbseed.DriverSQLite:
		dialect, err := DialectFor(c.config.Driver)
		if err != nil {
			return nil, err
		}
		db, err := sql.Open(dialect.Name, c.config.DSN)
		if err != nil {
			return nil, err
		}
		if c.config.Driver == dbseed.DriverSQLite {
			// One connection keeps ":memory:" databases alive for the whole run.
			db.SetMaxOpenConns(1)
		}
		return &sqlConnection{SQL: NewSQL(db, dialect), db: db}, nil

	case dbseed.DriverMongo:
		opts := options.Client().ApplyURI(c.config.DSN)
		if c.config.ConnectTimeout > 0 {
			opts.SetConnectTimeout(c.config.ConnectTimeout).SetServerSelectionTimeout(c.config.ConnectTimeout)
		}
		client, err := mongo.Connect(opts)
		if err != nil {
			return nil, err
		}
		return &mongoConnection{Mongo: NewMongo(client.Database(c.config.Database)), client: client}, nil

	case dbseed.DriverMemory:
		return NewMemory(), nil
	}

	return nil, fmt.Errorf("%w: unknown driver %q", dbseed.ErrInvalidConfig, c.config.Driver)
}

// postgresPoolConfig builds the pgx pool configuration, including the cloud
// identity hooks of the auth method. release frees what those hooks hold and
// must be called once the pool is closed.
func (c *Connector) postgresPoolConfig(ctx context.Context) (*pgxpool.Config, func(), error) {
	poolConfig, err := pgxpool.ParseConfig(c.config.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse connection config: %w", err)
	}
	poolConfig.MaxConns = defaultMaxConns
	poolConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		c.logger.Verbose("NOTICE: %s", notice.Message)
	}

	release := func() {}
	switch c.config.Auth {
	case dbseed.AuthAWSIAM, dbseed.AuthAzure:
		// A fresh token per physical connection; tokens expire within the hour.
		poolConfig.BeforeConnect = func(ctx context.Context, cc *pgx.ConnConfig) error {
			token, expiresOn, err := c.tokens.GetToken(ctx)
			if err != nil {
				return fmt.Errorf("failed to acquire %s token: %w", c.config.Auth, err)
			}
			if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
				c.logger.Verbose("%s token expires in %s", c.config.Auth, remaining.Round(time.Second))
			}
			cc.Password = token
			return nil
		}

	case dbseed.AuthGoogle:
		dialer, err := c.newDialer(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Cloud SQL dialer: %w", err)
		}
		instance := c.config.GoogleInstance
		// The connector tunnels over its own TLS, so pgx must not negotiate SSL.
		poolConfig.ConnConfig.TLSConfig = nil
		poolConfig.ConnConfig.Fallbacks = nil
		poolConfig.ConnConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
			return dialer.Dial(ctx, instance)
		}
		release = func() {
			if err := dialer.Close(); err != nil {
				c.logger.Error("Failed to close Cloud SQL dialer: %v", err)
			}
		}
	}

	return poolConfig, release, nil
}

// describeConnectionError adds a hint for the most common connection failures.
func describeConnectionError(err error, driver dbseed.Driver) error {
	msg := strings.ToLower(err.Error())

	var hint string
	switch {
	case strings.Contains(msg, "connection refused"):
		hint = "is the database running and listening on the configured host and port?"
	case strings.Contains(msg, "no such host"):
		hint = "check the hostname and DNS configuration"
	case strings.Contains(msg, "password authentication failed"), strings.Contains(msg, "access denied"):
		hint = "check the username and password"
	case strings.Contains(msg, "does not exist"), strings.Contains(msg, "unknown database"):
		hint = "create the database before seeding it"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		hint = "the server did not answer in time"
	}

	if hint == "" {
		return fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	return fmt.Errorf("failed to connect to %s (%s): %w", driver, hint, err)
}

var _ dbseed.Connector = (*Connector)(nil)
