package migration

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DriverStrategy builds the golang-migrate database URL for one driver.
type DriverStrategy interface {
	// Name returns the driver name used by golang-migrate.
	Name() string

	// BuildDatabaseURL constructs the database URL with driver-specific parameters.
	BuildDatabaseURL(dsn string, params DatabaseParams) (string, error)

	// Validate performs driver-specific validation on the configuration.
	Validate(config Config) error
}

// DatabaseParams holds parameters for database URL construction.
type DatabaseParams struct {
	MigrationsTable       string
	StatementTimeout      time.Duration
	MultiStatementEnabled bool
	MultiStatementMaxSize int
}

type postgresStrategy struct{}

// NewPostgresStrategy creates a new PostgreSQL driver strategy.
func NewPostgresStrategy() DriverStrategy {
	return &postgresStrategy{}
}

func (p *postgresStrategy) Name() string {
	return "postgres"
}

func (p *postgresStrategy) BuildDatabaseURL(dsn string, params DatabaseParams) (string, error) {
	parsedURL, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid PostgreSQL DSN format: %w", err)
	}
	if parsedURL.Host == "" {
		return "", fmt.Errorf("invalid PostgreSQL DSN format: missing host in %q", parsedURL.Redacted())
	}

	// golang-migrate selects its driver by scheme.
	parsedURL.Scheme = "postgres"

	query := parsedURL.Query()
	if params.MigrationsTable != "" {
		query.Set("x-migrations-table", params.MigrationsTable)
	}
	if params.StatementTimeout > 0 {
		query.Set("x-statement-timeout", fmt.Sprintf("%d", params.StatementTimeout.Milliseconds()))
	}
	if params.MultiStatementEnabled {
		query.Set("x-multi-statement", "true")
		if params.MultiStatementMaxSize > 0 {
			query.Set("x-multi-statement-max-size", fmt.Sprintf("%d", params.MultiStatementMaxSize))
		}
	}

	parsedURL.RawQuery = query.Encode()
	return parsedURL.String(), nil
}

func (p *postgresStrategy) Validate(Config) error {
	return nil
}

type sqliteStrategy struct{}

// NewSQLiteStrategy creates a new SQLite driver strategy.
func NewSQLiteStrategy() DriverStrategy {
	return &sqliteStrategy{}
}

func (s *sqliteStrategy) Name() string {
	return "sqlite3"
}

// BuildDatabaseURL accepts a bare path, a "file:" DSN or a sqlite3:// URL.
func (s *sqliteStrategy) BuildDatabaseURL(dsn string, params DatabaseParams) (string, error) {
	path := strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite3://"), "file:")
	path, rawQuery, _ := strings.Cut(path, "?")
	if path == "" {
		return "", fmt.Errorf("invalid SQLite DSN format: missing path in %q", dsn)
	}

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", fmt.Errorf("invalid SQLite DSN format: %w", err)
	}
	if params.MigrationsTable != "" {
		query.Set("x-migrations-table", params.MigrationsTable)
	}

	databaseURL := "sqlite3://" + path
	if encoded := query.Encode(); encoded != "" {
		databaseURL += "?" + encoded
	}
	return databaseURL, nil
}

func (s *sqliteStrategy) Validate(config Config) error {
	if strings.Contains(config.DSN, ":memory:") {
		return fmt.Errorf("SQLite migrations need a file database, in-memory databases are per connection")
	}
	return nil
}

// GetDriverStrategy returns the appropriate driver strategy based on the driver type.
func GetDriverStrategy(driver Driver) (DriverStrategy, error) {
	switch driver {
	case DriverPostgres:
		return NewPostgresStrategy(), nil
	case DriverSQLite:
		return NewSQLiteStrategy(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidDriver, driver)
	}
}
