package postgres

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/JailtonJunior94/txkit/pkg/observability"
	"github.com/JailtonJunior94/txkit/pkg/observability/noop"
)

const (
	defaultHost            = "localhost"
	defaultPort            = 5432
	defaultUser            = "postgres"
	defaultDatabase        = "postgres"
	defaultSSLMode         = "disable"
	defaultApplicationName = "txkit"
	defaultConnectTimeout  = 10 * time.Second

	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 10 * time.Minute

	defaultPingTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = 2 * time.Second
)

type config struct {
	dsn             string
	host            string
	port            int
	user            string
	password        string
	database        string
	sslMode         string
	applicationName string
	connectTimeout  time.Duration

	pool   poolConfig
	retry  retryConfig
	logger observability.Logger
}

// poolConfig is applied to the *sql.DB once the first ping succeeds.
type poolConfig struct {
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	connMaxIdleTime time.Duration
}

// retryConfig controls the pings issued by Connect. Each ping is bounded by
// pingTimeout; maxRetries counts attempts after the first one.
type retryConfig struct {
	pingTimeout time.Duration
	maxRetries  int
	interval    time.Duration
	// maxInterval > 0 switches from a constant to an exponential backoff
	// starting at interval and capped at maxInterval.
	maxInterval time.Duration
}

func defaultConfig() *config {
	return &config{
		host:            defaultHost,
		port:            defaultPort,
		user:            defaultUser,
		database:        defaultDatabase,
		sslMode:         defaultSSLMode,
		applicationName: defaultApplicationName,
		connectTimeout:  defaultConnectTimeout,
		pool: poolConfig{
			maxOpenConns:    defaultMaxOpenConns,
			maxIdleConns:    defaultMaxIdleConns,
			connMaxLifetime: defaultConnMaxLifetime,
			connMaxIdleTime: defaultConnMaxIdleTime,
		},
		retry: retryConfig{
			pingTimeout: defaultPingTimeout,
			maxRetries:  defaultMaxRetries,
			interval:    defaultRetryInterval,
		},
		logger: noop.NewProvider().Logger(),
	}
}

func (c *config) validate() error {
	if c.pool.maxIdleConns > c.pool.maxOpenConns {
		return fmt.Errorf("%w: max idle connections (%d) exceed max open connections (%d)",
			ErrInvalidConfig, c.pool.maxIdleConns, c.pool.maxOpenConns)
	}
	if c.retry.maxInterval > 0 && c.retry.maxInterval < c.retry.interval {
		return fmt.Errorf("%w: max retry interval (%s) is below the initial interval (%s)",
			ErrInvalidConfig, c.retry.maxInterval, c.retry.interval)
	}
	return nil
}

func (r retryConfig) policy() backoff.BackOff {
	if r.maxInterval <= 0 {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(r.interval), uint64(r.maxRetries))
	}

	exp := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(r.interval),
		backoff.WithMaxInterval(r.maxInterval),
		backoff.WithMaxElapsedTime(0),
	)
	return backoff.WithMaxRetries(exp, uint64(r.maxRetries))
}
