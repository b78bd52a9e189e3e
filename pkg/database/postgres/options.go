package postgres

import (
	"time"

	"github.com/JailtonJunior94/txkit/pkg/observability"
)

type Option func(*config)

// WithDSN sets the connection string. It takes precedence over the individual
// connection options. Both key=value and URL forms are accepted by pgx.
func WithDSN(dsn string) Option {
	return func(c *config) {
		if dsn != "" {
			c.dsn = dsn
		}
	}
}

func WithHost(host string) Option {
	return func(c *config) {
		if host != "" {
			c.host = host
		}
	}
}

func WithPort(port int) Option {
	return func(c *config) {
		if port > 0 && port <= 65535 {
			c.port = port
		}
	}
}

func WithUser(user string) Option {
	return func(c *config) {
		if user != "" {
			c.user = user
		}
	}
}

// WithPassword sets the password. An empty password is allowed.
func WithPassword(password string) Option {
	return func(c *config) {
		c.password = password
	}
}

func WithDatabase(database string) Option {
	return func(c *config) {
		if database != "" {
			c.database = database
		}
	}
}

// WithSSLMode sets sslmode (disable, require, verify-ca, verify-full...).
func WithSSLMode(sslMode string) Option {
	return func(c *config) {
		if sslMode != "" {
			c.sslMode = sslMode
		}
	}
}

// WithApplicationName sets application_name, shown in pg_stat_activity.
func WithApplicationName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.applicationName = name
		}
	}
}

func WithConnectTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.connectTimeout = d
		}
	}
}

func WithMaxOpenConns(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.pool.maxOpenConns = n
		}
	}
}

// WithMaxIdleConns sets the idle pool size. Zero disables idle connections.
func WithMaxIdleConns(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.pool.maxIdleConns = n
		}
	}
}

func WithConnMaxLifetime(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.pool.connMaxLifetime = d
		}
	}
}

func WithConnMaxIdleTime(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.pool.connMaxIdleTime = d
		}
	}
}

// WithPingTimeout bounds each ping issued by Connect and HealthCheck.
func WithPingTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.retry.pingTimeout = d
		}
	}
}

// WithMaxRetries sets how many pings follow a failed first one.
// Zero means a single attempt.
func WithMaxRetries(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.retry.maxRetries = n
		}
	}
}

func WithRetryInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.retry.interval = d
		}
	}
}

// WithExponentialBackoff grows the wait between pings from the retry interval
// up to maxInterval.
func WithExponentialBackoff(maxInterval time.Duration) Option {
	return func(c *config) {
		if maxInterval > 0 {
			c.retry.maxInterval = maxInterval
		}
	}
}

// WithLogger receives one warning per failed ping and the final outcome of
// Connect.
func WithLogger(logger observability.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
