package postgres_otelsql

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JailtonJunior94/txkit/pkg/database/sqladapter"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty dsn", mutate: func(c *Config) { c.DSN = "" }, wantErr: "DSN"},
		{name: "empty service", mutate: func(c *Config) { c.ServiceName = "" }, wantErr: "ServiceName"},
		{name: "no open conns", mutate: func(c *Config) { c.MaxOpenConns = 0 }, wantErr: "MaxOpenConns"},
		{name: "negative idle", mutate: func(c *Config) { c.MaxIdleConns = -1 }, wantErr: "negative"},
		{name: "idle above open", mutate: func(c *Config) { c.MaxIdleConns = 30 }, wantErr: "cannot exceed"},
		{name: "short lifetime", mutate: func(c *Config) { c.ConnMaxLifetime = time.Second }, wantErr: "ConnMaxLifetime"},
		{name: "short idle time", mutate: func(c *Config) { c.ConnMaxIdleTime = time.Second }, wantErr: "ConnMaxIdleTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig("postgres://u:p@localhost:5432/db", "orders")
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	assert.Error(t, validateConfig(nil))
}

func TestNewDBManager_RejectsInvalidConfig(t *testing.T) {
	manager, err := NewDBManager(context.Background(), &Config{})
	assert.Nil(t, manager)
	assert.ErrorContains(t, err, "invalid config")
}

func TestDriverOptions(t *testing.T) {
	assert.Len(t, driverOptions(DefaultConfig("dsn", "orders")), 3)
}

func newTestManager(t *testing.T) *DBManager {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	m := &DBManager{db: db, config: DefaultConfig("file::memory:", "orders")}
	m.configurePool()
	return m
}

func TestDBManager_Lifecycle(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Ping(ctx))
	assert.Equal(t, 25, m.Stats().MaxOpenConnections)

	provider, err := m.Provider()
	require.NoError(t, err)
	assert.IsType(t, &sqladapter.Provider{}, provider)

	require.NoError(t, m.Shutdown(ctx))
	require.NoError(t, m.Shutdown(ctx), "second shutdown is a no-op")

	assert.Nil(t, m.DB())
	assert.ErrorIs(t, m.Ping(ctx), ErrClosed)
	assert.Equal(t, sql.DBStats{}, m.Stats())

	_, err = m.Provider()
	assert.ErrorIs(t, err, ErrClosed)
}
