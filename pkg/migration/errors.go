package migration

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDriver is returned when an unsupported database driver is specified.
	ErrInvalidDriver = errors.New("invalid or unsupported database driver")

	// ErrMissingDSN is returned when the database DSN is not provided.
	ErrMissingDSN = errors.New("database DSN is required")

	// ErrMissingSource is returned when neither a file:// source nor an FS is provided.
	ErrMissingSource = errors.New("migration source is required")

	ErrInvalidTimeout     = errors.New("timeout must be positive")
	ErrInvalidLockTimeout = errors.New("lock timeout must be non-negative")

	// ErrDirtyDatabase indicates a migration was partially applied.
	// It needs manual intervention, usually Force to the last good version.
	ErrDirtyDatabase = errors.New("database is in a dirty state - manual intervention required")

	// ErrMigrationLocked indicates that another process is currently running migrations.
	ErrMigrationLocked = errors.New("migration lock is held by another process")

	// ErrAlreadyClosed is returned when operations are called on a closed migrator.
	ErrAlreadyClosed = errors.New("migrator has already been closed")
)

// MigrationError wraps migration errors with additional context.
type MigrationError struct {
	Operation string
	Driver    Driver
	Version   uint
	Err       error
}

func (e *MigrationError) Error() string {
	if e.Version > 0 {
		return fmt.Sprintf("migration error during %s (driver=%s, version=%d): %v", e.Operation, e.Driver, e.Version, e.Err)
	}
	return fmt.Sprintf("migration error during %s (driver=%s): %v", e.Operation, e.Driver, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

// NewMigrationError creates a new migration error with context.
func NewMigrationError(operation string, driver Driver, version uint, err error) error {
	if err == nil {
		return nil
	}
	return &MigrationError{
		Operation: operation,
		Driver:    driver,
		Version:   version,
		Err:       err,
	}
}
