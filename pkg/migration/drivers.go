package migration

// Driver represents the supported database drivers for migrations.
type Driver string

const (
	// DriverPostgres represents PostgreSQL database driver.
	DriverPostgres Driver = "postgres"

	// DriverSQLite represents the cgo SQLite driver used by local tests.
	DriverSQLite Driver = "sqlite3"
)

// String returns the string representation of the driver.
func (d Driver) String() string {
	return string(d)
}

// IsValid validates if the driver is supported.
func (d Driver) IsValid() bool {
	switch d {
	case DriverPostgres, DriverSQLite:
		return true
	default:
		return false
	}
}
