package database

import (
	"fmt"
	"strings"
)

// Dialect names a supported database engine.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DSN is a parsed GUILD_STORE_DSN.
type DSN struct {
	Dialect Dialect
	// Raw is the DSN as configured.
	Raw string
	// Path is the database file for SQLite.
	Path string
}

// ParseDSN accepts postgres://, postgresql:// and sqlite:// DSNs.
func ParseDSN(raw string) (DSN, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DSN{Dialect: DialectPostgres, Raw: raw}, nil
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return DSN{}, fmt.Errorf("sqlite dsn %q has no path", raw)
		}
		return DSN{Dialect: DialectSQLite, Raw: raw, Path: path}, nil
	}
	return DSN{}, fmt.Errorf("unsupported dsn %q (want postgres:// or sqlite://)", raw)
}

func (d DSN) migrateURL() string {
	if d.Dialect == DialectSQLite {
		return "sqlite://" + d.Path
	}
	return d.Raw
}
