package sqlstore

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type dialect struct {
	driver string
	schema []string
	// isDuplicate reports a primary key violation.
	isDuplicate func(error) bool
}

var sqliteDialect = dialect{
	driver: DriverSQLite,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS survey_submissions (
    id TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL,
    identity TEXT NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    organization TEXT NOT NULL DEFAULT '',
    department TEXT NOT NULL DEFAULT '',
    job_position TEXT NOT NULL DEFAULT '',
    responses TEXT NOT NULL,
    completion_seconds INTEGER NOT NULL DEFAULT 0,
    content_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_subject ON survey_submissions (subject_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_identity ON survey_submissions (identity, created_at)`,
		`CREATE TABLE IF NOT EXISTS leadership_analyses (
    id TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL,
    dimensions TEXT NOT NULL,
    style TEXT NOT NULL,
    risk TEXT NOT NULL,
    insights TEXT NOT NULL,
    organization TEXT NOT NULL DEFAULT '',
    department TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_subject ON leadership_analyses (subject_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_org ON leadership_analyses (organization, department)`,
	},
	isDuplicate: func(err error) bool {
		var sqliteErr *sqlite.Error
		if !errors.As(err, &sqliteErr) {
			return false
		}
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
		return false
	},
}

var mysqlDialect = dialect{
	driver: DriverMySQL,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS survey_submissions (
    id VARCHAR(64) PRIMARY KEY,
    subject_id VARCHAR(255) NOT NULL,
    identity VARCHAR(255) NOT NULL,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) NOT NULL,
    organization VARCHAR(255) NOT NULL DEFAULT '',
    department VARCHAR(255) NOT NULL DEFAULT '',
    job_position VARCHAR(255) NOT NULL DEFAULT '',
    responses TEXT NOT NULL,
    completion_seconds INT NOT NULL DEFAULT 0,
    content_hash CHAR(64) NOT NULL,
    created_at BIGINT NOT NULL,
    INDEX idx_submissions_subject (subject_id, created_at),
    INDEX idx_submissions_identity (identity, created_at)
) DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS leadership_analyses (
    id VARCHAR(64) PRIMARY KEY,
    subject_id VARCHAR(255) NOT NULL,
    dimensions TEXT NOT NULL,
    style VARCHAR(64) NOT NULL,
    risk VARCHAR(16) NOT NULL,
    insights MEDIUMTEXT NOT NULL,
    organization VARCHAR(255) NOT NULL DEFAULT '',
    department VARCHAR(255) NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL,
    INDEX idx_analyses_subject (subject_id, created_at),
    INDEX idx_analyses_org (organization, department)
) DEFAULT CHARSET=utf8mb4`,
	},
	isDuplicate: func(err error) bool {
		var mysqlErr *mysql.MySQLError
		return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
	},
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case DriverSQLite:
		return sqliteDialect, nil
	case DriverMySQL:
		return mysqlDialect, nil
	}
	return dialect{}, fmt.Errorf("unsupported sql driver %q", driver)
}

// normalizeDSN fills driver defaults into dsn.
func normalizeDSN(driver, dsn string) (string, error) {
	if driver != DriverMySQL {
		return dsn, nil
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}
	return cfg.FormatDSN(), nil
}
