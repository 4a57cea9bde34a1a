package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/samber/lo"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

var ErrNotFound = errors.New("not found")

type DB struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

func New(driver, dsn string) (*DB, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if driver == DriverMySQL {
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		// Timestamps are scanned into time.Time and stored as UTC.
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		dsn = cfg.FormatDSN()
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// A single writer avoids SQLITE_BUSY between concurrent webhooks.
		db.SetMaxOpenConns(1)
	} else {
		db.SetConnMaxLifetime(1 * time.Minute)
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("can't ping the database: %w", err)
	}

	return &DB{
		db:      db,
		dialect: d,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Migrate creates the journal, subscription and payment tables if needed.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range d.dialect.schema {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error applying schema: %w", err)
		}
	}
	return nil
}

type dialect struct {
	schema []string

	// upsert renders the conflict clause that overwrites cols when a row
	// with the same key already exists.
	upsert func(key string, cols []string) string

	// ignore renders the conflict clause that keeps the existing row.
	ignore func(key string) string
}

var dialects = map[string]dialect{
	DriverMySQL: {
		schema: mysqlSchema,
		// Row alias form, VALUES() is deprecated since 8.0.20.
		upsert: func(_ string, cols []string) string {
			return "AS incoming ON DUPLICATE KEY UPDATE " + strings.Join(
				lo.Map(cols, func(c string, _ int) string {
					return fmt.Sprintf("%s=incoming.%s", c, c)
				}),
				", ",
			)
		},
		ignore: func(key string) string {
			return fmt.Sprintf("ON DUPLICATE KEY UPDATE %s=%s", key, key)
		},
	},
	DriverSQLite: {
		schema: sqliteSchema,
		upsert: func(key string, cols []string) string {
			return fmt.Sprintf("ON CONFLICT(%s) DO UPDATE SET ", key) + strings.Join(
				lo.Map(cols, func(c string, _ int) string {
					return fmt.Sprintf("%s=excluded.%s", c, c)
				}),
				", ",
			)
		},
		ignore: func(key string) string {
			return fmt.Sprintf("ON CONFLICT(%s) DO NOTHING", key)
		},
	},
}

func insertStatement(table string, cols []string) string {
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
	)
}

type scanner interface {
	Scan(dest ...any) error
}
