// Package sqlstore is the data access layer: the question_banks and questions
// tables, their row types and the parameterized queries over them.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "github.com/mattn/go-sqlite3"    // driver: sqlite3
	_ "modernc.org/sqlite"             // driver: sqlite

	"quizbank/internal/livequery"
)

const (
	DriverSQLite3  = "sqlite3"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	TableBanks     = "question_banks"
	TableQuestions = "questions"
)

var (
	ErrNotFound       = errors.New("sqlstore: row not found")
	ErrSchemaMismatch = errors.New("sqlstore: schema version mismatch")
)

type Options struct {
	Driver string
	DSN    string
	// DestructiveReset drops and recreates both tables when the stored schema
	// version differs from SchemaVersion. When false a mismatch fails Open.
	DestructiveReset bool
	Notifier         livequery.Notifier
	Logger           *log.Logger
}

type Store struct {
	db       *sql.DB
	driver   string
	notifier livequery.Notifier
	logger   *log.Logger
}

func Open(ctx context.Context, opts Options) (*Store, error) {
	driver := normalizeDriver(opts.Driver)
	dsn := strings.TrimSpace(opts.DSN)

	var driverName string
	switch driver {
	case DriverSQLite3:
		driverName = "sqlite3"
		if dsn == "" {
			dsn = "quiz.db"
		}
	case DriverSQLite:
		driverName = "sqlite"
		if dsn == "" {
			dsn = "quiz.db"
		}
	case DriverPostgres:
		driverName = "pgx"
		if dsn == "" {
			dsn = "postgres://localhost:5432/quizbank?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q (expected sqlite3|sqlite|postgres)", opts.Driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open: %w", err)
	}

	if isSQLite(driver) {
		// One connection keeps the per-connection pragmas below in effect.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: ping: %w", err)
	}

	if isSQLite(driver) {
		for _, pragma := range []string{`PRAGMA busy_timeout = 5000;`, `PRAGMA foreign_keys = ON;`} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("sqlstore: %s: %w", pragma, err)
			}
		}
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = livequery.NewBroker()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	store := &Store{
		db:       db,
		driver:   driver,
		notifier: notifier,
		logger:   logger,
	}
	if err := store.ensureSchema(ctx, opts.DestructiveReset); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Driver() string {
	return s.driver
}

func (s *Store) Notifier() livequery.Notifier {
	return s.notifier
}

func (s *Store) String() string {
	return fmt.Sprintf("sqlstore(%s)", s.driver)
}

// rebind rewrites ? placeholders for drivers that use positional $n markers.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var builder strings.Builder
	builder.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			builder.WriteByte('$')
			builder.WriteString(strconv.Itoa(n))
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

func (s *Store) notify(ctx context.Context, tables ...string) {
	if err := s.notifier.Publish(ctx, tables...); err != nil {
		s.logger.Printf("sqlstore: publish change for %v: %v", tables, err)
	}
}

func normalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite3", "mattn":
		return DriverSQLite3
	case "sqlite", "modernc":
		return DriverSQLite
	case "postgres", "postgresql", "pgx":
		return DriverPostgres
	default:
		return driver
	}
}

func isSQLite(driver string) bool {
	return driver == DriverSQLite3 || driver == DriverSQLite
}
