package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SchemaVersion is stamped into schema_meta. Bump it whenever the table
// layout below changes.
const SchemaVersion = 2

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS question_banks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		bank_id INTEGER NOT NULL REFERENCES question_banks(id) ON DELETE CASCADE,
		question_text TEXT NOT NULL,
		options_json TEXT NOT NULL,
		correct_answer_index INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_questions_bank_id ON questions(bank_id);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS question_banks (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS questions (
		id BIGSERIAL PRIMARY KEY,
		bank_id BIGINT NOT NULL REFERENCES question_banks(id) ON DELETE CASCADE,
		question_text TEXT NOT NULL,
		options_json TEXT NOT NULL,
		correct_answer_index INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_questions_bank_id ON questions(bank_id);`,
}

// Children first so the foreign key never blocks the drop.
var dropStatements = []string{
	`DROP TABLE IF EXISTS questions;`,
	`DROP TABLE IF EXISTS question_banks;`,
}

func (s *Store) schemaStatements() []string {
	if s.driver == DriverPostgres {
		return postgresSchema
	}
	return sqliteSchema
}

// ensureSchema creates the tables on a fresh database. A database stamped with
// a different version, or an unstamped one whose tables have another layout, is
// dropped and recreated when reset is true, losing all banks and questions.
// There is no migration path.
func (s *Store) ensureSchema(ctx context.Context, reset bool) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_meta (
		id INTEGER PRIMARY KEY,
		version INTEGER NOT NULL
	);`); err != nil {
		return fmt.Errorf("sqlstore: create schema_meta: %w", err)
	}

	stored, found, err := s.storedVersion(ctx)
	if err != nil {
		return err
	}

	mismatch := found && stored != SchemaVersion
	if !found {
		// Unstamped tables from another layout would survive CREATE TABLE IF NOT EXISTS.
		foreign, err := s.hasForeignTables(ctx)
		if err != nil {
			return err
		}
		mismatch = foreign
	}

	if mismatch {
		if !reset {
			if !found {
				return fmt.Errorf("%w: unversioned tables with an unknown layout, want version %d", ErrSchemaMismatch, SchemaVersion)
			}
			return fmt.Errorf("%w: database has version %d, want %d", ErrSchemaMismatch, stored, SchemaVersion)
		}
		if found {
			s.logger.Printf("sqlstore: schema version %d != %d, dropping and recreating tables (all data is lost)", stored, SchemaVersion)
		} else {
			s.logger.Printf("sqlstore: unversioned tables with an unknown layout, dropping and recreating tables (all data is lost)")
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if mismatch {
		for _, stmt := range dropStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("sqlstore: reset schema: %w", err)
			}
		}
	}

	for _, stmt := range s.schemaStatements() {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlstore: create schema: %w", err)
		}
	}

	if found {
		_, err = tx.ExecContext(ctx, s.rebind(`UPDATE schema_meta SET version = ? WHERE id = 1`), SchemaVersion)
	} else {
		_, err = tx.ExecContext(ctx, s.rebind(`INSERT INTO schema_meta (id, version) VALUES (1, ?)`), SchemaVersion)
	}
	if err != nil {
		return fmt.Errorf("sqlstore: stamp schema version: %w", err)
	}

	return tx.Commit()
}

func (s *Store) storedVersion(ctx context.Context) (int, bool, error) {
	var version int
	err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_meta WHERE id = 1`).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("sqlstore: read schema version: %w", err)
	}
	return version, true, nil
}

// expectedColumns lists the columns each table must have for the current
// layout. Probed with a zero-row SELECT so it works on every dialect.
var expectedColumns = map[string]string{
	"question_banks": "id, name",
	"questions":      "id, bank_id, question_text, options_json, correct_answer_index",
}

// hasForeignTables reports whether question_banks or questions already exist
// without the columns this package reads and writes.
func (s *Store) hasForeignTables(ctx context.Context) (bool, error) {
	for _, table := range []string{"question_banks", "questions"} {
		exists, err := s.tableExists(ctx, table)
		if err != nil {
			return false, err
		}
		if !exists {
			continue
		}
		rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM %s LIMIT 0`, expectedColumns[table], table))
		if err != nil {
			return true, nil
		}
		_ = rows.Close()
	}
	return false, nil
}

func (s *Store) tableExists(ctx context.Context, table string) (bool, error) {
	query := `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	if s.driver == DriverPostgres {
		query = `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?`
	}
	var n int
	if err := s.db.QueryRowContext(ctx, s.rebind(query), table).Scan(&n); err != nil {
		return false, fmt.Errorf("sqlstore: inspect table %s: %w", table, err)
	}
	return n > 0, nil
}
