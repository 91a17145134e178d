package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"quizbank/internal/livequery"
)

func (s *Store) AllBanks(ctx context.Context) ([]BankEntity, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM question_banks ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	banks := make([]BankEntity, 0)
	for rows.Next() {
		bank, err := scanBank(rows)
		if err != nil {
			return nil, err
		}
		banks = append(banks, bank)
	}
	return banks, rows.Err()
}

// WatchBanks emits the full bank list now and after every change to it.
func (s *Store) WatchBanks(ctx context.Context) *livequery.Subscription[[]BankEntity] {
	return livequery.Watch(ctx, s.notifier, s.AllBanks, TableBanks)
}

func (s *Store) BankByID(ctx context.Context, id int64) (BankEntity, error) {
	bank, err := scanBank(s.db.QueryRowContext(ctx, s.rebind(`SELECT id, name FROM question_banks WHERE id = ?`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BankEntity{}, ErrNotFound
		}
		return BankEntity{}, err
	}
	return bank, nil
}

// InsertBank stores bank and returns its id. A zero ID generates a new row; a
// non-zero ID replaces the row with that id in place, leaving its questions
// untouched.
func (s *Store) InsertBank(ctx context.Context, bank BankEntity) (int64, error) {
	var (
		id  int64
		err error
	)
	if bank.ID == 0 {
		err = s.db.QueryRowContext(
			ctx,
			s.rebind(`INSERT INTO question_banks (name) VALUES (?) RETURNING id`),
			bank.Name,
		).Scan(&id)
	} else {
		err = s.db.QueryRowContext(
			ctx,
			s.rebind(`INSERT INTO question_banks (id, name) VALUES (?, ?)
			 ON CONFLICT (id) DO UPDATE SET name = excluded.name
			 RETURNING id`),
			bank.ID,
			bank.Name,
		).Scan(&id)
		if err == nil {
			err = s.syncSequence(ctx, TableBanks)
		}
	}
	if err != nil {
		return 0, err
	}

	s.notify(ctx, TableBanks)
	return id, nil
}

func (s *Store) UpdateBank(ctx context.Context, bank BankEntity) error {
	result, err := s.db.ExecContext(ctx, s.rebind(`UPDATE question_banks SET name = ? WHERE id = ?`), bank.Name, bank.ID)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected > 0 {
		s.notify(ctx, TableBanks)
	}
	return nil
}

// DeleteBank deletes by primary key. The foreign key cascades the delete to
// every question of the bank.
func (s *Store) DeleteBank(ctx context.Context, bank BankEntity) error {
	return s.DeleteBankByID(ctx, bank.ID)
}

func (s *Store) DeleteBankByID(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM question_banks WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected > 0 {
		s.notify(ctx, TableBanks, TableQuestions)
	}
	return nil
}

// syncSequence moves a postgres serial past explicitly inserted ids so later
// generated ids do not collide with them.
func (s *Store) syncSequence(ctx context.Context, table string) error {
	if s.driver != DriverPostgres {
		return nil
	}
	_, err := s.db.ExecContext(
		ctx,
		`SELECT setval(pg_get_serial_sequence('`+table+`', 'id'), GREATEST((SELECT MAX(id) FROM `+table+`), 1))`,
	)
	return err
}
