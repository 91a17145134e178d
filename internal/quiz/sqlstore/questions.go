package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"quizbank/internal/livequery"
)

const questionColumns = `id, bank_id, question_text, options_json, correct_answer_index`

func (s *Store) QuestionsForBank(ctx context.Context, bankID int64) ([]QuestionEntity, error) {
	return s.queryQuestions(ctx, `SELECT `+questionColumns+` FROM questions WHERE bank_id = ? ORDER BY id ASC`, bankID)
}

// RandomQuestionsForBank returns the same rows as QuestionsForBank in an order
// chosen by the engine on every call. Consecutive calls may return the same
// permutation.
func (s *Store) RandomQuestionsForBank(ctx context.Context, bankID int64) ([]QuestionEntity, error) {
	return s.queryQuestions(ctx, `SELECT `+questionColumns+` FROM questions WHERE bank_id = ? ORDER BY RANDOM()`, bankID)
}

func (s *Store) WatchQuestionsForBank(ctx context.Context, bankID int64) *livequery.Subscription[[]QuestionEntity] {
	return livequery.Watch(ctx, s.notifier, func(ctx context.Context) ([]QuestionEntity, error) {
		return s.QuestionsForBank(ctx, bankID)
	}, TableQuestions)
}

func (s *Store) QuestionByID(ctx context.Context, id int64) (QuestionEntity, error) {
	question, err := scanQuestion(s.db.QueryRowContext(ctx, s.rebind(`SELECT `+questionColumns+` FROM questions WHERE id = ?`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return QuestionEntity{}, ErrNotFound
		}
		return QuestionEntity{}, err
	}
	return question, nil
}

// InsertQuestion stores question and returns its id, replacing the row with
// the same non-zero id if one exists. The owning bank must exist.
func (s *Store) InsertQuestion(ctx context.Context, question QuestionEntity) (int64, error) {
	optionsJSON, err := encodeOptions(question.Options)
	if err != nil {
		return 0, err
	}

	var id int64
	if question.ID == 0 {
		err = s.db.QueryRowContext(
			ctx,
			s.rebind(`INSERT INTO questions (bank_id, question_text, options_json, correct_answer_index)
			 VALUES (?, ?, ?, ?)
			 RETURNING id`),
			question.BankID,
			question.QuestionText,
			optionsJSON,
			question.CorrectAnswerIndex,
		).Scan(&id)
	} else {
		err = s.db.QueryRowContext(
			ctx,
			s.rebind(`INSERT INTO questions (id, bank_id, question_text, options_json, correct_answer_index)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET
				bank_id = excluded.bank_id,
				question_text = excluded.question_text,
				options_json = excluded.options_json,
				correct_answer_index = excluded.correct_answer_index
			 RETURNING id`),
			question.ID,
			question.BankID,
			question.QuestionText,
			optionsJSON,
			question.CorrectAnswerIndex,
		).Scan(&id)
		if err == nil {
			err = s.syncSequence(ctx, TableQuestions)
		}
	}
	if err != nil {
		return 0, err
	}

	s.notify(ctx, TableQuestions)
	return id, nil
}

func (s *Store) UpdateQuestion(ctx context.Context, question QuestionEntity) error {
	optionsJSON, err := encodeOptions(question.Options)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(
		ctx,
		s.rebind(`UPDATE questions
		 SET bank_id = ?, question_text = ?, options_json = ?, correct_answer_index = ?
		 WHERE id = ?`),
		question.BankID,
		question.QuestionText,
		optionsJSON,
		question.CorrectAnswerIndex,
		question.ID,
	)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected > 0 {
		s.notify(ctx, TableQuestions)
	}
	return nil
}

func (s *Store) DeleteQuestion(ctx context.Context, question QuestionEntity) error {
	return s.DeleteQuestionByID(ctx, question.ID)
}

func (s *Store) DeleteQuestionByID(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM questions WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected > 0 {
		s.notify(ctx, TableQuestions)
	}
	return nil
}

func (s *Store) queryQuestions(ctx context.Context, query string, args ...any) ([]QuestionEntity, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]QuestionEntity, 0)
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}
