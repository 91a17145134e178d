package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"quizbank/internal/quiz"
	"quizbank/internal/quiz/sqlstore"
)

func newTestRepositories(t *testing.T) (*BankRepository, *QuestionRepository) {
	t.Helper()

	store, err := sqlstore.Open(context.Background(), sqlstore.Options{
		Driver: sqlstore.DriverSQLite3,
		DSN:    filepath.Join(t.TempDir(), "repo.db"),
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return NewBankRepository(store), NewQuestionRepository(store)
}

func TestBankRepositoryMapsRowsAndNotFound(t *testing.T) {
	banks, _ := newTestRepositories(t)
	ctx := context.Background()

	id, err := banks.InsertBank(ctx, quiz.QuestionBank{Name: "Test Bank"})
	if err != nil {
		t.Fatalf("InsertBank failed: %v", err)
	}

	bank, err := banks.GetBank(ctx, id)
	if err != nil {
		t.Fatalf("GetBank failed: %v", err)
	}
	if bank != (quiz.QuestionBank{ID: id, Name: "Test Bank"}) {
		t.Fatalf("unexpected bank: %+v", bank)
	}

	if _, err := banks.GetBank(ctx, id+100); !errors.Is(err, quiz.ErrBankNotFound) {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
}

func TestQuestionRepositoryRoundTripAndCascade(t *testing.T) {
	banks, questions := newTestRepositories(t)
	ctx := context.Background()

	bankID, _ := banks.InsertBank(ctx, quiz.QuestionBank{Name: "Test Bank"})
	q1 := quiz.Question{BankID: bankID, QuestionText: "Q1", Options: []string{"A", "B"}, CorrectAnswerIndex: 0}
	q2 := quiz.Question{BankID: bankID, QuestionText: "Q2", Options: []string{"X", "Y"}, CorrectAnswerIndex: 1}
	for _, question := range []quiz.Question{q1, q2} {
		if _, err := questions.InsertQuestion(ctx, question); err != nil {
			t.Fatalf("InsertQuestion failed: %v", err)
		}
	}

	listed, err := questions.QuestionsForBank(ctx, bankID)
	if err != nil {
		t.Fatalf("QuestionsForBank failed: %v", err)
	}
	if len(listed) != 2 || listed[1].Options[1] != "Y" || listed[1].CorrectAnswerIndex != 1 {
		t.Fatalf("unexpected questions: %+v", listed)
	}

	got, err := questions.GetQuestion(ctx, listed[0].ID)
	if err != nil || got.QuestionText != "Q1" {
		t.Fatalf("GetQuestion = (%+v, %v)", got, err)
	}

	random, err := questions.RandomQuestionsForBank(ctx, bankID)
	if err != nil || len(random) != 2 {
		t.Fatalf("RandomQuestionsForBank = (%d, %v), want 2", len(random), err)
	}

	if err := banks.DeleteBank(ctx, quiz.QuestionBank{ID: bankID}); err != nil {
		t.Fatalf("DeleteBank failed: %v", err)
	}
	if _, err := questions.GetQuestion(ctx, listed[0].ID); !errors.Is(err, quiz.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound after cascade, got %v", err)
	}
}

func TestQuestionRepositoryWatchMapsBatches(t *testing.T) {
	banks, questions := newTestRepositories(t)
	ctx := context.Background()

	bankID, _ := banks.InsertBank(ctx, quiz.QuestionBank{Name: "Live"})
	sub := questions.WatchQuestionsForBank(ctx, bankID)
	defer sub.Close()

	next := func() []quiz.Question {
		t.Helper()
		select {
		case res := <-sub.C:
			if res.Err != nil {
				t.Fatalf("watch error: %v", res.Err)
			}
			return res.Value
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for questions")
		}
		return nil
	}

	if got := next(); len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
	if _, err := questions.InsertQuestion(ctx, quiz.Question{BankID: bankID, QuestionText: "Q", Options: []string{"A"}}); err != nil {
		t.Fatalf("InsertQuestion failed: %v", err)
	}
	got := next()
	if len(got) != 1 || got[0].BankID != bankID || got[0].QuestionText != "Q" {
		t.Fatalf("unexpected mapped batch: %+v", got)
	}
}
