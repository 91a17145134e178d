package quiz

import (
	"context"
	"errors"

	"quizbank/internal/livequery"
)

var (
	ErrBankNotFound     = errors.New("question bank not found")
	ErrQuestionNotFound = errors.New("question not found")
)

type BankRepository interface {
	WatchBanks(ctx context.Context) *livequery.Subscription[[]QuestionBank]
	GetBank(ctx context.Context, id int64) (QuestionBank, error)
	InsertBank(ctx context.Context, bank QuestionBank) (int64, error)
	UpdateBank(ctx context.Context, bank QuestionBank) error
	DeleteBank(ctx context.Context, bank QuestionBank) error
	DeleteBankByID(ctx context.Context, id int64) error
}

type QuestionRepository interface {
	WatchQuestionsForBank(ctx context.Context, bankID int64) *livequery.Subscription[[]Question]
	QuestionsForBank(ctx context.Context, bankID int64) ([]Question, error)
	RandomQuestionsForBank(ctx context.Context, bankID int64) ([]Question, error)
	GetQuestion(ctx context.Context, id int64) (Question, error)
	InsertQuestion(ctx context.Context, question Question) (int64, error)
	UpdateQuestion(ctx context.Context, question Question) error
	DeleteQuestion(ctx context.Context, question Question) error
	DeleteQuestionByID(ctx context.Context, id int64) error
}
