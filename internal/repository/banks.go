package repository

import (
	"context"
	"errors"

	"quizbank/internal/livequery"
	"quizbank/internal/quiz"
	"quizbank/internal/quiz/sqlstore"
)

type BankDAO interface {
	WatchBanks(ctx context.Context) *livequery.Subscription[[]sqlstore.BankEntity]
	BankByID(ctx context.Context, id int64) (sqlstore.BankEntity, error)
	InsertBank(ctx context.Context, bank sqlstore.BankEntity) (int64, error)
	UpdateBank(ctx context.Context, bank sqlstore.BankEntity) error
	DeleteBank(ctx context.Context, bank sqlstore.BankEntity) error
	DeleteBankByID(ctx context.Context, id int64) error
}

type BankRepository struct {
	dao BankDAO
}

var _ quiz.BankRepository = (*BankRepository)(nil)

func NewBankRepository(dao BankDAO) *BankRepository {
	return &BankRepository{dao: dao}
}

func (r *BankRepository) WatchBanks(ctx context.Context) *livequery.Subscription[[]quiz.QuestionBank] {
	return livequery.Map(r.dao.WatchBanks(ctx), banksToDomain)
}

func (r *BankRepository) GetBank(ctx context.Context, id int64) (quiz.QuestionBank, error) {
	entity, err := r.dao.BankByID(ctx, id)
	if err != nil {
		if errors.Is(err, sqlstore.ErrNotFound) {
			return quiz.QuestionBank{}, quiz.ErrBankNotFound
		}
		return quiz.QuestionBank{}, err
	}
	return bankToDomain(entity), nil
}

func (r *BankRepository) InsertBank(ctx context.Context, bank quiz.QuestionBank) (int64, error) {
	return r.dao.InsertBank(ctx, bankToEntity(bank))
}

func (r *BankRepository) UpdateBank(ctx context.Context, bank quiz.QuestionBank) error {
	return r.dao.UpdateBank(ctx, bankToEntity(bank))
}

func (r *BankRepository) DeleteBank(ctx context.Context, bank quiz.QuestionBank) error {
	return r.dao.DeleteBank(ctx, bankToEntity(bank))
}

func (r *BankRepository) DeleteBankByID(ctx context.Context, id int64) error {
	return r.dao.DeleteBankByID(ctx, id)
}
