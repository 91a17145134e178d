package repository

import (
	"context"
	"errors"

	"quizbank/internal/livequery"
	"quizbank/internal/quiz"
	"quizbank/internal/quiz/sqlstore"
)

type QuestionDAO interface {
	WatchQuestionsForBank(ctx context.Context, bankID int64) *livequery.Subscription[[]sqlstore.QuestionEntity]
	QuestionsForBank(ctx context.Context, bankID int64) ([]sqlstore.QuestionEntity, error)
	RandomQuestionsForBank(ctx context.Context, bankID int64) ([]sqlstore.QuestionEntity, error)
	QuestionByID(ctx context.Context, id int64) (sqlstore.QuestionEntity, error)
	InsertQuestion(ctx context.Context, question sqlstore.QuestionEntity) (int64, error)
	UpdateQuestion(ctx context.Context, question sqlstore.QuestionEntity) error
	DeleteQuestion(ctx context.Context, question sqlstore.QuestionEntity) error
	DeleteQuestionByID(ctx context.Context, id int64) error
}

type QuestionRepository struct {
	dao QuestionDAO
}

var _ quiz.QuestionRepository = (*QuestionRepository)(nil)

func NewQuestionRepository(dao QuestionDAO) *QuestionRepository {
	return &QuestionRepository{dao: dao}
}

func (r *QuestionRepository) WatchQuestionsForBank(ctx context.Context, bankID int64) *livequery.Subscription[[]quiz.Question] {
	return livequery.Map(r.dao.WatchQuestionsForBank(ctx, bankID), questionsToDomain)
}

func (r *QuestionRepository) QuestionsForBank(ctx context.Context, bankID int64) ([]quiz.Question, error) {
	entities, err := r.dao.QuestionsForBank(ctx, bankID)
	if err != nil {
		return nil, err
	}
	return questionsToDomain(entities), nil
}

func (r *QuestionRepository) RandomQuestionsForBank(ctx context.Context, bankID int64) ([]quiz.Question, error) {
	entities, err := r.dao.RandomQuestionsForBank(ctx, bankID)
	if err != nil {
		return nil, err
	}
	return questionsToDomain(entities), nil
}

func (r *QuestionRepository) GetQuestion(ctx context.Context, id int64) (quiz.Question, error) {
	entity, err := r.dao.QuestionByID(ctx, id)
	if err != nil {
		if errors.Is(err, sqlstore.ErrNotFound) {
			return quiz.Question{}, quiz.ErrQuestionNotFound
		}
		return quiz.Question{}, err
	}
	return questionToDomain(entity), nil
}

func (r *QuestionRepository) InsertQuestion(ctx context.Context, question quiz.Question) (int64, error) {
	return r.dao.InsertQuestion(ctx, questionToEntity(question))
}

func (r *QuestionRepository) UpdateQuestion(ctx context.Context, question quiz.Question) error {
	return r.dao.UpdateQuestion(ctx, questionToEntity(question))
}

func (r *QuestionRepository) DeleteQuestion(ctx context.Context, question quiz.Question) error {
	return r.dao.DeleteQuestion(ctx, questionToEntity(question))
}

func (r *QuestionRepository) DeleteQuestionByID(ctx context.Context, id int64) error {
	return r.dao.DeleteQuestionByID(ctx, id)
}
