// Package repository adapts sqlstore rows to quiz domain objects.
package repository

import (
	"quizbank/internal/quiz"
	"quizbank/internal/quiz/sqlstore"
)

func bankToDomain(entity sqlstore.BankEntity) quiz.QuestionBank {
	return quiz.QuestionBank{
		ID:   entity.ID,
		Name: entity.Name,
	}
}

func bankToEntity(bank quiz.QuestionBank) sqlstore.BankEntity {
	return sqlstore.BankEntity{
		ID:   bank.ID,
		Name: bank.Name,
	}
}

func banksToDomain(entities []sqlstore.BankEntity) []quiz.QuestionBank {
	banks := make([]quiz.QuestionBank, 0, len(entities))
	for _, entity := range entities {
		banks = append(banks, bankToDomain(entity))
	}
	return banks
}

func questionToDomain(entity sqlstore.QuestionEntity) quiz.Question {
	return quiz.Question{
		ID:                 entity.ID,
		BankID:             entity.BankID,
		QuestionText:       entity.QuestionText,
		Options:            append([]string(nil), entity.Options...),
		CorrectAnswerIndex: entity.CorrectAnswerIndex,
	}
}

func questionToEntity(question quiz.Question) sqlstore.QuestionEntity {
	return sqlstore.QuestionEntity{
		ID:                 question.ID,
		BankID:             question.BankID,
		QuestionText:       question.QuestionText,
		Options:            append([]string(nil), question.Options...),
		CorrectAnswerIndex: question.CorrectAnswerIndex,
	}
}

func questionsToDomain(entities []sqlstore.QuestionEntity) []quiz.Question {
	questions := make([]quiz.Question, 0, len(entities))
	for _, entity := range entities {
		questions = append(questions, questionToDomain(entity))
	}
	return questions
}
