package sqlstore

import (
	"encoding/json"
	"fmt"
)

type BankEntity struct {
	ID   int64
	Name string
}

type QuestionEntity struct {
	ID                 int64
	BankID             int64
	QuestionText       string
	Options            []string
	CorrectAnswerIndex int
}

type rowScanner interface {
	Scan(dest ...any) error
}

func encodeOptions(options []string) (string, error) {
	if options == nil {
		options = []string{}
	}
	encoded, err := json.Marshal(options)
	if err != nil {
		return "", fmt.Errorf("sqlstore: encode options: %w", err)
	}
	return string(encoded), nil
}

func decodeOptions(raw string) ([]string, error) {
	var options []string
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		return nil, fmt.Errorf("sqlstore: decode options: %w", err)
	}
	return options, nil
}

func scanBank(row rowScanner) (BankEntity, error) {
	var bank BankEntity
	if err := row.Scan(&bank.ID, &bank.Name); err != nil {
		return BankEntity{}, err
	}
	return bank, nil
}

func scanQuestion(row rowScanner) (QuestionEntity, error) {
	var (
		question    QuestionEntity
		optionsJSON string
	)
	if err := row.Scan(&question.ID, &question.BankID, &question.QuestionText, &optionsJSON, &question.CorrectAnswerIndex); err != nil {
		return QuestionEntity{}, err
	}

	options, err := decodeOptions(optionsJSON)
	if err != nil {
		return QuestionEntity{}, err
	}
	question.Options = options
	return question, nil
}
