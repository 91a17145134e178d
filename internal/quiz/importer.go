package quiz

import (
	"context"
	"errors"
	"fmt"

	"quizbank/internal/opentdb"
)

// ErrFetchQuestions wraps failures of the external question source.
var ErrFetchQuestions = errors.New("fetch questions")

type QuestionsFetcher func(ctx context.Context, amount int) ([]opentdb.RawQuestion, error)

type ImportResult struct {
	BankID   int64 `json:"bank_id"`
	Fetched  int   `json:"fetched"`
	Imported int   `json:"imported"`
	Skipped  int   `json:"skipped"`
}

// Importer seeds a bank with questions pulled from an external source.
type Importer struct {
	banks     BankRepository
	questions QuestionRepository
	fetcher   QuestionsFetcher
}

func NewImporter(banks BankRepository, questions QuestionRepository, fetcher QuestionsFetcher) *Importer {
	return &Importer{
		banks:     banks,
		questions: questions,
		fetcher:   fetcher,
	}
}

// Import fetches amount questions and inserts the valid ones into bankID.
// Questions failing IsValid are counted as skipped, not reported as errors.
func (i *Importer) Import(ctx context.Context, bankID int64, amount int) (ImportResult, error) {
	if i.fetcher == nil {
		return ImportResult{}, errors.New("question fetcher is not configured")
	}

	if _, err := i.banks.GetBank(ctx, bankID); err != nil {
		return ImportResult{}, err
	}

	raw, err := i.fetcher(ctx, amount)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: %w", ErrFetchQuestions, err)
	}

	result := ImportResult{BankID: bankID, Fetched: len(raw)}
	for _, question := range BuildQuestions(raw, bankID) {
		if !question.IsValid() {
			result.Skipped++
			continue
		}
		if _, err := i.questions.InsertQuestion(ctx, question); err != nil {
			return result, err
		}
		result.Imported++
	}
	return result, nil
}
