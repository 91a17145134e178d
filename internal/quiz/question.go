package quiz

import "strings"

const MaxOptions = 10

// Question is one multiple-choice item owned by a bank.
type Question struct {
	ID                 int64    `json:"id"`
	BankID             int64    `json:"bank_id"`
	QuestionText       string   `json:"question_text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
}

// IsValid reports whether the question can be persisted.
//
// Invariants:
//   - the question text is not blank
//   - there is at least one and at most MaxOptions options, none of them blank
//   - CorrectAnswerIndex points into Options
func (q Question) IsValid() bool {
	if strings.TrimSpace(q.QuestionText) == "" {
		return false
	}
	if len(q.Options) == 0 || len(q.Options) > MaxOptions {
		return false
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		return false
	}
	for _, option := range q.Options {
		if strings.TrimSpace(option) == "" {
			return false
		}
	}
	return true
}

// IsCorrect reports whether answerIndex matches the stored answer key exactly.
func (q Question) IsCorrect(answerIndex int) bool {
	return answerIndex == q.CorrectAnswerIndex
}
