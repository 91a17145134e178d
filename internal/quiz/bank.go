package quiz

import (
	"strings"
	"unicode/utf8"
)

const MaxBankNameLength = 50

// QuestionBank is a named collection of questions. ID 0 marks a bank that has
// not been saved yet.
type QuestionBank struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewEmptyBank() QuestionBank {
	return QuestionBank{}
}

// IsValid reports whether the bank can be persisted: the name must not be blank
// and must fit in MaxBankNameLength characters.
func (b QuestionBank) IsValid() bool {
	return strings.TrimSpace(b.Name) != "" && utf8.RuneCountInString(b.Name) <= MaxBankNameLength
}
