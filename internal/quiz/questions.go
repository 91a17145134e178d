package quiz

import (
	"html"
	"math/rand"
	"strings"

	"quizbank/internal/opentdb"
)

// BuildQuestions converts OpenTriviaDB payloads into unsaved questions for
// bankID. Entities are unescaped and the correct answer is shuffled in among
// the incorrect ones.
func BuildQuestions(raw []opentdb.RawQuestion, bankID int64) []Question {
	questions := make([]Question, 0, len(raw))
	for _, item := range raw {
		question := buildQuestion(item)
		question.BankID = bankID
		questions = append(questions, question)
	}
	return questions
}

func buildQuestion(raw opentdb.RawQuestion) Question {
	type choice struct {
		text      string
		isCorrect bool
	}

	choices := make([]choice, 0, len(raw.IncorrectAnswers)+1)
	for _, incorrect := range raw.IncorrectAnswers {
		choices = append(choices, choice{
			text:      strings.TrimSpace(html.UnescapeString(incorrect)),
			isCorrect: false,
		})
	}

	choices = append(choices, choice{
		text:      strings.TrimSpace(html.UnescapeString(raw.CorrectAnswer)),
		isCorrect: true,
	})

	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	options := make([]string, len(choices))
	correctIndex := -1

	for idx, candidate := range choices {
		options[idx] = candidate.text
		if candidate.isCorrect {
			correctIndex = idx
		}
	}

	return Question{
		QuestionText:       strings.TrimSpace(html.UnescapeString(raw.Question)),
		Options:            options,
		CorrectAnswerIndex: correctIndex,
	}
}
