package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"quizbank/internal/quiz"
	"quizbank/internal/screen"
)

const (
	maxAttempts  = 3
	loadTimeout  = 10 * time.Second
	skipKeyword  = "S"
	optionLetter = 'A'
)

// ListBanks prints every bank with its id.
func ListBanks(ctx context.Context, banks quiz.BankRepository, out io.Writer) error {
	controller := screen.NewBankListController(banks)
	controller.Start(ctx)
	defer controller.Close()

	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	state, err := controller.State().Await(ctx, func(s screen.BankListState) bool { return !s.IsLoading })
	if err != nil {
		return err
	}
	if state.Error != "" {
		return errors.New(state.Error)
	}

	if len(state.Banks) == 0 {
		fmt.Fprintln(out, "No question banks yet.")
		return nil
	}
	for _, bank := range state.Banks {
		fmt.Fprintf(out, "%d\t%s\n", bank.ID, bank.Name)
	}
	return nil
}

// Import pulls amount questions into bankID and reports the outcome.
func Import(ctx context.Context, importer *quiz.Importer, bankID int64, amount int, out io.Writer) error {
	result, err := importer.Import(ctx, bankID, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %d of %d questions into bank %d (%d skipped)\n", result.Imported, result.Fetched, result.BankID, result.Skipped)
	return nil
}

// Play runs one quiz over bankID, reading answers from in.
func Play(ctx context.Context, questions quiz.QuestionRepository, bankID int64, in io.Reader, out io.Writer) error {
	controller := screen.NewQuizController(questions, bankID)
	state := controller.Dispatch(ctx, screen.StartQuiz{})
	switch state.Phase {
	case screen.PhaseEmpty:
		fmt.Fprintln(out, state.Error)
		return nil
	case screen.PhaseLoading:
		return errors.New(state.Error)
	}

	reader := bufio.NewReader(in)
	for state.Phase == screen.PhaseInProgress {
		question, _ := state.CurrentQuestion()
		printQuestion(out, state.CurrentIndex+1, state.Total(), question)

		chosenIndex, ok := getAnswer(reader, out, len(question.Options))
		fmt.Fprintln(out)
		correctText := optionTextForIndex(question.Options, question.CorrectAnswerIndex)
		if !ok {
			fmt.Fprintf(out, "Skipping. Correct answer was %s\n\n", correctText)
			state = controller.Dispatch(ctx, screen.SkipQuestion{})
			continue
		}

		controller.Dispatch(ctx, screen.AnswerSelected{Index: chosenIndex})
		if question.IsCorrect(chosenIndex) {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintf(out, "Wrong. Correct answer was %s\n", correctText)
		}
		fmt.Fprintln(out)
		state = controller.Dispatch(ctx, screen.NextQuestion{})
	}

	fmt.Fprintf(out, "\nFinal score: %d/%d\n", state.Score, state.Total())
	return nil
}

func printQuestion(out io.Writer, number, total int, question quiz.Question) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Q%d/%d: %s\n\n", number, total, question.QuestionText)
	for i, option := range question.Options {
		fmt.Fprintf(out, "%c. %s\n", optionLetter+i, option)
	}
	fmt.Fprintln(out)
}

// getAnswer returns the chosen option index, or false when the user skips
// with an empty line or "s", runs out of attempts, or input ends.
func getAnswer(reader *bufio.Reader, out io.Writer, optionCount int) (int, bool) {
	if optionCount < 1 {
		return -1, false
	}

	maxLetter := byte(optionLetter + optionCount - 1)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		userAnswer, err := reader.ReadString('\n')
		if err != nil && userAnswer == "" {
			return -1, false
		}

		userAnswer = strings.ToUpper(strings.TrimSpace(userAnswer))
		if userAnswer == "" || userAnswer == skipKeyword {
			return -1, false
		}
		if len(userAnswer) == 1 {
			letter := userAnswer[0]
			if letter >= optionLetter && letter <= maxLetter {
				return int(letter - optionLetter), true
			}
		}

		if err != nil {
			return -1, false
		}
		if attempt < maxAttempts {
			fmt.Fprintf(out, "\nInvalid input. Please enter a letter A-%c, or S to skip.\n", maxLetter)
		}
	}

	return -1, false
}

func optionTextForIndex(options []string, index int) string {
	if index < 0 || index >= len(options) {
		return ""
	}
	return options[index]
}
