package userclient

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultServer            = "http://127.0.0.1:8080"
	defaultHTTPTimeout       = 5 * time.Second
	defaultMaxInvalidAnswers = 3

	phaseInProgress = "in_progress"
	phaseEmpty      = "empty"
)

type Config struct {
	ServerURL         string
	MaxInvalidAnswers int
	HTTPTimeout       time.Duration
}

// Run is an interactive shell that plays quizzes against a remote
// quiz-service.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = defaultServer
	}
	maxInvalidAnswers := cfg.MaxInvalidAnswers
	if maxInvalidAnswers <= 0 {
		maxInvalidAnswers = defaultMaxInvalidAnswers
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := NewHTTPClient(serverURL, &http.Client{Timeout: timeout})
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "quiz-user-service\nserver=%s\n\n", serverURL)
	printHelp(out)

	for {
		fmt.Fprint(out, "\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])

		switch command {
		case "help":
			printHelp(out)
		case "exit":
			return nil
		case "banks":
			if err := runBanks(ctx, out, client); err != nil {
				fmt.Fprintf(out, "error: %v\n", describeClientError(err, serverURL))
			}
		case "import":
			if len(args) < 2 || len(args) > 3 {
				fmt.Fprintln(out, "usage: import <bank_id> [amount]")
				continue
			}
			bankID, parseErr := parseBankID(args[1])
			if parseErr != nil {
				fmt.Fprintf(out, "invalid bank id: %v\n", parseErr)
				continue
			}
			amount, parseErr := parsePositiveLimit(args, 2, 0)
			if parseErr != nil {
				fmt.Fprintf(out, "invalid amount: %v\n", parseErr)
				continue
			}
			if err := runImport(ctx, out, client, bankID, amount); err != nil {
				fmt.Fprintf(out, "error: %v\n", describeClientError(err, serverURL))
			}
		case "play":
			if len(args) != 2 {
				fmt.Fprintln(out, "usage: play <bank_id>")
				continue
			}
			bankID, parseErr := parseBankID(args[1])
			if parseErr != nil {
				fmt.Fprintf(out, "invalid bank id: %v\n", parseErr)
				continue
			}
			if err := runPlay(ctx, reader, out, client, bankID, maxInvalidAnswers); err != nil {
				fmt.Fprintf(out, "error: %v\n", describeClientError(err, serverURL))
			}
		default:
			fmt.Fprintln(out, "unknown command. type 'help' for usage.")
		}
	}
}

func runBanks(ctx context.Context, out io.Writer, client *HTTPClient) error {
	banks, err := client.ListBanks(ctx)
	if err != nil {
		return err
	}

	if len(banks) == 0 {
		fmt.Fprintln(out, "No question banks.")
		return nil
	}

	fmt.Fprintln(out, "Question banks:")
	for _, bank := range banks {
		fmt.Fprintf(out, "%d. %s\n", bank.ID, bank.Name)
	}
	return nil
}

func runImport(ctx context.Context, out io.Writer, client *HTTPClient, bankID int64, amount int) error {
	result, err := client.ImportQuestions(ctx, bankID, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %d of %d questions (%d skipped).\n", result.Imported, result.Fetched, result.Skipped)
	return nil
}

func runPlay(ctx context.Context, reader *bufio.Reader, out io.Writer, client *HTTPClient, bankID int64, maxInvalidAnswers int) error {
	view, err := client.StartQuiz(ctx, bankID)
	if err != nil {
		return err
	}
	sessionID := view.SessionID
	defer func() {
		endCtx, cancel := context.WithTimeout(context.Background(), defaultHTTPTimeout)
		defer cancel()
		_ = client.EndQuiz(endCtx, sessionID)
	}()

	if view.Phase == phaseEmpty {
		fmt.Fprintln(out, view.Error)
		return nil
	}

	for view.Phase == phaseInProgress && view.CurrentQuestion != nil {
		question := view.CurrentQuestion
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Q%d/%d: %s\n\n", view.CurrentIndex+1, view.Total, question.QuestionText)
		for i, option := range question.Options {
			fmt.Fprintf(out, "%c. %s\n", 'A'+i, option)
		}
		fmt.Fprintln(out)

		answerIndex, ok := askAnswer(reader, out, len(question.Options), maxInvalidAnswers)
		if !ok {
			if view, err = client.SendEvent(ctx, sessionID, "skip", nil); err != nil {
				return err
			}
			continue
		}

		if _, err = client.SendEvent(ctx, sessionID, "answer", &answerIndex); err != nil {
			return err
		}
		before := view.Score
		if view, err = client.SendEvent(ctx, sessionID, "next", nil); err != nil {
			return err
		}
		if view.Score > before {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintln(out, "Wrong.")
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Final score: %d/%d\n", view.Score, view.Total)
	return nil
}

// askAnswer prompts until a valid letter arrives. An empty line or "s" skips,
// as does running out of attempts.
func askAnswer(reader *bufio.Reader, out io.Writer, optionCount, maxInvalidAnswers int) (int, bool) {
	invalidCount := 0
	for {
		answer, skip, ok := promptAnswer(reader, out, optionCount)
		if skip {
			fmt.Fprintln(out, "Skipped.")
			return -1, false
		}
		if ok {
			return int(answer[0] - 'A'), true
		}

		invalidCount++
		if invalidCount >= maxInvalidAnswers {
			fmt.Fprintln(out, "Skipping question after multiple invalid responses.")
			return -1, false
		}
		fmt.Fprintf(out, "Invalid input. Attempts remaining: %d\n", maxInvalidAnswers-invalidCount)
	}
}
