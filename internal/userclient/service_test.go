package userclient

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"quizbank/internal/httpapi"
	"quizbank/internal/quiz"
	"quizbank/internal/quiz/sqlstore"
	"quizbank/internal/repository"
)

func newServer(t *testing.T, questionCount int) (*httptest.Server, int64) {
	t.Helper()
	ctx := context.Background()

	store, err := sqlstore.Open(ctx, sqlstore.Options{
		Driver: sqlstore.DriverSQLite3,
		DSN:    filepath.Join(t.TempDir(), "client.db"),
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	banks := repository.NewBankRepository(store)
	questions := repository.NewQuestionRepository(store)
	bankID, err := banks.InsertBank(ctx, quiz.QuestionBank{Name: "Test Bank"})
	if err != nil {
		t.Fatalf("InsertBank failed: %v", err)
	}
	for i := 0; i < questionCount; i++ {
		q := quiz.Question{BankID: bankID, QuestionText: "Q", Options: []string{"right", "wrong"}, CorrectAnswerIndex: 0}
		if _, err := questions.InsertQuestion(ctx, q); err != nil {
			t.Fatalf("InsertQuestion failed: %v", err)
		}
	}

	server := httptest.NewServer(httpapi.NewRouter(httpapi.Config{
		Banks:     banks,
		Questions: questions,
		Logger:    log.New(io.Discard, "", 0),
	}))
	t.Cleanup(server.Close)
	return server, bankID
}

func TestRunPlaysRemoteQuiz(t *testing.T) {
	server, _ := newServer(t, 3)

	input := strings.Join([]string{"banks", "play 1", "A", "B", "s", "exit"}, "\n") + "\n"
	var out bytes.Buffer
	if err := Run(context.Background(), strings.NewReader(input), &out, Config{ServerURL: server.URL}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	output := out.String()
	for _, want := range []string{"1. Test Bank", "Correct!", "Wrong.", "Skipped.", "Final score: 1/3"} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q:\n%s", want, output)
		}
	}
}

func TestRunPlayEmptyBankAndErrors(t *testing.T) {
	server, _ := newServer(t, 0)

	input := "play 1\nplay 99\nplay x\nfrobnicate\n"
	var out bytes.Buffer
	if err := Run(context.Background(), strings.NewReader(input), &out, Config{ServerURL: server.URL}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	output := out.String()
	for _, want := range []string{"No questions available", "error: question bank not found", "invalid bank id", "unknown command"} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q:\n%s", want, output)
		}
	}
}

func TestAskAnswerGivesUpAfterInvalidInput(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("Z\n12\nQ\n"))
	if _, ok := askAnswer(reader, &out, 2, 3); ok {
		t.Fatalf("expected give-up after invalid answers")
	}
	if !strings.Contains(out.String(), "Skipping question after multiple invalid responses.") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}
