package app

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"quizbank/internal/config"
	"quizbank/internal/quiz"
)

func TestOpenWiresSQLiteAndHandler(t *testing.T) {
	for _, driver := range []string{"sqlite3", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			cfg := config.Default()
			cfg.DB.Driver = driver
			cfg.DB.DSN = filepath.Join(t.TempDir(), "app.db")

			a, err := Open(context.Background(), cfg, log.New(io.Discard, "", 0))
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer a.Close()

			if _, err := a.Banks.InsertBank(context.Background(), quiz.QuestionBank{Name: "Bank"}); err != nil {
				t.Fatalf("InsertBank failed: %v", err)
			}

			rec := httptest.NewRecorder()
			a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/banks", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("GET /banks status = %d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestOpenFailsOnUnreachableRedis(t *testing.T) {
	cfg := config.Default()
	cfg.DB.DSN = filepath.Join(t.TempDir(), "app.db")
	cfg.Notifier.Kind = config.NotifierRedis
	cfg.Notifier.RedisAddr = "127.0.0.1:1"

	if a, err := Open(context.Background(), cfg, log.New(io.Discard, "", 0)); err == nil {
		a.Close()
		t.Fatalf("expected redis connection error")
	}
}
