package httpapi

import (
	"log"
	"time"

	"quizbank/internal/quiz"
)

const defaultImportAmount = 10

type Config struct {
	Banks     quiz.BankRepository
	Questions quiz.QuestionRepository
	Importer  *quiz.Importer
	Logger    *log.Logger

	// AllowedOrigins applies to CORS and to websocket upgrades. "*" allows any.
	AllowedOrigins      []string
	DefaultImportAmount int
	SessionTTL          time.Duration
}

type API struct {
	banks        quiz.BankRepository
	questions    quiz.QuestionRepository
	importer     *quiz.Importer
	logger       *log.Logger
	origins      []string
	importAmount int
	sessions     *sessionStore
}

func NewAPI(cfg Config) *API {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	amount := cfg.DefaultImportAmount
	if amount <= 0 {
		amount = defaultImportAmount
	}
	return &API{
		banks:        cfg.Banks,
		questions:    cfg.Questions,
		importer:     cfg.Importer,
		logger:       logger,
		origins:      cfg.AllowedOrigins,
		importAmount: amount,
		sessions:     newSessionStore(cfg.SessionTTL),
	}
}
