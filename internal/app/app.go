// Package app wires configuration into the storage, notification and
// repository layers shared by the binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"

	"quizbank/internal/config"
	"quizbank/internal/httpapi"
	"quizbank/internal/livequery"
	"quizbank/internal/opentdb"
	"quizbank/internal/quiz"
	"quizbank/internal/quiz/sqlstore"
	"quizbank/internal/repository"
)

type App struct {
	Config    *config.Config
	Banks     *repository.BankRepository
	Questions *repository.QuestionRepository
	Importer  *quiz.Importer

	logger *log.Logger
	store  *sqlstore.Store
	redis  *redis.Client
}

func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}

	a := &App{Config: cfg, logger: logger}

	var notifier livequery.Notifier
	switch cfg.Notifier.Kind {
	case config.NotifierRedis:
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.Notifier.RedisAddr})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			_ = a.redis.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Notifier.RedisAddr, err)
		}
		notifier = livequery.NewRedisNotifier(a.redis, cfg.Notifier.RedisChannel, logger)
		logger.Printf("change notifications via redis %s channel %s", cfg.Notifier.RedisAddr, cfg.Notifier.RedisChannel)
	default:
		notifier = livequery.NewBroker()
	}

	store, err := sqlstore.Open(ctx, sqlstore.Options{
		Driver:           cfg.DB.Driver,
		DSN:              cfg.DB.DSN,
		DestructiveReset: cfg.DB.DestructiveReset,
		Notifier:         notifier,
		Logger:           logger,
	})
	if err != nil {
		if a.redis != nil {
			_ = a.redis.Close()
		}
		return nil, err
	}
	a.store = store
	logger.Printf("opened %s", store)

	a.Banks = repository.NewBankRepository(store)
	a.Questions = repository.NewQuestionRepository(store)

	client := opentdb.NewClientWithBaseURL(cfg.OpenTDB.BaseURL, &http.Client{Timeout: cfg.OpenTDB.Timeout})
	a.Importer = quiz.NewImporter(a.Banks, a.Questions, client.FetchQuestions)

	return a, nil
}

func (a *App) Handler() http.Handler {
	return httpapi.NewRouter(httpapi.Config{
		Banks:               a.Banks,
		Questions:           a.Questions,
		Importer:            a.Importer,
		Logger:              a.logger,
		AllowedOrigins:      a.Config.CORSOrigins,
		DefaultImportAmount: a.Config.OpenTDB.DefaultAmount,
		SessionTTL:          a.Config.SessionTTL,
	})
}

func (a *App) Close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}
