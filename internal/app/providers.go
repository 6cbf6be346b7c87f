package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/nihongo/internal/infrastructure/config"
	"github.com/eslsoft/nihongo/internal/infrastructure/database"
	"github.com/eslsoft/nihongo/internal/infrastructure/kvstore"
	"github.com/eslsoft/nihongo/internal/repository"
	"github.com/eslsoft/nihongo/internal/scheduler"
	"github.com/eslsoft/nihongo/internal/usecase"
	"github.com/eslsoft/nihongo/internal/usecase/backup"
	"github.com/eslsoft/nihongo/internal/usecase/report"
)

// NewStore opens the key-value store selected by database.driver.
func NewStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (repository.KeyValueStore, func(), error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, nil, err
	}
	if driver == "memory" {
		log.Warn("using in-memory store, nothing will be persisted")
		return kvstore.NewMemoryStore(), func() {}, nil
	}

	db, cleanup, err := database.NewConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	dialectName, err := database.Dialect(driver)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	store, err := kvstore.NewSQLStore(ctx, db, dialectName)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	log.WithField("driver", driver).Debug("store ready")
	return store, cleanup, nil
}

// NewRand seeds the quiz randomness from study.seed, or from the clock when unset.
func NewRand(cfg *config.Config) *rand.Rand {
	seed := cfg.Study.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func provideBackup(store repository.KeyValueStore) *backup.Service {
	return backup.NewService(store, backup.WithIndent(true))
}

func provideReport(study usecase.StudyUsecase, chars usecase.CharacterLookup) *report.Generator {
	return report.NewGenerator(study, chars)
}

func provideReminder(cfg *config.Config, study usecase.StudyUsecase, stats usecase.StatsUsecase, notifier usecase.Notifier, log logrus.FieldLogger) *scheduler.Reminder {
	return scheduler.New(study, stats, notifier, cfg.Reminder, log)
}
