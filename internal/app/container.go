package app

import (
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/nihongo/internal/catalog"
	"github.com/eslsoft/nihongo/internal/infrastructure/config"
	"github.com/eslsoft/nihongo/internal/repository"
	"github.com/eslsoft/nihongo/internal/scheduler"
	"github.com/eslsoft/nihongo/internal/usecase"
	"github.com/eslsoft/nihongo/internal/usecase/backup"
	"github.com/eslsoft/nihongo/internal/usecase/report"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Store    repository.KeyValueStore
	Catalog  *catalog.Catalog
	Study    usecase.StudyUsecase
	Profile  usecase.ProfileUsecase
	Decks    usecase.DeckUsecase
	Stats    usecase.StatsUsecase
	Quiz     *usecase.QuizGenerator
	Backup   *backup.Service
	Report   *report.Generator
	Reminder *scheduler.Reminder
}
