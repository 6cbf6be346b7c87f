//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"github.com/sirupsen/logrus"

	adapterrepo "github.com/eslsoft/nihongo/internal/adapter/repository"
	"github.com/eslsoft/nihongo/internal/catalog"
	"github.com/eslsoft/nihongo/internal/infrastructure/config"
	"github.com/eslsoft/nihongo/internal/infrastructure/logger"
	"github.com/eslsoft/nihongo/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
	logger.NewLogger,
	wire.Bind(new(logrus.FieldLogger), new(*logrus.Logger)),
)

var storeSet = wire.NewSet(
	NewStore,
	adapterrepo.NewStateRepository,
)

var catalogSet = wire.NewSet(
	catalog.Load,
	wire.Bind(new(usecase.AchievementCatalog), new(*catalog.Catalog)),
	wire.Bind(new(usecase.CharacterLookup), new(*catalog.Catalog)),
	wire.Bind(new(usecase.CharacterSource), new(*catalog.Catalog)),
)

var usecaseSet = wire.NewSet(
	usecase.NewLogNotifier,
	usecase.NewStudyUsecase,
	usecase.NewProfileUsecase,
	usecase.NewDeckUsecase,
	usecase.NewStatsUsecase,
	NewRand,
	usecase.NewQuizGenerator,
	provideBackup,
	provideReport,
	provideReminder,
)

// Initialize builds the application container using Wire.
func Initialize(ctx context.Context) (*Container, func(), error) {
	wire.Build(
		configSet,
		storeSet,
		catalogSet,
		usecaseSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil, nil
}
