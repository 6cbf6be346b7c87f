package repository

import (
	"context"

	"github.com/eslsoft/nihongo/internal/entity"
)

// ListProgressQuery holds parameters for listing character progress records.
type ListProgressQuery struct {
	Pagination
	FilterOrder
}

// StateRepository is the typed view of the persisted study state.
type StateRepository interface {
	// GetProfile returns nil when no profile has been stored yet.
	GetProfile(ctx context.Context) (*entity.UserProfile, error)
	SaveProfile(ctx context.Context, profile *entity.UserProfile) error

	GetProgress(ctx context.Context) (entity.ProgressTable, error)
	SaveProgress(ctx context.Context, progress entity.ProgressTable) error
	UpsertProgress(ctx context.Context, progress entity.CharacterProgress) error

	ListSessions(ctx context.Context) ([]entity.StudySession, error)
	// SaveSession appends the session or replaces the stored one with the same id.
	SaveSession(ctx context.Context, session *entity.StudySession) error

	ListDailyStats(ctx context.Context) ([]entity.DailyStats, error)
	// UpsertDailyStats replaces the record with the same date or appends it.
	UpsertDailyStats(ctx context.Context, stats entity.DailyStats) error

	ListDecks(ctx context.Context) ([]entity.CustomDeck, error)
	SaveDecks(ctx context.Context, decks []entity.CustomDeck) error

	ListUnlockedAchievements(ctx context.Context) ([]string, error)
	// UnlockAchievement adds id to the unlocked list; it reports false when already present.
	UnlockAchievement(ctx context.Context, id string) (bool, error)

	Reset(ctx context.Context, keys ...string) error
}
