package repository

import "context"

// Storage keys of the persisted records. The names match the browser app's local storage
// so that its exports line up one to one.
const (
	KeyUserProfile       = "nihongo_user_profile"
	KeyCharacterProgress = "nihongo_character_progress"
	KeyStudySessions     = "nihongo_study_sessions"
	KeyDailyStats        = "nihongo_daily_stats"
	KeyCustomDecks       = "nihongo_custom_decks"
	KeyAchievements      = "nihongo_achievements"
)

// AllKeys lists every key owned by the application.
var AllKeys = []string{
	KeyUserProfile,
	KeyCharacterProgress,
	KeyStudySessions,
	KeyDailyStats,
	KeyCustomDecks,
	KeyAchievements,
}

// ProgressKeys are the keys cleared by a progress-only reset.
var ProgressKeys = []string{
	KeyCharacterProgress,
	KeyStudySessions,
	KeyDailyStats,
}

// KeyValueStore is the persistence collaborator: JSON documents addressed by key.
type KeyValueStore interface {
	// Get returns the stored document and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all entries or none of them.
	SetMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
