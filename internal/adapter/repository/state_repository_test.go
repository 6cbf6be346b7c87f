package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/nihongo/internal/entity"
	"github.com/eslsoft/nihongo/internal/infrastructure/kvstore"
	"github.com/eslsoft/nihongo/internal/repository"
)

func TestStateRepositoryProfile(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository(kvstore.NewMemoryStore())

	got, err := repo.GetProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	profile := entity.NewUserProfile("u1", "Aki", now)
	profile.TotalXP = 120
	require.NoError(t, repo.SaveProfile(ctx, &profile))

	got, err = repo.GetProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Aki", got.Name)
	assert.Equal(t, 120, got.TotalXP)
	assert.True(t, got.CreatedAt.Equal(now))
}

func TestStateRepositoryProgressUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository(kvstore.NewMemoryStore())
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	table, err := repo.GetProgress(ctx)
	require.NoError(t, err)
	assert.Empty(t, table)

	require.NoError(t, repo.UpsertProgress(ctx, entity.NewCharacterProgress("hiragana_a", now)))
	p := entity.NewCharacterProgress("hiragana_i", now)
	p.MasteryLevel = 3
	require.NoError(t, repo.UpsertProgress(ctx, p))
	p.MasteryLevel = 4
	require.NoError(t, repo.UpsertProgress(ctx, p))

	table, err = repo.GetProgress(ctx)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, 4, table["hiragana_i"].MasteryLevel)
	assert.Equal(t, entity.InitialEaseFactor, table["hiragana_a"].EaseFactor)
}

func TestStateRepositorySessionsReplaceByID(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository(kvstore.NewMemoryStore())
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	session := &entity.StudySession{ID: "s1", StartTime: start, Mode: entity.LearningModeRecognition, WritingSystem: entity.WritingSystemHiragana}
	require.NoError(t, repo.SaveSession(ctx, session))
	session.QuestionsAnswered = 3
	require.NoError(t, repo.SaveSession(ctx, session))
	require.NoError(t, repo.SaveSession(ctx, &entity.StudySession{ID: "s2", StartTime: start}))

	sessions, err := repo.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, 3, sessions[0].QuestionsAnswered)
	assert.Equal(t, "s2", sessions[1].ID)
}

func TestStateRepositoryDailyStatsOrderedByDate(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository(kvstore.NewMemoryStore())

	require.NoError(t, repo.UpsertDailyStats(ctx, entity.DailyStats{Date: "2024-03-02", XPEarned: 10}))
	require.NoError(t, repo.UpsertDailyStats(ctx, entity.DailyStats{Date: "2024-03-01", XPEarned: 5}))
	require.NoError(t, repo.UpsertDailyStats(ctx, entity.DailyStats{Date: "2024-03-02", XPEarned: 30}))

	stats, err := repo.ListDailyStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "2024-03-01", stats[0].Date)
	assert.Equal(t, 30, stats[1].XPEarned)
}

func TestStateRepositoryUnlockAchievementOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository(kvstore.NewMemoryStore())

	added, err := repo.UnlockAchievement(ctx, "ach_001")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = repo.UnlockAchievement(ctx, "ach_001")
	require.NoError(t, err)
	assert.False(t, added)

	ids, err := repo.ListUnlockedAchievements(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ach_001"}, ids)
}

func TestStateRepositoryCorruptDocument(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, repository.KeyCharacterProgress, []byte(`{not json`)))
	repo := NewStateRepository(store)

	_, err := repo.GetProgress(ctx)
	assert.ErrorIs(t, err, entity.ErrCorruptState)
}

func TestStateRepositoryResetProgressOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository(kvstore.NewMemoryStore())
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	profile := entity.NewUserProfile("u1", "Aki", now)
	require.NoError(t, repo.SaveProfile(ctx, &profile))
	require.NoError(t, repo.UpsertProgress(ctx, entity.NewCharacterProgress("hiragana_a", now)))
	require.NoError(t, repo.Reset(ctx, repository.ProgressKeys...))

	stored, err := repo.GetProfile(ctx)
	require.NoError(t, err)
	assert.NotNil(t, stored)
	table, err := repo.GetProgress(ctx)
	require.NoError(t, err)
	assert.Empty(t, table)

	require.NoError(t, repo.Reset(ctx))
	stored, err = repo.GetProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
