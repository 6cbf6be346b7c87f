package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/eslsoft/nihongo/internal/entity"
	"github.com/eslsoft/nihongo/internal/repository"
)

// StateRepository stores every record family as one JSON document in a KeyValueStore.
type StateRepository struct {
	store repository.KeyValueStore
	// serialises read-modify-write cycles on list documents
	mu sync.Mutex
}

// NewStateRepository constructs a document-backed state repository.
func NewStateRepository(store repository.KeyValueStore) repository.StateRepository {
	return &StateRepository{store: store}
}

func (r *StateRepository) GetProfile(ctx context.Context) (*entity.UserProfile, error) {
	var profile entity.UserProfile
	found, err := r.load(ctx, repository.KeyUserProfile, &profile)
	if err != nil || !found {
		return nil, err
	}
	profile.Normalize()
	return &profile, nil
}

func (r *StateRepository) SaveProfile(ctx context.Context, profile *entity.UserProfile) error {
	if profile == nil {
		return fmt.Errorf("save profile: %w", entity.ErrProfileNotLoaded)
	}
	return r.save(ctx, repository.KeyUserProfile, profile)
}

func (r *StateRepository) GetProgress(ctx context.Context) (entity.ProgressTable, error) {
	table := entity.ProgressTable{}
	if _, err := r.load(ctx, repository.KeyCharacterProgress, &table); err != nil {
		return nil, err
	}
	if table == nil {
		table = entity.ProgressTable{}
	}
	return table, nil
}

func (r *StateRepository) SaveProgress(ctx context.Context, progress entity.ProgressTable) error {
	if progress == nil {
		progress = entity.ProgressTable{}
	}
	return r.save(ctx, repository.KeyCharacterProgress, progress)
}

func (r *StateRepository) UpsertProgress(ctx context.Context, progress entity.CharacterProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, err := r.GetProgress(ctx)
	if err != nil {
		return err
	}
	table[progress.CharacterID] = progress.Clone()
	return r.save(ctx, repository.KeyCharacterProgress, table)
}

func (r *StateRepository) ListSessions(ctx context.Context) ([]entity.StudySession, error) {
	var sessions []entity.StudySession
	if _, err := r.load(ctx, repository.KeyStudySessions, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *StateRepository) SaveSession(ctx context.Context, session *entity.StudySession) error {
	if session == nil {
		return fmt.Errorf("save session: %w", entity.ErrNoActiveSession)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.ListSessions(ctx)
	if err != nil {
		return err
	}
	_, idx, found := lo.FindIndexOf(sessions, func(s entity.StudySession) bool { return s.ID == session.ID })
	if found {
		sessions[idx] = session.Clone()
	} else {
		sessions = append(sessions, session.Clone())
	}
	return r.save(ctx, repository.KeyStudySessions, sessions)
}

func (r *StateRepository) ListDailyStats(ctx context.Context) ([]entity.DailyStats, error) {
	var stats []entity.DailyStats
	if _, err := r.load(ctx, repository.KeyDailyStats, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *StateRepository) UpsertDailyStats(ctx context.Context, stats entity.DailyStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.ListDailyStats(ctx)
	if err != nil {
		return err
	}
	_, idx, found := lo.FindIndexOf(all, func(d entity.DailyStats) bool { return d.Date == stats.Date })
	if found {
		all[idx] = stats
	} else {
		all = append(all, stats)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date < all[j].Date })
	return r.save(ctx, repository.KeyDailyStats, all)
}

func (r *StateRepository) ListDecks(ctx context.Context) ([]entity.CustomDeck, error) {
	var decks []entity.CustomDeck
	if _, err := r.load(ctx, repository.KeyCustomDecks, &decks); err != nil {
		return nil, err
	}
	return decks, nil
}

func (r *StateRepository) SaveDecks(ctx context.Context, decks []entity.CustomDeck) error {
	if decks == nil {
		decks = []entity.CustomDeck{}
	}
	return r.save(ctx, repository.KeyCustomDecks, decks)
}

func (r *StateRepository) ListUnlockedAchievements(ctx context.Context) ([]string, error) {
	var ids []string
	if _, err := r.load(ctx, repository.KeyAchievements, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *StateRepository) UnlockAchievement(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids, err := r.ListUnlockedAchievements(ctx)
	if err != nil {
		return false, err
	}
	if lo.Contains(ids, id) {
		return false, nil
	}
	if err := r.save(ctx, repository.KeyAchievements, append(ids, id)); err != nil {
		return false, err
	}
	return true, nil
}

func (r *StateRepository) Reset(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		keys = repository.AllKeys
	}
	return r.store.Delete(ctx, keys...)
}

func (r *StateRepository) load(ctx context.Context, key string, out any) (bool, error) {
	raw, found, err := r.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !found || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w: %v", key, entity.ErrCorruptState, err)
	}
	return true, nil
}

func (r *StateRepository) save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}
