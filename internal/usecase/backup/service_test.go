package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	repoadapter "github.com/eslsoft/nihongo/internal/adapter/repository"
	"github.com/eslsoft/nihongo/internal/entity"
	"github.com/eslsoft/nihongo/internal/infrastructure/kvstore"
	"github.com/eslsoft/nihongo/internal/repository"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestServiceExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()

	src := kvstore.NewMemoryStore()
	seedState(t, ctx, src)

	exporter := NewService(src, WithClock(fixedClock))
	var first bytes.Buffer
	if err := exporter.Export(ctx, &first); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	dst := newSQLiteStore(t)
	importer := NewService(dst, WithClock(fixedClock))
	if err := importer.Import(ctx, bytes.NewReader(first.Bytes())); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	var second bytes.Buffer
	if err := importer.Export(ctx, &second); err != nil {
		t.Fatalf("re-export failed: %v", err)
	}
	if first.String() != second.String() {
		t.Fatalf("round trip mismatch:\nfirst:  %s\nsecond: %s", first.String(), second.String())
	}

	repo := repoadapter.NewStateRepository(dst)
	profile, err := repo.GetProfile(ctx)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile == nil || profile.TotalXP != 240 || profile.Streak != 2 {
		t.Fatalf("unexpected profile after import: %#v", profile)
	}
	progress, err := repo.GetProgress(ctx)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if len(progress) != 2 || progress["hiragana_a"].MasteryLevel != entity.MasteryFamiliar {
		t.Fatalf("unexpected progress after import: %#v", progress)
	}
}

func TestServiceExportSections(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	seedState(t, ctx, store)

	reporter := &recordingProgress{}
	svc := NewService(store, WithClock(fixedClock))
	var buf bytes.Buffer
	err := svc.Export(ctx, &buf, WithSections([]string{"progress", "dailystats"}), WithProgressReporter(reporter))
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(buf.Bytes(), &snap); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if snap.Version != formatVersion {
		t.Fatalf("expected version %d, got %d", formatVersion, snap.Version)
	}
	if !snap.ExportedAt.Equal(fixedNow) {
		t.Fatalf("expected exportedAt %v, got %v", fixedNow, snap.ExportedAt)
	}
	if snap.Profile != nil {
		t.Fatalf("profile should not be exported: %#v", snap.Profile)
	}
	if len(snap.Progress) != 2 || len(snap.DailyStats) != 1 || len(snap.Sessions) != 0 {
		t.Fatalf("unexpected sections: %#v", snap)
	}
	if got := strings.Join(reporter.finished, ","); got != "progress,dailyStats" {
		t.Fatalf("unexpected reporter sections: %s", got)
	}
	if reporter.counts["progress"] != 2 {
		t.Fatalf("expected 2 progress records reported, got %d", reporter.counts["progress"])
	}
}

func TestServiceExportUnknownSection(t *testing.T) {
	svc := NewService(kvstore.NewMemoryStore())
	err := svc.Export(context.Background(), &bytes.Buffer{}, WithSections([]string{"vocabulary"}))
	if err == nil || !strings.Contains(err.Error(), "unknown section") {
		t.Fatalf("expected unknown section error, got %v", err)
	}
}

func TestServiceImportMalformedLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	seedState(t, ctx, store)
	before := dump(t, ctx, store)

	cases := map[string]string{
		"not json":          `{"profile": `,
		"wrong shape":       `{"profile": {"name": "x"}, "sessions": {"id": "s1"}}`,
		"bad mastery":       `{"progress": {"hiragana_a": {"characterId": "hiragana_a", "masteryLevel": 9, "easeFactor": 2.5}}}`,
		"bad ease":          `{"progress": {"hiragana_a": {"characterId": "hiragana_a", "masteryLevel": 1, "easeFactor": 0.4}}}`,
		"bad date":          `{"dailyStats": [{"date": "14/03/2025"}]}`,
		"session no id":     `{"sessions": [{"questionsAnswered": 3}]}`,
		"future version":    `{"version": 99, "achievements": []}`,
		"negative counters": `{"profile": {"name": "x", "totalXP": -5}}`,
	}
	svc := NewService(store)
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			err := svc.Import(ctx, strings.NewReader(doc))
			if !errors.Is(err, entity.ErrInvalidSnapshot) {
				t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
			}
			if after := dump(t, ctx, store); after != before {
				t.Fatalf("state changed after rejected import:\nbefore: %s\nafter:  %s", before, after)
			}
		})
	}
}

func TestServiceImportLeavesAbsentSectionsUntouched(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	seedState(t, ctx, store)
	repo := repoadapter.NewStateRepository(store)

	doc := `{"achievements": ["ach_001", "ach_002"], "profile": null, "sessions": []}`
	if err := NewService(store).Import(ctx, strings.NewReader(doc)); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	unlocked, err := repo.ListUnlockedAchievements(ctx)
	if err != nil {
		t.Fatalf("list achievements: %v", err)
	}
	if strings.Join(unlocked, ",") != "ach_001,ach_002" {
		t.Fatalf("achievements not replaced: %v", unlocked)
	}
	sessions, err := repo.ListSessions(ctx)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("present empty sessions should replace stored ones, got %d", len(sessions))
	}
	profile, err := repo.GetProfile(ctx)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile == nil || profile.Name != "Hana" {
		t.Fatalf("null profile should be left untouched, got %#v", profile)
	}
	progress, err := repo.GetProgress(ctx)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if len(progress) != 2 {
		t.Fatalf("absent progress should be left untouched, got %d records", len(progress))
	}
}

func TestServiceImportBrowserExport(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()

	doc := `{
		"profile": {"id": "u1", "name": "Ken", "level": 2, "xp": 20, "xpToNextLevel": 182, "totalXP": 120,
			"streak": 1, "longestStreak": 4, "achievements": ["ach_001"],
			"preferences": {"theme": "dark", "dailyGoal": 50}},
		"progress": {"katakana_ka": {"masteryLevel": 1, "easeFactor": 2.36, "timesReviewed": 2}},
		"dailyStats": [{"date": "2025-03-13", "studyTime": 12, "xpEarned": 40, "questionsAnswered": 8, "accuracy": 75}],
		"exportedAt": "2025-03-14T08:00:00.000Z"
	}`
	if err := NewService(store).Import(ctx, strings.NewReader(doc), WithImportSections([]string{"profile", "progress", "dailyStats"})); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	repo := repoadapter.NewStateRepository(store)
	progress, err := repo.GetProgress(ctx)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if progress["katakana_ka"].CharacterID != "katakana_ka" {
		t.Fatalf("character id should be filled from the map key: %#v", progress["katakana_ka"])
	}
	daily, err := repo.ListDailyStats(ctx)
	if err != nil {
		t.Fatalf("list daily stats: %v", err)
	}
	if len(daily) != 1 || daily[0].Correct() != 6 {
		t.Fatalf("unexpected daily stats: %#v", daily)
	}
}

func TestServiceImportSelectedSectionsOnly(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()

	doc := `{"customDecks": [{"id": "d1", "name": "Hard ones", "characterIds": ["hiragana_nu"]}], "achievements": ["ach_003"]}`
	if err := NewService(store).Import(ctx, strings.NewReader(doc), WithImportSections([]string{"customDecks"})); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, repository.KeyAchievements); ok {
		t.Fatalf("achievements were not selected and must not be written")
	}
	if _, ok, _ := store.Get(ctx, repository.KeyCustomDecks); !ok {
		t.Fatalf("custom decks were not written")
	}
}

type recordingProgress struct {
	finished []string
	counts   map[string]int
}

func (r *recordingProgress) StartSection(string, int) {}

func (r *recordingProgress) Increment(section string, delta int) {
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[section] += delta
}

func (r *recordingProgress) FinishSection(section string) {
	r.finished = append(r.finished, section)
}

func newSQLiteStore(t *testing.T) repository.KeyValueStore {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", "file:"+filepath.Join(t.TempDir(), "backup.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	store, err := kvstore.NewSQLStore(context.Background(), db, dialect.SQLite)
	if err != nil {
		t.Fatalf("new sql store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedState(t *testing.T, ctx context.Context, store repository.KeyValueStore) {
	t.Helper()
	repo := repoadapter.NewStateRepository(store)

	profile := entity.NewUserProfile("user-1", "Hana", fixedNow.Add(-72*time.Hour))
	profile.TotalXP = 240
	profile.Level = 2
	profile.XP = 140
	profile.XPToNextLevel = 42
	profile.Streak = 2
	profile.LongestStreak = 5
	if err := repo.SaveProfile(ctx, &profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	reviewed := fixedNow.Add(-2 * time.Hour)
	next := fixedNow.Add(24 * time.Hour)
	a := entity.NewCharacterProgress("hiragana_a", reviewed)
	a.MasteryLevel = entity.MasteryFamiliar
	a.TimesReviewed = 4
	a.CorrectCount = 4
	a.Accuracy = 100
	a.LastReviewedAt = &reviewed
	a.NextReviewAt = &next
	a.SuccessStreak = 4
	if err := repo.UpsertProgress(ctx, a); err != nil {
		t.Fatalf("seed progress: %v", err)
	}
	ka := entity.NewCharacterProgress("katakana_ka", reviewed)
	ka.TimesReviewed = 1
	ka.IncorrectCount = 1
	ka.EaseFactor = 2.3
	ka.FailureHistory = []time.Time{reviewed}
	if err := repo.UpsertProgress(ctx, ka); err != nil {
		t.Fatalf("seed progress: %v", err)
	}

	end := reviewed.Add(15 * time.Minute)
	session := entity.StudySession{
		ID:                "session-1",
		StartTime:         reviewed,
		EndTime:           &end,
		Duration:          15,
		QuestionsAnswered: 5,
		CorrectAnswers:    4,
		XPEarned:          48,
		Mode:              entity.LearningModeRecognition,
		WritingSystem:     entity.WritingSystemHiragana,
	}
	if err := repo.SaveSession(ctx, &session); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	if err := repo.UpsertDailyStats(ctx, entity.DailyStats{Date: entity.DateKey(reviewed)}.Merge(&session)); err != nil {
		t.Fatalf("seed daily stats: %v", err)
	}
	if _, err := repo.UnlockAchievement(ctx, "ach_001"); err != nil {
		t.Fatalf("seed achievement: %v", err)
	}
}

// dump renders every stored key for before/after comparisons.
func dump(t *testing.T, ctx context.Context, store repository.KeyValueStore) string {
	t.Helper()
	var b strings.Builder
	for _, key := range repository.AllKeys {
		value, ok, err := store.Get(ctx, key)
		if err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
		b.WriteString(key)
		b.WriteString("=")
		if ok {
			b.Write(value)
		}
		b.WriteString("\n")
	}
	return b.String()
}
