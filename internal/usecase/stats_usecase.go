package usecase

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/nihongo/internal/entity"
	"github.com/eslsoft/nihongo/internal/repository"
	"github.com/eslsoft/nihongo/internal/srs"
	"github.com/eslsoft/nihongo/pkg/filterexpr"
)

const (
	_defaultLimit = int32(20)
	_maxLimit     = int32(1000)
)

// CharacterSource is the static character dataset as seen by the read side.
type CharacterSource interface {
	CharacterLookup
	Filter(ws entity.WritingSystem, level entity.JLPTLevel) []entity.Character
}

// ProgressSchema declares the variables usable in progress filters and orderings.
var ProgressSchema = filterexpr.ResourceSchema{
	Filter: map[string]filterexpr.ValueKind{
		"characterId":   filterexpr.KindString,
		"glyph":         filterexpr.KindString,
		"romaji":        filterexpr.KindString,
		"type":          filterexpr.KindString,
		"jlpt":          filterexpr.KindString,
		"mastery":       filterexpr.KindInt,
		"reviews":       filterexpr.KindInt,
		"correct":       filterexpr.KindInt,
		"incorrect":     filterexpr.KindInt,
		"streak":        filterexpr.KindInt,
		"accuracy":      filterexpr.KindNumber,
		"ease":          filterexpr.KindNumber,
		"avgResponseMs": filterexpr.KindNumber,
		"overdueDays":   filterexpr.KindNumber,
		"priority":      filterexpr.KindNumber,
		"due":           filterexpr.KindBool,
		"lastReviewed":  filterexpr.KindTimestamp,
		"nextReview":    filterexpr.KindTimestamp,
	},
	Order: filterexpr.OrderSchema{
		DefaultPrimary:     "priority",
		DefaultPrimaryDesc: true,
		FallbackKey:        "characterId",
		Fields:             []string{"priority", "characterId", "mastery", "accuracy", "ease", "reviews", "nextReview", "lastReviewed", "avgResponseMs"},
	},
}

// Overview is the dashboard summary of the learner's progress.
type Overview struct {
	Profile             entity.UserProfile
	Seen                int
	Mastered            int
	Learning            int
	OverallAccuracy     float64
	AverageResponseTime float64 // milliseconds, weighted by reviews
	TotalSessions       int
	Achievements        int
	DueReviews          int
	Today               entity.DailyStats
	GoalProgress        float64 // percent of the daily XP goal, capped at 100
}

// ProgressEntry is one progress record joined with its character.
type ProgressEntry struct {
	Progress  entity.CharacterProgress
	Character *entity.Character
	Due       bool
	Priority  float64
}

// StatsUsecase answers read-only questions about the study state.
type StatsUsecase interface {
	Overview(ctx context.Context) (*Overview, error)
	// DueQueue returns the characters of one writing system that are due or new, most urgent first.
	DueQueue(ctx context.Context, ws entity.WritingSystem, level entity.JLPTLevel, limit int) ([]entity.Character, error)
	// DueReviews counts reviewed characters whose next review has arrived.
	DueReviews(ctx context.Context) (int, error)
	ListProgress(ctx context.Context, query *repository.ListProgressQuery) ([]ProgressEntry, int64, error)
}

// NewStatsUsecase wires the read side over the study state owner.
func NewStatsUsecase(study StudyUsecase, chars CharacterSource) StatsUsecase {
	return &statsUsecase{
		study: study,
		chars: chars,
		clock: time.Now,
	}
}

type statsUsecase struct {
	study StudyUsecase
	chars CharacterSource
	clock func() time.Time
}

func (u *statsUsecase) Overview(ctx context.Context) (*Overview, error) {
	state := u.study.State()
	if state.Profile == nil {
		return nil, entity.ErrProfileNotLoaded
	}
	now := u.clock()
	records := lo.Values(state.Progress)

	out := &Overview{
		Profile:       *state.Profile,
		Seen:          len(records),
		Mastered:      lo.CountBy(records, func(p entity.CharacterProgress) bool { return p.IsBurned() }),
		Learning:      lo.CountBy(records, func(p entity.CharacterProgress) bool { return p.IsLearning() }),
		TotalSessions: len(state.Sessions),
		Achievements:  len(state.Unlocked),
		DueReviews:    len(srs.DueCharacters(state.Progress, lo.Keys(state.Progress), now)),
		Today:         entity.DailyStats{Date: entity.DateKey(now)},
	}
	if len(records) > 0 {
		out.OverallAccuracy = lo.SumBy(records, func(p entity.CharacterProgress) float64 { return p.Accuracy }) / float64(len(records))
		reviews := lo.SumBy(records, func(p entity.CharacterProgress) int { return p.TimesReviewed })
		if reviews > 0 {
			weighted := lo.SumBy(records, func(p entity.CharacterProgress) float64 {
				return p.AverageResponseTime * float64(p.TimesReviewed)
			})
			out.AverageResponseTime = weighted / float64(reviews)
		}
	}
	if today, ok := lo.Find(state.DailyStats, func(d entity.DailyStats) bool { return d.Date == out.Today.Date }); ok {
		out.Today = today
	}
	if goal := state.Profile.Preferences.DailyGoal; goal > 0 {
		out.GoalProgress = math.Min(100, float64(out.Today.XPEarned)/float64(goal)*100)
	}
	return out, nil
}

func (u *statsUsecase) DueQueue(ctx context.Context, ws entity.WritingSystem, level entity.JLPTLevel, limit int) ([]entity.Character, error) {
	if ws == entity.WritingSystemUnspecified {
		return nil, entity.ErrInvalidWritingSystem
	}
	state := u.study.State()
	now := u.clock()
	pool := u.chars.Filter(ws, level)
	ids := lo.Map(pool, func(ch entity.Character, _ int) string { return ch.ID })
	ordered := srs.SortByPriority(srs.DueCharacters(state.Progress, ids, now), state.Progress, now)
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return lo.FilterMap(ordered, func(id string, _ int) (entity.Character, bool) {
		return u.chars.Character(id)
	}), nil
}

func (u *statsUsecase) DueReviews(ctx context.Context) (int, error) {
	state := u.study.State()
	return len(srs.DueCharacters(state.Progress, lo.Keys(state.Progress), u.clock())), nil
}

func (u *statsUsecase) ListProgress(ctx context.Context, query *repository.ListProgressQuery) ([]ProgressEntry, int64, error) {
	if query == nil {
		query = &repository.ListProgressQuery{}
	}
	q, err := filterexpr.Bind(&query.FilterOrder, ProgressSchema)
	if err != nil {
		return nil, 0, err
	}

	state := u.study.State()
	now := u.clock()
	type row struct {
		entry ProgressEntry
		vars  map[string]any
	}
	var rows []row
	for _, p := range state.Progress {
		entry := ProgressEntry{
			Progress: p,
			Due:      srs.IsDue(p, now),
			Priority: srs.PriorityScore(p, now),
		}
		if ch, ok := u.chars.Character(p.CharacterID); ok {
			entry.Character = &ch
		}
		vars := progressVars(entry, now)
		matched, err := q.Predicate.Match(vars)
		if err != nil {
			return nil, 0, err
		}
		if matched {
			rows = append(rows, row{entry: entry, vars: vars})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return q.Order.Compare(rows[i].vars, rows[j].vars) < 0 })

	total := int64(len(rows))
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = _defaultLimit
	}
	if pageSize > _maxLimit {
		pageSize = _maxLimit
	}
	page := query.Pagination
	page.PageSize = pageSize
	if page.PageNo < 1 {
		page.PageNo = 1
	}
	start := int(page.Offset())
	if start >= len(rows) {
		return []ProgressEntry{}, total, nil
	}
	end := lo.Min([]int{start + int(pageSize), len(rows)})
	return lo.Map(rows[start:end], func(r row, _ int) ProgressEntry { return r.entry }), total, nil
}

func progressVars(e ProgressEntry, now time.Time) map[string]any {
	p := e.Progress
	vars := map[string]any{
		"characterId":   p.CharacterID,
		"glyph":         "",
		"romaji":        "",
		"type":          "",
		"jlpt":          "",
		"mastery":       p.MasteryLevel,
		"reviews":       p.TimesReviewed,
		"correct":       p.CorrectCount,
		"incorrect":     p.IncorrectCount,
		"streak":        p.SuccessStreak,
		"accuracy":      p.Accuracy,
		"ease":          p.EaseFactor,
		"avgResponseMs": p.AverageResponseTime,
		"overdueDays":   0.0,
		"priority":      e.Priority,
		"due":           e.Due,
		"lastReviewed":  time.Unix(0, 0).UTC(),
		"nextReview":    now,
	}
	if e.Character != nil {
		vars["glyph"] = e.Character.Glyph
		vars["romaji"] = e.Character.Romaji
		vars["type"] = string(e.Character.Type)
		vars["jlpt"] = string(e.Character.JLPTLevel)
	}
	if p.LastReviewedAt != nil {
		vars["lastReviewed"] = *p.LastReviewedAt
	}
	if p.NextReviewAt != nil {
		vars["nextReview"] = *p.NextReviewAt
		vars["overdueDays"] = math.Max(0, now.Sub(*p.NextReviewAt).Hours()/24)
	}
	return vars
}
