package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/nihongo/internal/entity"
	"github.com/eslsoft/nihongo/internal/repository"
	"github.com/eslsoft/nihongo/internal/srs"
)

// AchievementCatalog supplies the static achievement definitions.
type AchievementCatalog interface {
	Achievements() []entity.Achievement
}

// StudyUsecase owns the study state of the installation: profile, progress table, session
// history and the active session. Methods are safe for concurrent use.
type StudyUsecase interface {
	// Load replaces the in-memory state with the persisted one. A session stored without an
	// end time becomes the active session again.
	Load(ctx context.Context) error
	StartSession(ctx context.Context, mode entity.LearningMode, ws entity.WritingSystem, level entity.JLPTLevel) (*entity.StudySession, error)
	SubmitAnswer(ctx context.Context, question *entity.QuizQuestion, userAnswer string, responseTimeMs int64) (*AnswerResult, error)
	EndSession(ctx context.Context) (*SessionSummary, error)
	// AwardXP adds amount to the lifetime XP and re-derives the level.
	AwardXP(ctx context.Context, amount int) (*entity.UserProfile, error)
	// CheckAchievements unlocks every achievement whose condition holds now.
	CheckAchievements(ctx context.Context) ([]entity.Achievement, error)
	// UpdateProfile applies fn to the loaded profile and persists the result.
	UpdateProfile(ctx context.Context, fn func(*entity.UserProfile)) (*entity.UserProfile, error)
	State() StudyState
}

// StudyState is a detached copy of the orchestrator state.
type StudyState struct {
	Profile       *entity.UserProfile
	Progress      entity.ProgressTable
	Sessions      []entity.StudySession
	DailyStats    []entity.DailyStats
	Unlocked      []string
	ActiveSession *entity.StudySession
	Combo         int
}

// AnswerResult describes the effect of one submitted answer.
type AnswerResult struct {
	IsCorrect bool
	XPAwarded int
	Combo     int
	Progress  entity.CharacterProgress
	LeveledUp bool
}

// SessionSummary describes a closed session and what it changed.
type SessionSummary struct {
	Session       entity.StudySession
	Daily         entity.DailyStats
	Streak        int
	LongestStreak int
	Unlocked      []entity.Achievement
}

// NewStudyUsecase wires the orchestrator. A nil notifier discards events.
func NewStudyUsecase(repo repository.StateRepository, achievements AchievementCatalog, notifier Notifier, log logrus.FieldLogger) StudyUsecase {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &studyUsecase{
		repo:         repo,
		achievements: achievements,
		notifier:     notifier,
		log:          log,
		clock:        time.Now,
		newID:        uuid.NewString,
		progress:     entity.ProgressTable{},
	}
}

type studyUsecase struct {
	repo         repository.StateRepository
	achievements AchievementCatalog
	notifier     Notifier
	log          logrus.FieldLogger
	clock        func() time.Time
	newID        func() string

	mu       sync.Mutex
	profile  *entity.UserProfile
	progress entity.ProgressTable
	sessions []entity.StudySession
	daily    []entity.DailyStats
	unlocked []string
	active   *entity.StudySession
	combo    int
}

func (u *studyUsecase) Load(ctx context.Context) error {
	profile, err := u.repo.GetProfile(ctx)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	progress, err := u.repo.GetProgress(ctx)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	sessions, err := u.repo.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}
	daily, err := u.repo.ListDailyStats(ctx)
	if err != nil {
		return fmt.Errorf("load daily stats: %w", err)
	}
	unlocked, err := u.repo.ListUnlockedAchievements(ctx)
	if err != nil {
		return fmt.Errorf("load achievements: %w", err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.profile = profile
	u.progress = progress
	u.sessions = sessions
	u.daily = daily
	u.unlocked = unlocked
	u.active = nil
	u.combo = 0
	for i := len(sessions) - 1; i >= 0; i-- {
		if sessions[i].Active() {
			s := sessions[i].Clone()
			u.active = &s
			u.log.WithField("session_id", s.ID).Info("resuming unfinished session")
			break
		}
	}
	return nil
}

func (u *studyUsecase) StartSession(ctx context.Context, mode entity.LearningMode, ws entity.WritingSystem, level entity.JLPTLevel) (*entity.StudySession, error) {
	if mode == entity.LearningModeUnspecified {
		return nil, entity.ErrInvalidMode
	}
	if ws == entity.WritingSystemUnspecified {
		return nil, entity.ErrInvalidWritingSystem
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.profile == nil {
		return nil, entity.ErrProfileNotLoaded
	}
	if u.active != nil {
		return nil, entity.ErrSessionAlreadyActive
	}

	session := &entity.StudySession{
		ID:            u.newID(),
		StartTime:     u.clock(),
		Mode:          mode,
		WritingSystem: ws,
	}
	if ws == entity.WritingSystemKanji {
		session.JLPTLevel = level
	}
	u.active = session
	u.combo = 0
	u.sessions = append(u.sessions, session.Clone())

	u.log.WithFields(logrus.Fields{
		"session_id":     session.ID,
		"mode":           mode,
		"writing_system": ws,
	}).Info("study session started")

	out := session.Clone()
	if err := u.repo.SaveSession(ctx, session); err != nil {
		return &out, fmt.Errorf("persist session: %w", err)
	}
	return &out, nil
}

func (u *studyUsecase) SubmitAnswer(ctx context.Context, question *entity.QuizQuestion, userAnswer string, responseTimeMs int64) (*AnswerResult, error) {
	if question == nil || strings.TrimSpace(question.Character.ID) == "" || strings.TrimSpace(question.CorrectAnswer) == "" {
		return nil, entity.ErrInvalidQuestion
	}
	if responseTimeMs < 0 {
		responseTimeMs = 0
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.active == nil {
		return nil, entity.ErrNoActiveSession
	}
	if u.profile == nil {
		return nil, entity.ErrProfileNotLoaded
	}

	now := u.clock()
	isCorrect := entity.NormalizeAnswer(userAnswer) == entity.NormalizeAnswer(question.CorrectAnswer)
	question.UserAnswer = userAnswer
	question.IsCorrect = &isCorrect
	question.ResponseTime = responseTimeMs

	u.active.QuestionsAnswered++
	if isCorrect {
		u.active.CorrectAnswers++
		u.combo++
	} else {
		u.combo = 0
	}

	charID := question.Character.ID
	current, ok := u.progress[charID]
	if !ok {
		current = entity.NewCharacterProgress(charID, now)
	}
	xp := srs.ApplyCombo(srs.XPForCorrectAnswer(current.MasteryLevel, responseTimeMs, isCorrect), u.combo)
	updated := srs.ApplyResult(current, isCorrect, responseTimeMs, now)
	u.progress[charID] = updated
	u.active.XPEarned += xp
	u.replaceSession(*u.active)

	var errs []error
	if err := u.repo.UpsertProgress(ctx, updated); err != nil {
		errs = append(errs, fmt.Errorf("persist progress: %w", err))
	}
	leveledUp, err := u.awardXPLocked(ctx, xp, now)
	if err != nil {
		errs = append(errs, err)
	}
	if err := u.repo.SaveSession(ctx, u.active); err != nil {
		errs = append(errs, fmt.Errorf("persist session: %w", err))
	}

	u.log.WithFields(logrus.Fields{
		"character_id": charID,
		"correct":      isCorrect,
		"xp":           xp,
		"combo":        u.combo,
		"mastery":      updated.MasteryLevel,
	}).Debug("answer recorded")

	if isCorrect && IsComboMilestone(u.combo) {
		u.notifier.Notify(ctx, Event{Kind: EventComboMilestone, At: now, Combo: u.combo})
	}

	return &AnswerResult{
		IsCorrect: isCorrect,
		XPAwarded: xp,
		Combo:     u.combo,
		Progress:  updated.Clone(),
		LeveledUp: leveledUp,
	}, errors.Join(errs...)
}

func (u *studyUsecase) EndSession(ctx context.Context) (*SessionSummary, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.active == nil {
		return nil, entity.ErrNoActiveSession
	}
	if u.profile == nil {
		return nil, entity.ErrProfileNotLoaded
	}

	now := u.clock()
	session := u.active
	session.Close(now)
	u.replaceSession(*session)

	day := u.mergeDaily(session, now)

	profile := u.profile
	profile.Streak = srs.UpdateStreak(profile.LastStudyDate, profile.Streak, now)
	if profile.Streak > profile.LongestStreak {
		profile.LongestStreak = profile.Streak
	}
	studied := now
	profile.LastStudyDate = &studied
	profile.TotalStudyTime += session.Duration

	var errs []error
	if err := u.repo.SaveSession(ctx, session); err != nil {
		errs = append(errs, fmt.Errorf("persist session: %w", err))
	}
	if err := u.repo.UpsertDailyStats(ctx, day); err != nil {
		errs = append(errs, fmt.Errorf("persist daily stats: %w", err))
	}
	if err := u.repo.SaveProfile(ctx, profile); err != nil {
		errs = append(errs, fmt.Errorf("persist profile: %w", err))
	}

	closed := session.Clone()
	u.active = nil
	u.combo = 0

	u.log.WithFields(logrus.Fields{
		"session_id": closed.ID,
		"duration":   closed.Duration,
		"answered":   closed.QuestionsAnswered,
		"accuracy":   closed.Accuracy(),
		"xp":         closed.XPEarned,
		"streak":     profile.Streak,
	}).Info("study session ended")

	unlocked, err := u.checkAchievementsLocked(ctx, now)
	if err != nil {
		errs = append(errs, err)
	}

	return &SessionSummary{
		Session:       closed,
		Daily:         day,
		Streak:        profile.Streak,
		LongestStreak: profile.LongestStreak,
		Unlocked:      unlocked,
	}, errors.Join(errs...)
}

func (u *studyUsecase) AwardXP(ctx context.Context, amount int) (*entity.UserProfile, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.profile == nil {
		return nil, entity.ErrProfileNotLoaded
	}
	_, err := u.awardXPLocked(ctx, amount, u.clock())
	out := u.profile.Clone()
	return &out, err
}

func (u *studyUsecase) CheckAchievements(ctx context.Context) ([]entity.Achievement, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.profile == nil {
		return nil, entity.ErrProfileNotLoaded
	}
	return u.checkAchievementsLocked(ctx, u.clock())
}

func (u *studyUsecase) UpdateProfile(ctx context.Context, fn func(*entity.UserProfile)) (*entity.UserProfile, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.profile == nil {
		return nil, entity.ErrProfileNotLoaded
	}
	fn(u.profile)
	u.profile.Normalize()
	out := u.profile.Clone()
	if err := u.repo.SaveProfile(ctx, u.profile); err != nil {
		return &out, fmt.Errorf("persist profile: %w", err)
	}
	return &out, nil
}

func (u *studyUsecase) State() StudyState {
	u.mu.Lock()
	defer u.mu.Unlock()

	state := StudyState{
		Progress:   u.progress.Clone(),
		Sessions:   lo.Map(u.sessions, func(s entity.StudySession, _ int) entity.StudySession { return s.Clone() }),
		DailyStats: append([]entity.DailyStats(nil), u.daily...),
		Unlocked:   append([]string(nil), u.unlocked...),
		Combo:      u.combo,
	}
	if u.profile != nil {
		p := u.profile.Clone()
		state.Profile = &p
	}
	if u.active != nil {
		s := u.active.Clone()
		state.ActiveSession = &s
	}
	return state
}

// awardXPLocked reports whether the award crossed a level boundary.
func (u *studyUsecase) awardXPLocked(ctx context.Context, amount int, now time.Time) (bool, error) {
	if amount <= 0 {
		return false, nil
	}
	profile := u.profile
	before := profile.Level
	profile.TotalXP += amount
	info := srs.LevelFromTotalXP(profile.TotalXP)
	profile.Level = info.Level
	profile.XPToNextLevel = info.XPToNextLevel
	profile.XP = srs.XPIntoLevel(profile.TotalXP)

	leveledUp := profile.Level > before
	if leveledUp {
		u.log.WithFields(logrus.Fields{"level": profile.Level, "total_xp": profile.TotalXP}).Info("level up")
		u.notifier.Notify(ctx, Event{Kind: EventLevelUp, At: now, Level: profile.Level})
	}
	if err := u.repo.SaveProfile(ctx, profile); err != nil {
		return leveledUp, fmt.Errorf("persist profile: %w", err)
	}
	return leveledUp, nil
}

func (u *studyUsecase) checkAchievementsLocked(ctx context.Context, now time.Time) ([]entity.Achievement, error) {
	if u.achievements == nil {
		return nil, nil
	}
	var (
		unlocked []entity.Achievement
		errs     []error
	)
	for _, ach := range u.achievements.Achievements() {
		if lo.Contains(u.unlocked, ach.ID) || !u.conditionHolds(ach.Condition, now) {
			continue
		}
		u.unlocked = append(u.unlocked, ach.ID)
		if !u.profile.HasAchievement(ach.ID) {
			u.profile.Achievements = append(u.profile.Achievements, ach.ID)
		}
		if _, err := u.repo.UnlockAchievement(ctx, ach.ID); err != nil {
			errs = append(errs, fmt.Errorf("persist achievement %s: %w", ach.ID, err))
		}
		u.log.WithField("achievement", ach.ID).Info("achievement unlocked")
		a := ach
		u.notifier.Notify(ctx, Event{Kind: EventAchievementUnlocked, At: now, Achievement: &a})
		// The reward goes through the regular XP path and may level the account up.
		if _, err := u.awardXPLocked(ctx, ach.XPReward, now); err != nil {
			errs = append(errs, err)
		}
		unlocked = append(unlocked, ach)
	}
	return unlocked, errors.Join(errs...)
}

func (u *studyUsecase) conditionHolds(cond entity.Condition, now time.Time) bool {
	switch c := cond.(type) {
	case entity.StreakCondition:
		return u.profile.Streak >= c.Days
	case entity.TotalXPCondition:
		return u.profile.TotalXP >= c.XP
	case entity.SessionsCondition:
		return len(u.sessions) >= c.Count
	case entity.MasteryCondition:
		burned := lo.CountBy(lo.Values(u.progress), func(p entity.CharacterProgress) bool { return p.IsBurned() })
		return burned >= c.Count
	case entity.AccuracyCondition:
		if len(u.sessions) == 0 {
			return false
		}
		last := u.sessions[len(u.sessions)-1]
		return last.QuestionsAnswered > 0 && last.Accuracy() >= c.Percent
	case entity.TimeOfDayCondition:
		hour := now.Hour()
		return hour >= c.FromHour && hour < c.ToHour
	default:
		return false
	}
}

func (u *studyUsecase) mergeDaily(session *entity.StudySession, now time.Time) entity.DailyStats {
	key := entity.DateKey(now)
	_, idx, found := lo.FindIndexOf(u.daily, func(d entity.DailyStats) bool { return d.Date == key })
	if !found {
		day := entity.DailyStats{Date: key}.Merge(session)
		u.daily = append(u.daily, day)
		return day
	}
	u.daily[idx] = u.daily[idx].Merge(session)
	return u.daily[idx]
}

func (u *studyUsecase) replaceSession(s entity.StudySession) {
	_, idx, found := lo.FindIndexOf(u.sessions, func(x entity.StudySession) bool { return x.ID == s.ID })
	if found {
		u.sessions[idx] = s.Clone()
		return
	}
	u.sessions = append(u.sessions, s.Clone())
}
