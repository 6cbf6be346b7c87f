package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/nihongo/internal/entity"
)

// EventKind names something worth telling the learner about.
type EventKind string

const (
	EventLevelUp             EventKind = "level_up"
	EventComboMilestone      EventKind = "combo_milestone"
	EventAchievementUnlocked EventKind = "achievement_unlocked"
	EventReviewReminder      EventKind = "review_reminder"
)

// Event is delivered to a Notifier after the state change it describes has been applied.
type Event struct {
	Kind        EventKind
	At          time.Time
	Level       int
	Combo       int
	DueCount    int
	Achievement *entity.Achievement
}

// Notifier observes learner-facing events. Implementations must not call back into the
// usecase that emitted the event.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, event Event)

func (f NotifierFunc) Notify(ctx context.Context, event Event) { f(ctx, event) }

// NewLogNotifier reports events as structured log lines.
func NewLogNotifier(log logrus.FieldLogger) Notifier {
	return NotifierFunc(func(_ context.Context, e Event) {
		fields := logrus.Fields{"event": e.Kind}
		switch e.Kind {
		case EventLevelUp:
			fields["level"] = e.Level
		case EventComboMilestone:
			fields["combo"] = e.Combo
		case EventReviewReminder:
			fields["due"] = e.DueCount
		case EventAchievementUnlocked:
			if e.Achievement != nil {
				fields["achievement"] = e.Achievement.ID
				fields["xp_reward"] = e.Achievement.XPReward
			}
		}
		log.WithFields(fields).Info("notification")
	})
}

// IsComboMilestone reports whether reaching combo deserves a celebration.
func IsComboMilestone(combo int) bool {
	switch combo {
	case 5, 10, 20:
		return true
	}
	return combo > 0 && combo%25 == 0
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Event) {}
