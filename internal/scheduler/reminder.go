package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/nihongo/internal/infrastructure/config"
	"github.com/eslsoft/nihongo/internal/usecase"
)

// Default reminder window, in local hours.
const (
	DefaultStartHour = 8
	DefaultEndHour   = 22
)

// StateLoader refreshes the in-memory study state from the store.
type StateLoader interface {
	Load(ctx context.Context) error
}

// DueCounter counts reviews that are due now.
type DueCounter interface {
	DueReviews(ctx context.Context) (int, error)
}

// Reminder periodically checks for due reviews and notifies the learner.
type Reminder struct {
	scheduler *gocron.Scheduler
	loader    StateLoader
	due       DueCounter
	notifier  usecase.Notifier
	log       logrus.FieldLogger
	clock     func() time.Time

	interval  time.Duration
	startHour int
	endHour   int
}

// New creates a reminder scheduled in the local time zone.
func New(loader StateLoader, due DueCounter, notifier usecase.Notifier, cfg config.ReminderConfig, log logrus.FieldLogger) *Reminder {
	r := &Reminder{
		scheduler: gocron.NewScheduler(time.Local),
		loader:    loader,
		due:       due,
		notifier:  notifier,
		log:       log,
		clock:     time.Now,
		interval:  cfg.Interval,
		startHour: cfg.StartHour,
		endHour:   cfg.EndHour,
	}
	if r.interval <= 0 {
		r.interval = time.Hour
	}
	if r.startHour < 0 || r.startHour > 23 {
		r.startHour = DefaultStartHour
	}
	if r.endHour < 0 || r.endHour > 23 {
		r.endHour = DefaultEndHour
	}
	return r
}

// Start schedules the periodic check and runs the scheduler in the background.
func (r *Reminder) Start(ctx context.Context) error {
	r.scheduler.SingletonModeAll()
	if _, err := r.scheduler.Every(r.interval).Do(func() {
		if _, err := r.Check(ctx); err != nil {
			r.log.WithError(err).Warn("review reminder check failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	r.scheduler.StartAsync()
	r.log.WithFields(logrus.Fields{
		"interval":   r.interval,
		"start_hour": r.startHour,
		"end_hour":   r.endHour,
	}).Info("review reminders started")
	return nil
}

// Stop terminates the scheduled checks.
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

// Check runs one reminder pass and returns the number of due reviews it reported. Outside the
// notification window nothing is loaded or sent.
func (r *Reminder) Check(ctx context.Context) (int, error) {
	now := r.clock()
	if !r.inWindow(now.Hour()) {
		r.log.WithField("hour", now.Hour()).Debug("outside notification hours, skipping reminder")
		return 0, nil
	}
	if err := r.loader.Load(ctx); err != nil {
		return 0, fmt.Errorf("reload state: %w", err)
	}
	count, err := r.due.DueReviews(ctx)
	if err != nil {
		return 0, fmt.Errorf("count due reviews: %w", err)
	}
	if count == 0 {
		return 0, nil
	}
	r.notifier.Notify(ctx, usecase.Event{Kind: usecase.EventReviewReminder, At: now, DueCount: count})
	return count, nil
}

// inWindow reports whether hour falls in the inclusive window. A window whose start is after
// its end wraps around midnight.
func (r *Reminder) inWindow(hour int) bool {
	if r.startHour <= r.endHour {
		return hour >= r.startHour && hour <= r.endHour
	}
	return hour >= r.startHour || hour <= r.endHour
}
