package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/nihongo/internal/infrastructure/config"
	"github.com/eslsoft/nihongo/internal/infrastructure/logger"
	"github.com/eslsoft/nihongo/internal/usecase"
)

type fakeState struct {
	loads int
	due   int
	err   error
}

func (f *fakeState) Load(context.Context) error {
	f.loads++
	return f.err
}

func (f *fakeState) DueReviews(context.Context) (int, error) { return f.due, nil }

func newTestReminder(state *fakeState, cfg config.ReminderConfig, hour int) (*Reminder, *[]usecase.Event) {
	var events []usecase.Event
	notifier := usecase.NotifierFunc(func(_ context.Context, e usecase.Event) { events = append(events, e) })
	r := New(state, state, notifier, cfg, logger.Discard())
	r.clock = func() time.Time { return time.Date(2025, 6, 1, hour, 15, 0, 0, time.Local) }
	return r, &events
}

func TestReminderCheckNotifiesDueReviews(t *testing.T) {
	state := &fakeState{due: 7}
	r, events := newTestReminder(state, config.ReminderConfig{StartHour: 8, EndHour: 22}, 9)

	count, err := r.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.Equal(t, 1, state.loads)
	require.Len(t, *events, 1)
	assert.Equal(t, usecase.EventReviewReminder, (*events)[0].Kind)
	assert.Equal(t, 7, (*events)[0].DueCount)
}

func TestReminderCheckSkipsOutsideWindow(t *testing.T) {
	state := &fakeState{due: 3}
	r, events := newTestReminder(state, config.ReminderConfig{StartHour: 8, EndHour: 22}, 23)

	count, err := r.Check(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, state.loads)
	assert.Empty(t, *events)
}

func TestReminderCheckNothingDue(t *testing.T) {
	state := &fakeState{}
	r, events := newTestReminder(state, config.ReminderConfig{StartHour: 0, EndHour: 23}, 12)

	count, err := r.Check(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, *events)
}

func TestReminderCheckLoadError(t *testing.T) {
	state := &fakeState{due: 2, err: errors.New("disk gone")}
	r, events := newTestReminder(state, config.ReminderConfig{StartHour: 0, EndHour: 23}, 12)

	_, err := r.Check(context.Background())
	require.Error(t, err)
	assert.Empty(t, *events)
}

func TestReminderWindow(t *testing.T) {
	cases := []struct {
		name       string
		start, end int
		hour       int
		want       bool
	}{
		{"inside", 8, 22, 12, true},
		{"start inclusive", 8, 22, 8, true},
		{"end inclusive", 8, 22, 22, true},
		{"before", 8, 22, 7, false},
		{"wraps late", 22, 2, 23, true},
		{"wraps early", 22, 2, 1, true},
		{"wraps outside", 22, 2, 12, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := New(&fakeState{}, &fakeState{}, usecase.NotifierFunc(func(context.Context, usecase.Event) {}),
				config.ReminderConfig{StartHour: tc.start, EndHour: tc.end}, logger.Discard())
			assert.Equal(t, tc.want, r.inWindow(tc.hour))
		})
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	r := New(&fakeState{}, &fakeState{}, nil, config.ReminderConfig{StartHour: -1, EndHour: 40}, logger.Discard())
	assert.Equal(t, time.Hour, r.interval)
	assert.Equal(t, DefaultStartHour, r.startHour)
	assert.Equal(t, DefaultEndHour, r.endHour)
}
