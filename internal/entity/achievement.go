package entity

import (
	"fmt"
	"strings"
)

// Achievement is a static catalog entry unlocked once its condition holds.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	XPReward    int
	Condition   Condition
}

// Condition is the closed set of unlock conditions. Implementations live in this package only.
type Condition interface {
	Kind() ConditionKind
	isCondition()
}

// ConditionKind names a condition variant.
type ConditionKind string

const (
	ConditionStreak    ConditionKind = "streak"
	ConditionTotalXP   ConditionKind = "total_xp"
	ConditionAccuracy  ConditionKind = "accuracy"
	ConditionMastery   ConditionKind = "mastery"
	ConditionSessions  ConditionKind = "sessions"
	ConditionTimeOfDay ConditionKind = "time"
)

// StreakCondition holds when the current day streak reaches Days.
type StreakCondition struct{ Days int }

// TotalXPCondition holds when lifetime XP reaches XP.
type TotalXPCondition struct{ XP int }

// AccuracyCondition holds when the last closed session scored at least Percent.
type AccuracyCondition struct{ Percent float64 }

// MasteryCondition holds when Count characters are burned.
type MasteryCondition struct{ Count int }

// SessionsCondition holds when Count sessions have been recorded.
type SessionsCondition struct{ Count int }

// TimeOfDayCondition holds when a session ends with FromHour <= hour < ToHour.
type TimeOfDayCondition struct {
	FromHour int
	ToHour   int
}

func (StreakCondition) Kind() ConditionKind    { return ConditionStreak }
func (TotalXPCondition) Kind() ConditionKind   { return ConditionTotalXP }
func (AccuracyCondition) Kind() ConditionKind  { return ConditionAccuracy }
func (MasteryCondition) Kind() ConditionKind   { return ConditionMastery }
func (SessionsCondition) Kind() ConditionKind  { return ConditionSessions }
func (TimeOfDayCondition) Kind() ConditionKind { return ConditionTimeOfDay }

func (StreakCondition) isCondition()    {}
func (TotalXPCondition) isCondition()   {}
func (AccuracyCondition) isCondition()  {}
func (MasteryCondition) isCondition()   {}
func (SessionsCondition) isCondition()  {}
func (TimeOfDayCondition) isCondition() {}

// ConditionSpec is the serialised form of a Condition as found in catalog files.
type ConditionSpec struct {
	Type     string  `json:"type" yaml:"type"`
	Target   float64 `json:"target" yaml:"target"`
	FromHour int     `json:"fromHour,omitempty" yaml:"from_hour,omitempty"`
	ToHour   int     `json:"toHour,omitempty" yaml:"to_hour,omitempty"`
}

// Build converts the serialised form into its Condition variant.
func (c ConditionSpec) Build() (Condition, error) {
	switch ConditionKind(strings.ToLower(strings.TrimSpace(c.Type))) {
	case ConditionStreak:
		return StreakCondition{Days: int(c.Target)}, nil
	case ConditionTotalXP:
		return TotalXPCondition{XP: int(c.Target)}, nil
	case ConditionAccuracy:
		return AccuracyCondition{Percent: c.Target}, nil
	case ConditionMastery:
		return MasteryCondition{Count: int(c.Target)}, nil
	case ConditionSessions:
		return SessionsCondition{Count: int(c.Target)}, nil
	case ConditionTimeOfDay:
		if c.FromHour < 0 || c.ToHour > 24 || c.FromHour >= c.ToHour {
			return nil, fmt.Errorf("invalid hour window [%d,%d)", c.FromHour, c.ToHour)
		}
		return TimeOfDayCondition{FromHour: c.FromHour, ToHour: c.ToHour}, nil
	default:
		return nil, fmt.Errorf("unknown condition type %q", c.Type)
	}
}

// SpecOf converts a Condition back into its serialised form.
func SpecOf(c Condition) ConditionSpec {
	switch v := c.(type) {
	case StreakCondition:
		return ConditionSpec{Type: string(ConditionStreak), Target: float64(v.Days)}
	case TotalXPCondition:
		return ConditionSpec{Type: string(ConditionTotalXP), Target: float64(v.XP)}
	case AccuracyCondition:
		return ConditionSpec{Type: string(ConditionAccuracy), Target: v.Percent}
	case MasteryCondition:
		return ConditionSpec{Type: string(ConditionMastery), Target: float64(v.Count)}
	case SessionsCondition:
		return ConditionSpec{Type: string(ConditionSessions), Target: float64(v.Count)}
	case TimeOfDayCondition:
		return ConditionSpec{Type: string(ConditionTimeOfDay), FromHour: v.FromHour, ToHour: v.ToHour}
	default:
		return ConditionSpec{}
	}
}
