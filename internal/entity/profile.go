package entity

import (
	"strings"
	"time"
)

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Preferences holds learner settings carried with the profile.
type Preferences struct {
	Theme           Theme  `json:"theme"`
	DailyGoal       int    `json:"dailyGoal"`
	ShowStrokeOrder bool   `json:"showStrokeOrder"`
	ShowMnemonics   bool   `json:"showMnemonics"`
	EnableSounds    bool   `json:"enableSounds"`
	FontSize        string `json:"fontSize"`
	AnimationSpeed  string `json:"animationSpeed"`
}

// DefaultPreferences returns the settings of a fresh installation.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:           ThemeAuto,
		DailyGoal:       100,
		ShowStrokeOrder: true,
		ShowMnemonics:   true,
		EnableSounds:    true,
		FontSize:        "medium",
		AnimationSpeed:  "normal",
	}
}

// UserProfile is the singleton account record of an installation.
type UserProfile struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	CreatedAt      time.Time   `json:"createdAt"`
	Level          int         `json:"level"`
	XP             int         `json:"xp"`
	XPToNextLevel  int         `json:"xpToNextLevel"`
	TotalXP        int         `json:"totalXP"`
	Streak         int         `json:"streak"`
	LongestStreak  int         `json:"longestStreak"`
	LastStudyDate  *time.Time  `json:"lastStudyDate"`
	TotalStudyTime int         `json:"totalStudyTime"` // minutes
	Achievements   []string    `json:"achievements"`
	Preferences    Preferences `json:"preferences"`
}

// DefaultProfileName is used when a profile is created without a name.
const DefaultProfileName = "Student"

// NewUserProfile builds a level-1 profile with default preferences.
func NewUserProfile(id, name string, now time.Time) UserProfile {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultProfileName
	}
	return UserProfile{
		ID:            id,
		Name:          name,
		CreatedAt:     now,
		Level:         1,
		XPToNextLevel: 100,
		Achievements:  []string{},
		Preferences:   DefaultPreferences(),
	}
}

// Normalize fills zero-valued preferences with defaults and repairs invariants.
func (u *UserProfile) Normalize() {
	def := DefaultPreferences()
	if u.Preferences.Theme == "" {
		u.Preferences.Theme = def.Theme
	}
	if u.Preferences.DailyGoal <= 0 {
		u.Preferences.DailyGoal = def.DailyGoal
	}
	if u.Preferences.FontSize == "" {
		u.Preferences.FontSize = def.FontSize
	}
	if u.Preferences.AnimationSpeed == "" {
		u.Preferences.AnimationSpeed = def.AnimationSpeed
	}
	if u.Achievements == nil {
		u.Achievements = []string{}
	}
	if u.Level < 1 {
		u.Level = 1
	}
	if u.LongestStreak < u.Streak {
		u.LongestStreak = u.Streak
	}
}

// HasAchievement reports whether id is in the unlocked set.
func (u *UserProfile) HasAchievement(id string) bool {
	for _, a := range u.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices or pointers with u.
func (u UserProfile) Clone() UserProfile {
	out := u
	if u.LastStudyDate != nil {
		t := *u.LastStudyDate
		out.LastStudyDate = &t
	}
	out.Achievements = append([]string{}, u.Achievements...)
	return out
}
