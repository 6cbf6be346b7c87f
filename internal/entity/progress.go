package entity

import "time"

// Mastery levels, from a never-seen character to a burned one.
const (
	MasteryNew      = 0
	MasteryLearning = 1
	MasteryFamiliar = 2
	MasteryKnown    = 3
	MasteryMastered = 4
	MasteryBurned   = 5
)

// Ease factor bounds.
const (
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 2.5
	InitialEaseFactor = MaxEaseFactor
)

// CharacterProgress is the learner's mastery record for one character.
type CharacterProgress struct {
	CharacterID         string      `json:"characterId"`
	MasteryLevel        int         `json:"masteryLevel"`
	Accuracy            float64     `json:"accuracy"`
	TimesReviewed       int         `json:"timesReviewed"`
	CorrectCount        int         `json:"correctCount"`
	IncorrectCount      int         `json:"incorrectCount"`
	AverageResponseTime float64     `json:"averageResponseTime"`
	LastReviewedAt      *time.Time  `json:"lastReviewedAt"`
	NextReviewAt        *time.Time  `json:"nextReviewAt"`
	SuccessStreak       int         `json:"successStreak"`
	FailureHistory      []time.Time `json:"failureHistory"`
	EaseFactor          float64     `json:"easeFactor"`
}

// NewCharacterProgress returns the record created on the first answer to a character.
func NewCharacterProgress(characterID string, now time.Time) CharacterProgress {
	next := now
	return CharacterProgress{
		CharacterID:    characterID,
		MasteryLevel:   MasteryNew,
		NextReviewAt:   &next,
		FailureHistory: []time.Time{},
		EaseFactor:     InitialEaseFactor,
	}
}

// Clone returns a deep copy that shares no slices or pointers with p.
func (p CharacterProgress) Clone() CharacterProgress {
	out := p
	if p.LastReviewedAt != nil {
		t := *p.LastReviewedAt
		out.LastReviewedAt = &t
	}
	if p.NextReviewAt != nil {
		t := *p.NextReviewAt
		out.NextReviewAt = &t
	}
	out.FailureHistory = append([]time.Time{}, p.FailureHistory...)
	return out
}

// IsBurned reports whether the character reached the top mastery level.
func (p CharacterProgress) IsBurned() bool { return p.MasteryLevel >= MasteryBurned }

// IsLearning reports whether the character is past New but not yet Burned.
func (p CharacterProgress) IsLearning() bool {
	return p.MasteryLevel > MasteryNew && p.MasteryLevel < MasteryBurned
}

// ProgressTable maps character ids to their progress records.
type ProgressTable map[string]CharacterProgress

// Clone deep-copies the table.
func (t ProgressTable) Clone() ProgressTable {
	out := make(ProgressTable, len(t))
	for id, p := range t {
		out[id] = p.Clone()
	}
	return out
}
