package srs

import (
	"math"
	"time"

	"github.com/eslsoft/nihongo/internal/entity"
)

// masteryIntervals holds the base review interval in days for each mastery level.
var masteryIntervals = [...]int{0, 1, 3, 7, 14, 30}

const (
	easeStepCorrect   = 0.1
	easeStepIncorrect = 0.2
	levelUpStreak     = 3
)

// BaseInterval returns the base interval in days for a mastery level, clamped to the table.
func BaseInterval(masteryLevel int) int {
	return masteryIntervals[clampMastery(masteryLevel)]
}

// NextReview returns when a character at the given mastery and ease should be reviewed again.
func NextReview(masteryLevel int, easeFactor float64, now time.Time) time.Time {
	days := int(math.Ceil(float64(BaseInterval(masteryLevel)) * easeFactor))
	return now.AddDate(0, 0, days)
}

// IsDue reports whether the record should be reviewed at now.
func IsDue(p entity.CharacterProgress, now time.Time) bool {
	if p.NextReviewAt == nil {
		return true
	}
	return !now.Before(*p.NextReviewAt)
}

// DueCharacters keeps the ids that have no record or whose record is due, preserving order.
func DueCharacters(progress entity.ProgressTable, ids []string, now time.Time) []string {
	due := make([]string, 0, len(ids))
	for _, id := range ids {
		p, ok := progress[id]
		if !ok || IsDue(p, now) {
			due = append(due, id)
		}
	}
	return due
}

// ApplyResult returns the record after one answer. The input is not modified.
//
// A correct answer raises ease and, once three answers in a row are correct, raises mastery
// on every further correct answer until Burned; the streak is not reset by the level-up.
// An incorrect answer resets the streak, lowers ease and drops mastery by one, except that
// level 1 never drops to 0.
func ApplyResult(p entity.CharacterProgress, isCorrect bool, responseTimeMs int64, now time.Time) entity.CharacterProgress {
	next := p.Clone()
	next.MasteryLevel = clampMastery(next.MasteryLevel)
	next.EaseFactor = clampEase(next.EaseFactor)
	if next.CorrectCount < 0 {
		next.CorrectCount = 0
	}
	if next.IncorrectCount < 0 {
		next.IncorrectCount = 0
	}
	next.TimesReviewed = next.CorrectCount + next.IncorrectCount

	next.TimesReviewed++
	if isCorrect {
		next.CorrectCount++
		next.SuccessStreak++
		next.EaseFactor = clampEase(next.EaseFactor + easeStepCorrect)
		if next.SuccessStreak >= levelUpStreak && next.MasteryLevel < entity.MasteryBurned {
			next.MasteryLevel++
		}
	} else {
		next.IncorrectCount++
		next.SuccessStreak = 0
		next.FailureHistory = append(next.FailureHistory, now)
		next.EaseFactor = clampEase(next.EaseFactor - easeStepIncorrect)
		if next.MasteryLevel > entity.MasteryLearning {
			next.MasteryLevel--
		}
	}

	n := float64(next.TimesReviewed)
	next.Accuracy = float64(next.CorrectCount) / n * 100
	next.AverageResponseTime = (next.AverageResponseTime*(n-1) + float64(responseTimeMs)) / n

	reviewed := now
	next.LastReviewedAt = &reviewed
	due := NextReview(next.MasteryLevel, next.EaseFactor, now)
	next.NextReviewAt = &due
	return next
}

func clampMastery(level int) int {
	switch {
	case level < entity.MasteryNew:
		return entity.MasteryNew
	case level > entity.MasteryBurned:
		return entity.MasteryBurned
	default:
		return level
	}
}

// clampEase bounds the ease factor and rounds away the binary drift of repeated 0.1 steps,
// so that ceil(base*ease) is not pushed over an integer by noise.
func clampEase(ease float64) float64 {
	if math.IsNaN(ease) {
		return entity.InitialEaseFactor
	}
	ease = math.Round(ease*100) / 100
	return math.Min(math.Max(ease, entity.MinEaseFactor), entity.MaxEaseFactor)
}
