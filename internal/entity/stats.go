package entity

import (
	"math"
	"time"
)

// DateLayout is the key format of DailyStats.
const DateLayout = "2006-01-02"

// DateKey formats t as a calendar date in t's own location.
func DateKey(t time.Time) string { return t.Format(DateLayout) }

// DailyStats aggregates all sessions closed on one calendar date.
type DailyStats struct {
	Date              string  `json:"date"`
	StudyTime         int     `json:"studyTime"`
	XPEarned          int     `json:"xpEarned"`
	QuestionsAnswered int     `json:"questionsAnswered"`
	CorrectAnswers    int     `json:"correctAnswers"`
	Accuracy          float64 `json:"accuracy"`
}

// Correct returns the number of correct answers of the day. Records written without a
// correct count (older exports) are reconstructed from their accuracy.
func (d DailyStats) Correct() int {
	if d.CorrectAnswers > 0 || d.Accuracy == 0 {
		return d.CorrectAnswers
	}
	return int(math.Round(d.Accuracy / 100 * float64(d.QuestionsAnswered)))
}

// Merge folds a closed session into the day and recomputes accuracy from the combined counts.
func (d DailyStats) Merge(s *StudySession) DailyStats {
	correct := d.Correct() + s.CorrectAnswers
	d.StudyTime += s.Duration
	d.XPEarned += s.XPEarned
	d.QuestionsAnswered += s.QuestionsAnswered
	d.CorrectAnswers = correct
	d.Accuracy = 0
	if d.QuestionsAnswered > 0 {
		d.Accuracy = float64(correct) / float64(d.QuestionsAnswered) * 100
	}
	return d
}
