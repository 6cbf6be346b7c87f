package entity

import "time"

// StudySession records one learning session.
type StudySession struct {
	ID                string        `json:"id"`
	StartTime         time.Time     `json:"startTime"`
	EndTime           *time.Time    `json:"endTime"`
	Duration          int           `json:"duration"` // minutes
	QuestionsAnswered int           `json:"questionsAnswered"`
	CorrectAnswers    int           `json:"correctAnswers"`
	XPEarned          int           `json:"xpEarned"`
	Mode              LearningMode  `json:"mode"`
	WritingSystem     WritingSystem `json:"writingSystem"`
	JLPTLevel         JLPTLevel     `json:"jlptLevel,omitempty"`
}

// Active reports whether the session has not been closed yet.
func (s *StudySession) Active() bool { return s.EndTime == nil }

// Accuracy returns the percentage of correct answers, or 0 when nothing was answered.
func (s *StudySession) Accuracy() float64 {
	if s.QuestionsAnswered == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.QuestionsAnswered) * 100
}

// Close freezes the session at end.
func (s *StudySession) Close(end time.Time) {
	s.EndTime = &end
	s.Duration = int(end.Sub(s.StartTime) / time.Minute)
	if s.Duration < 0 {
		s.Duration = 0
	}
}

// Clone returns a copy that does not share the EndTime pointer.
func (s StudySession) Clone() StudySession {
	out := s
	if s.EndTime != nil {
		t := *s.EndTime
		out.EndTime = &t
	}
	return out
}
