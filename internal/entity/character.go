package entity

// Character is one entry of the static study dataset.
type Character struct {
	ID          string        `json:"id" yaml:"id"`
	Glyph       string        `json:"character" yaml:"character"`
	Romaji      string        `json:"romaji" yaml:"romaji"`
	Type        WritingSystem `json:"type" yaml:"type"`
	Category    string        `json:"category,omitempty" yaml:"category,omitempty"`
	Meanings    []string      `json:"meanings,omitempty" yaml:"meanings,omitempty"`
	KunReadings []string      `json:"kunReading,omitempty" yaml:"kun,omitempty"`
	OnReadings  []string      `json:"onReading,omitempty" yaml:"on,omitempty"`
	Strokes     int           `json:"strokes,omitempty" yaml:"strokes,omitempty"`
	JLPTLevel   JLPTLevel     `json:"jlptLevel,omitempty" yaml:"jlpt,omitempty"`
}

// QuizQuestion is an ephemeral question of a running session.
type QuizQuestion struct {
	ID            string       `json:"id"`
	Character     Character    `json:"character"`
	Mode          LearningMode `json:"mode"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer"`
	UserAnswer    string       `json:"userAnswer,omitempty"`
	IsCorrect     *bool        `json:"isCorrect,omitempty"`
	ResponseTime  int64        `json:"responseTime,omitempty"` // milliseconds
}

// Answered reports whether the question has been graded.
func (q *QuizQuestion) Answered() bool { return q.IsCorrect != nil }
