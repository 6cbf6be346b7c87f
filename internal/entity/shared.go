package entity

import "strings"

// WritingSystem identifies the script a character belongs to.
type WritingSystem string

const (
	WritingSystemUnspecified WritingSystem = ""
	WritingSystemHiragana    WritingSystem = "hiragana"
	WritingSystemKatakana    WritingSystem = "katakana"
	WritingSystemKanji       WritingSystem = "kanji"
)

// ParseWritingSystem converts an arbitrary string into a supported WritingSystem value.
func ParseWritingSystem(code string) WritingSystem {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "hiragana":
		return WritingSystemHiragana
	case "katakana":
		return WritingSystemKatakana
	case "kanji":
		return WritingSystemKanji
	default:
		return WritingSystemUnspecified
	}
}

// LearningMode describes how a question is asked.
type LearningMode string

const (
	LearningModeUnspecified LearningMode = ""
	LearningModeRecognition LearningMode = "recognition"
	LearningModeProduction  LearningMode = "production"
	LearningModeWriting     LearningMode = "writing"
	LearningModeListening   LearningMode = "listening"
)

// ParseLearningMode converts an arbitrary string into a supported LearningMode value.
func ParseLearningMode(code string) LearningMode {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "recognition":
		return LearningModeRecognition
	case "production":
		return LearningModeProduction
	case "writing":
		return LearningModeWriting
	case "listening":
		return LearningModeListening
	default:
		return LearningModeUnspecified
	}
}

// JLPTLevel is a Japanese-Language Proficiency Test band, N5 (easiest) to N1.
type JLPTLevel string

const (
	JLPTUnspecified JLPTLevel = ""
	JLPTN5          JLPTLevel = "N5"
	JLPTN4          JLPTLevel = "N4"
	JLPTN3          JLPTLevel = "N3"
	JLPTN2          JLPTLevel = "N2"
	JLPTN1          JLPTLevel = "N1"
)

// ParseJLPTLevel accepts "N5", "n5" or "5".
func ParseJLPTLevel(code string) JLPTLevel {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c != "" && !strings.HasPrefix(c, "N") {
		c = "N" + c
	}
	switch JLPTLevel(c) {
	case JLPTN5, JLPTN4, JLPTN3, JLPTN2, JLPTN1:
		return JLPTLevel(c)
	default:
		return JLPTUnspecified
	}
}

// NormalizeAnswer lowercases and trims an answer for comparison.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
