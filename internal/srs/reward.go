package srs

import "math"

// XPForCorrectAnswer returns the base XP of an answer; incorrect answers earn nothing.
func XPForCorrectAnswer(masteryLevel int, responseTimeMs int64, isCorrect bool) int {
	if !isCorrect {
		return 0
	}
	base := float64(10 + masteryLevel*5)

	multiplier := 1.0
	switch {
	case responseTimeMs < 2000:
		multiplier = 1.5
	case responseTimeMs < 5000:
		multiplier = 1.2
	case responseTimeMs > 15000:
		multiplier = 0.8
	}
	return int(math.Floor(base * multiplier))
}

// ComboMultiplier returns the XP multiplier for a run of consecutive correct answers.
func ComboMultiplier(comboCount int) float64 {
	switch {
	case comboCount < 5:
		return 1.0
	case comboCount < 10:
		return 1.5
	case comboCount < 20:
		return 2.0
	case comboCount < 50:
		return 2.5
	default:
		return 3.0
	}
}

// ApplyCombo scales base XP by the combo multiplier, rounding down.
func ApplyCombo(baseXP, comboCount int) int {
	return int(math.Floor(float64(baseXP) * ComboMultiplier(comboCount)))
}

// LevelInfo is the account level derived from lifetime XP.
type LevelInfo struct {
	Level         int
	XPToNextLevel int
}

// LevelThreshold is the lifetime XP at which an account leaves the given level.
func LevelThreshold(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

// LevelFromTotalXP derives the level from lifetime XP only, so any sequence of awards
// summing to the same total yields the same result.
func LevelFromTotalXP(totalXP int) LevelInfo {
	level := 1
	threshold := LevelThreshold(level)
	for totalXP >= threshold {
		level++
		threshold = LevelThreshold(level)
	}
	return LevelInfo{Level: level, XPToNextLevel: threshold - totalXP}
}

// XPIntoLevel returns how much lifetime XP has been earned since reaching the current level.
func XPIntoLevel(totalXP int) int {
	info := LevelFromTotalXP(totalXP)
	if info.Level == 1 {
		return totalXP
	}
	return totalXP - LevelThreshold(info.Level-1)
}
