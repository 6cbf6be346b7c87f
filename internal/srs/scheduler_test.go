package srs

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/nihongo/internal/entity"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestApplyResultNewCharacterIncorrectThenThreeCorrect(t *testing.T) {
	p := entity.NewCharacterProgress("hira_a", fixedNow)

	p = ApplyResult(p, false, 3000, fixedNow)
	assert.Equal(t, 0, p.MasteryLevel)
	assert.InDelta(t, 2.3, p.EaseFactor, 1e-9)
	assert.Equal(t, 0, p.SuccessStreak)
	require.Len(t, p.FailureHistory, 1)
	assert.True(t, p.FailureHistory[0].Equal(fixedNow))

	p = ApplyResult(p, true, 3000, fixedNow)
	assert.Equal(t, 0, p.MasteryLevel)
	p = ApplyResult(p, true, 3000, fixedNow)
	assert.Equal(t, 0, p.MasteryLevel)
	assert.InDelta(t, 2.5, p.EaseFactor, 1e-9)

	p = ApplyResult(p, true, 3000, fixedNow)
	assert.Equal(t, 1, p.MasteryLevel)
	assert.Equal(t, 3, p.SuccessStreak)
	assert.Equal(t, 2.5, p.EaseFactor)
	assert.Equal(t, 4, p.TimesReviewed)
	assert.Equal(t, 3, p.CorrectCount)
	assert.Equal(t, 1, p.IncorrectCount)
	assert.InDelta(t, 75.0, p.Accuracy, 1e-9)
}

func TestApplyResultKeepsLevellingWhileStreakHolds(t *testing.T) {
	p := entity.NewCharacterProgress("hira_ka", fixedNow)
	levels := make([]int, 0, 8)
	for i := 0; i < 8; i++ {
		p = ApplyResult(p, true, 1000, fixedNow)
		levels = append(levels, p.MasteryLevel)
	}
	assert.Equal(t, []int{0, 0, 1, 2, 3, 4, 5, 5}, levels)
	assert.Equal(t, 8, p.SuccessStreak)
}

func TestApplyResultLevelOneNeverDropsToZero(t *testing.T) {
	p := entity.NewCharacterProgress("hira_sa", fixedNow)
	p.MasteryLevel = 1
	p = ApplyResult(p, false, 1000, fixedNow)
	assert.Equal(t, 1, p.MasteryLevel)

	p.MasteryLevel = 3
	p = ApplyResult(p, false, 1000, fixedNow)
	assert.Equal(t, 2, p.MasteryLevel)
}

func TestApplyResultDoesNotMutateInput(t *testing.T) {
	p := entity.NewCharacterProgress("hira_ta", fixedNow)
	p.FailureHistory = make([]time.Time, 0, 4)
	_ = ApplyResult(p, false, 1000, fixedNow)
	assert.Empty(t, p.FailureHistory)
	assert.Equal(t, 0, p.TimesReviewed)
}

func TestApplyResultAverageResponseTime(t *testing.T) {
	p := entity.NewCharacterProgress("hira_na", fixedNow)
	p = ApplyResult(p, true, 1000, fixedNow)
	p = ApplyResult(p, true, 2000, fixedNow)
	p = ApplyResult(p, false, 6000, fixedNow)
	assert.InDelta(t, 3000.0, p.AverageResponseTime, 1e-9)
}

func TestApplyResultInvariantsUnderRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 50; run++ {
		p := entity.NewCharacterProgress("k", fixedNow)
		// Adversarial starting point outside the invariant ranges.
		p.MasteryLevel = rng.Intn(20) - 10
		p.EaseFactor = rng.Float64()*10 - 5
		for i := 0; i < 200; i++ {
			p = ApplyResult(p, rng.Intn(3) > 0, int64(rng.Intn(20000)), fixedNow)
			require.GreaterOrEqual(t, p.MasteryLevel, 0)
			require.LessOrEqual(t, p.MasteryLevel, 5)
			require.GreaterOrEqual(t, p.EaseFactor, 1.3)
			require.LessOrEqual(t, p.EaseFactor, 2.5)
			require.Equal(t, p.TimesReviewed, p.CorrectCount+p.IncorrectCount)
		}
	}
}

func TestApplyResultRepeatedFailuresFloorEase(t *testing.T) {
	p := entity.NewCharacterProgress("k", fixedNow)
	for i := 0; i < 20; i++ {
		p = ApplyResult(p, false, 1000, fixedNow)
	}
	assert.Equal(t, 1.3, p.EaseFactor)
	assert.Equal(t, 0, p.MasteryLevel)
	assert.Len(t, p.FailureHistory, 20)
}

func TestNextReview(t *testing.T) {
	cases := []struct {
		name    string
		mastery int
		ease    float64
		days    int
	}{
		{"new is immediate", 0, 2.5, 0},
		{"learning", 1, 2.5, 3},
		{"familiar low ease", 2, 1.3, 4},
		{"known", 3, 2.0, 14},
		{"burned", 5, 2.5, 75},
		{"clamped above table", 9, 1.0, 30},
		{"clamped below table", -2, 2.5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextReview(tc.mastery, tc.ease, fixedNow)
			assert.Equal(t, fixedNow.AddDate(0, 0, tc.days), got)
		})
	}
}

func TestIsDue(t *testing.T) {
	p := entity.CharacterProgress{CharacterID: "never"}
	assert.True(t, IsDue(p, fixedNow))

	burned := entity.NewCharacterProgress("burned", fixedNow)
	burned.MasteryLevel = 5
	burned.EaseFactor = 2.4
	burned.SuccessStreak = 3
	burned = ApplyResult(burned, true, 1000, fixedNow)
	require.Equal(t, 5, burned.MasteryLevel)
	require.Equal(t, 2.5, burned.EaseFactor)

	assert.Equal(t, fixedNow.AddDate(0, 0, 75), *burned.NextReviewAt)
	assert.False(t, IsDue(burned, fixedNow.AddDate(0, 0, 74)))
	assert.False(t, IsDue(burned, fixedNow.AddDate(0, 0, 75).Add(-time.Second)))
	assert.True(t, IsDue(burned, fixedNow.AddDate(0, 0, 75)))
}

func TestDueCharacters(t *testing.T) {
	later := fixedNow.Add(time.Hour)
	earlier := fixedNow.Add(-time.Hour)
	table := entity.ProgressTable{
		"a": {CharacterID: "a", NextReviewAt: &later},
		"b": {CharacterID: "b", NextReviewAt: &earlier},
	}
	got := DueCharacters(table, []string{"a", "b", "c"}, fixedNow)
	assert.Equal(t, []string{"b", "c"}, got)
}
