package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/nihongo/internal/entity"
)

func TestLoadEmbeddedData(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	hiragana := c.Filter(entity.WritingSystemHiragana, entity.JLPTUnspecified)
	katakana := c.Filter(entity.WritingSystemKatakana, entity.JLPTUnspecified)
	assert.Len(t, hiragana, len(katakana))
	assert.NotEmpty(t, c.Filter(entity.WritingSystemKanji, entity.JLPTN5))
	assert.Empty(t, c.Filter(entity.WritingSystemKanji, entity.JLPTN1))

	a, ok := c.Character("hiragana_a")
	require.True(t, ok)
	assert.Equal(t, "あ", a.Glyph)
	assert.Equal(t, "a", a.Romaji)

	no, ok := c.Character("hiragana_no")
	require.True(t, ok)
	assert.Equal(t, "no", no.Romaji)
}

func TestAchievementCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	achievements := c.Achievements()
	require.Len(t, achievements, 15)
	assert.Equal(t, "ach_001", achievements[0].ID)

	midnight, ok := c.Achievement("ach_014")
	require.True(t, ok)
	assert.Equal(t, entity.TimeOfDayCondition{FromHour: 0, ToHour: 1}, midnight.Condition)

	early, ok := c.Achievement("ach_015")
	require.True(t, ok)
	assert.Equal(t, entity.TimeOfDayCondition{FromHour: 0, ToHour: 6}, early.Condition)
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New([]entity.Character{{ID: "x"}, {ID: "x"}}, nil)
	assert.Error(t, err)
}
