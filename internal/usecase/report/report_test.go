package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eslsoft/nihongo/internal/entity"
	"github.com/eslsoft/nihongo/internal/usecase"
)

type staticState struct{ state usecase.StudyState }

func (s staticState) State() usecase.StudyState { return s.state }

type staticChars map[string]entity.Character

func (c staticChars) Character(id string) (entity.Character, bool) {
	ch, ok := c[id]
	return ch, ok
}

func TestGeneratorWritesWorkbook(t *testing.T) {
	now := time.Date(2025, 5, 2, 20, 0, 0, 0, time.UTC)
	profile := entity.NewUserProfile("u1", "Aiko", now.Add(-48*time.Hour))
	profile.TotalXP = 150
	profile.Level = 2
	profile.XP = 50
	profile.XPToNextLevel = 132

	reviewed := now.Add(-time.Hour)
	progress := entity.ProgressTable{
		"katakana_a": entity.NewCharacterProgress("katakana_a", reviewed),
		"hiragana_a": entity.NewCharacterProgress("hiragana_a", reviewed),
	}
	end := reviewed.Add(12 * time.Minute)
	state := usecase.StudyState{
		Profile:  &profile,
		Progress: progress,
		Sessions: []entity.StudySession{{
			ID: "s1", StartTime: reviewed, EndTime: &end, Duration: 12,
			QuestionsAnswered: 3, CorrectAnswers: 2, XPEarned: 25,
			Mode: entity.LearningModeRecognition, WritingSystem: entity.WritingSystemHiragana,
		}},
		DailyStats: []entity.DailyStats{{Date: "2025-05-02", StudyTime: 12, XPEarned: 25, QuestionsAnswered: 3, CorrectAnswers: 2, Accuracy: 200.0 / 3}},
		Unlocked:   []string{"ach_001"},
	}
	chars := staticChars{
		"hiragana_a": {ID: "hiragana_a", Glyph: "あ", Romaji: "a", Type: entity.WritingSystemHiragana},
		"katakana_a": {ID: "katakana_a", Glyph: "ア", Romaji: "a", Type: entity.WritingSystemKatakana},
	}

	gen := NewGenerator(staticState{state: state}, chars)
	gen.clock = func() time.Time { return now }

	var buf bytes.Buffer
	require.NoError(t, gen.Write(&buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetProfile, SheetDaily, SheetProgress, SheetSessions}, f.GetSheetList())

	profileRows, err := f.GetRows(SheetProfile)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Aiko"}, profileRows[1])
	assert.Equal(t, []string{"Total XP", "150"}, profileRows[5])

	daily, err := f.GetRows(SheetDaily)
	require.NoError(t, err)
	require.Len(t, daily, 2)
	assert.Equal(t, []string{"2025-05-02", "12", "25", "3", "2", "66.7"}, daily[1])

	rows, err := f.GetRows(SheetProgress)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "hiragana_a", rows[1][0])
	assert.Equal(t, "あ", rows[1][1])
	assert.Equal(t, "katakana_a", rows[2][0])

	sessions, err := f.GetRows(SheetSessions)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s1", sessions[1][0])
	assert.Equal(t, "recognition", sessions[1][4])
}

func TestGeneratorRequiresProfile(t *testing.T) {
	gen := NewGenerator(staticState{}, staticChars{})
	err := gen.Write(&bytes.Buffer{})
	assert.ErrorIs(t, err, entity.ErrProfileNotLoaded)
}
