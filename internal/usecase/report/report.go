package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/eslsoft/nihongo/internal/entity"
	"github.com/eslsoft/nihongo/internal/usecase"
)

// Sheet names of the study report workbook.
const (
	SheetProfile  = "Profile"
	SheetDaily    = "Daily"
	SheetProgress = "Progress"
	SheetSessions = "Sessions"
)

const timeLayout = "2006-01-02 15:04"

// StateSource exposes the study state snapshot rendered into the report.
type StateSource interface {
	State() usecase.StudyState
}

// Generator renders the study state into an xlsx workbook.
type Generator struct {
	study StateSource
	chars usecase.CharacterLookup
	clock func() time.Time
}

// NewGenerator constructs a report generator.
func NewGenerator(study StateSource, chars usecase.CharacterLookup) *Generator {
	return &Generator{study: study, chars: chars, clock: time.Now}
}

// Write renders the workbook to w.
func (g *Generator) Write(w io.Writer) error {
	state := g.study.State()
	if state.Profile == nil {
		return entity.ErrProfileNotLoaded
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetProfile); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetDaily, SheetProgress, SheetSessions} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := writeRows(f, SheetProfile, header, profileRows(*state.Profile, len(state.Unlocked), g.clock())); err != nil {
		return err
	}
	if err := writeRows(f, SheetDaily, header, dailyRows(state.DailyStats)); err != nil {
		return err
	}
	if err := writeRows(f, SheetProgress, header, g.progressRows(state.Progress)); err != nil {
		return err
	}
	if err := writeRows(f, SheetSessions, header, sessionRows(state.Sessions)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// writeRows fills sheet from A1 and styles the first row as a header.
func writeRows(f *excelize.File, sheet string, header int, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	if err := f.SetRowStyle(sheet, 1, 1, header); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	last, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 16)
}

func profileRows(p entity.UserProfile, unlocked int, now time.Time) [][]any {
	lastStudy := ""
	if p.LastStudyDate != nil {
		lastStudy = p.LastStudyDate.Format(entity.DateLayout)
	}
	return [][]any{
		{"Field", "Value"},
		{"Name", p.Name},
		{"Level", p.Level},
		{"XP", p.XP},
		{"XP to next level", p.XPToNextLevel},
		{"Total XP", p.TotalXP},
		{"Streak", p.Streak},
		{"Longest streak", p.LongestStreak},
		{"Last study date", lastStudy},
		{"Total study time (min)", p.TotalStudyTime},
		{"Achievements", unlocked},
		{"Generated at", now.Format(timeLayout)},
	}
}

func dailyRows(stats []entity.DailyStats) [][]any {
	rows := [][]any{{"Date", "Study time (min)", "XP", "Questions", "Correct", "Accuracy %"}}
	for _, d := range stats {
		rows = append(rows, []any{d.Date, d.StudyTime, d.XPEarned, d.QuestionsAnswered, d.Correct(), round1(d.Accuracy)})
	}
	return rows
}

func (g *Generator) progressRows(progress entity.ProgressTable) [][]any {
	rows := [][]any{{"Character ID", "Character", "Romaji", "Type", "Mastery", "Accuracy %", "Reviews", "Correct", "Incorrect", "Ease", "Avg response (ms)", "Last reviewed", "Next review"}}
	ids := lo.Keys(progress)
	sort.Strings(ids)
	for _, id := range ids {
		p := progress[id]
		ch, _ := g.chars.Character(id)
		rows = append(rows, []any{
			id, ch.Glyph, ch.Romaji, string(ch.Type),
			p.MasteryLevel, round1(p.Accuracy), p.TimesReviewed, p.CorrectCount, p.IncorrectCount,
			p.EaseFactor, round1(p.AverageResponseTime),
			formatTime(p.LastReviewedAt), formatTime(p.NextReviewAt),
		})
	}
	return rows
}

func sessionRows(sessions []entity.StudySession) [][]any {
	rows := [][]any{{"Session ID", "Start", "End", "Duration (min)", "Mode", "Writing system", "Questions", "Correct", "XP"}}
	for _, s := range sessions {
		rows = append(rows, []any{
			s.ID, s.StartTime.Format(timeLayout), formatTime(s.EndTime), s.Duration,
			string(s.Mode), string(s.WritingSystem), s.QuestionsAnswered, s.CorrectAnswers, s.XPEarned,
		})
	}
	return rows
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
