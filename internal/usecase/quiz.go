package usecase

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/nihongo/internal/entity"
	"github.com/eslsoft/nihongo/internal/srs"
)

const (
	_optionCount = 4
	// questions are drawn at random from this many top-priority characters
	_pickWindow = 3
)

// QuizGenerator builds quiz questions from a character pool. It is not safe for concurrent use.
type QuizGenerator struct {
	rng *rand.Rand
}

// NewQuizGenerator returns a generator drawing from rng; a nil rng is seeded from the clock.
func NewQuizGenerator(rng *rand.Rand) *QuizGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &QuizGenerator{rng: rng}
}

// Next picks one of the highest-priority characters of pool and asks it in mode. The
// character with id previousID is skipped unless it is the only one left.
func (g *QuizGenerator) Next(pool []entity.Character, mode entity.LearningMode, progress entity.ProgressTable, now time.Time, previousID string) (*entity.QuizQuestion, error) {
	if len(pool) == 0 {
		return nil, entity.ErrEmptyCharacterPool
	}
	byID := lo.SliceToMap(pool, func(ch entity.Character) (string, entity.Character) { return ch.ID, ch })
	ids := lo.Uniq(lo.Map(pool, func(ch entity.Character, _ int) string { return ch.ID }))
	ordered := srs.SortByPriority(ids, progress, now)

	if len(ordered) > 1 {
		ordered = lo.Without(ordered, previousID)
	}
	window := lo.Min([]int{_pickWindow, len(ordered)})
	pick := byID[ordered[g.rng.Intn(window)]]
	return g.Question(pick, mode, pool)
}

// Question asks ch in mode. Recognition expects the romaji, writing expects the glyph, and
// production and listening offer the glyph among up to three distractors from pool.
func (g *QuizGenerator) Question(ch entity.Character, mode entity.LearningMode, pool []entity.Character) (*entity.QuizQuestion, error) {
	q := &entity.QuizQuestion{
		ID:        "q_" + uuid.NewString(),
		Character: ch,
		Mode:      mode,
	}
	switch mode {
	case entity.LearningModeRecognition:
		q.CorrectAnswer = ch.Romaji
	case entity.LearningModeWriting:
		q.CorrectAnswer = ch.Glyph
	case entity.LearningModeProduction, entity.LearningModeListening:
		q.CorrectAnswer = ch.Glyph
		q.Options = g.options(ch, pool)
	default:
		return nil, entity.ErrInvalidMode
	}
	return q, nil
}

func (g *QuizGenerator) options(answer entity.Character, pool []entity.Character) []string {
	glyphs := lo.Uniq(lo.FilterMap(pool, func(ch entity.Character, _ int) (string, bool) {
		return ch.Glyph, ch.ID != answer.ID && ch.Glyph != answer.Glyph
	}))
	g.rng.Shuffle(len(glyphs), func(i, j int) { glyphs[i], glyphs[j] = glyphs[j], glyphs[i] })
	if len(glyphs) > _optionCount-1 {
		glyphs = glyphs[:_optionCount-1]
	}
	options := append([]string{answer.Glyph}, glyphs...)
	g.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options
}
