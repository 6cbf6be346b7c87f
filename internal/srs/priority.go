package srs

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/nihongo/internal/entity"
)

// PriorityScore ranks how urgently a record should be reviewed; higher is more urgent.
func PriorityScore(p entity.CharacterProgress, now time.Time) float64 {
	overdueDays := 0.0
	if p.NextReviewAt != nil {
		overdueDays = math.Max(0, now.Sub(*p.NextReviewAt).Hours()/24)
	}

	score := overdueDays * 10
	score += float64(entity.MasteryBurned-clampMastery(p.MasteryLevel)) * 5
	switch {
	case p.Accuracy < 70:
		score += 10
	case p.Accuracy < 85:
		score += 5
	}
	return score
}

// SortByPriority returns ids ordered for study: characters without a record first, in input
// order, then the rest by descending PriorityScore. Ties keep input order.
func SortByPriority(ids []string, progress entity.ProgressTable, now time.Time) []string {
	type ranked struct {
		id    string
		isNew bool
		score float64
	}
	items := lo.Map(ids, func(id string, _ int) ranked {
		p, ok := progress[id]
		if !ok {
			return ranked{id: id, isNew: true}
		}
		return ranked{id: id, score: PriorityScore(p, now)}
	})

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.isNew || b.isNew {
			return a.isNew && !b.isNew
		}
		return a.score > b.score
	})

	return lo.Map(items, func(r ranked, _ int) string { return r.id })
}
