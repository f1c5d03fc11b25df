package stats

import (
	"sort"

	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/morse"
)

// SelectWeakChars selects the lowest-accuracy keyable characters from
// aggregates. Characters missing from the morse table are ignored.
func SelectWeakChars(aggs []model.CharAggregate, top int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	candidates := make([]model.CharAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if _, ok := keyable(agg.Char); ok {
			candidates = append(candidates, agg)
		}
	}
	if len(candidates) == 0 {
		return weakSet
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai := accuracy(candidates[i])
		aj := accuracy(candidates[j])
		if ai == aj {
			return candidates[i].Char < candidates[j].Char
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, c := range candidates[:top] {
		r, _ := keyable(c.Char)
		weakSet[r] = struct{}{}
	}
	return weakSet
}

func keyable(char string) (rune, bool) {
	runes := []rune(char)
	if len(runes) != 1 {
		return 0, false
	}
	_, ok := morse.Default.Code(runes[0])
	return runes[0], ok
}

func accuracy(agg model.CharAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
