package generator

import "testing"

func TestGenerateCount(t *testing.T) {
	g := NewWithSeed(1)
	words := g.Generate([]string{"CQ", "DE", "K"}, 5)
	if len(words) != 5 {
		t.Fatalf("expected 5 words, got %d", len(words))
	}
}

func TestGenerateWeightedFavorsWeakChars(t *testing.T) {
	g := NewWithSeed(7)
	weak := map[rune]struct{}{'Q': {}}
	words := g.GenerateWeighted([]string{"EE", "QQQQ"}, 400, weak, 10)
	q := 0
	for _, w := range words {
		if w == "QQQQ" {
			q++
		}
	}
	// QQQQ carries weight 41 against 1.
	if q < 300 {
		t.Fatalf("expected weak word to dominate, got %d/400", q)
	}
}
