package wordlist

import "github.com/verte-zerg/tuimorse/internal/morse"

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterKeyable keeps words made only of characters in the morse table.
func FilterKeyable(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if _, ok := morse.Default.Code(r); !ok {
			return false
		}
	}
	return true
}
