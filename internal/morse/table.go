// Package morse implements the morse code engine: dot/dash timing
// classification, letter and word grouping, and text/morse translation.
package morse

import (
	"fmt"
	"sort"
)

// Symbol is a single dot or dash.
type Symbol int

// Symbols.
const (
	Dot Symbol = iota
	Dash
)

// String returns "." or "-".
func (s Symbol) String() string {
	if s == Dash {
		return "-"
	}
	return "."
}

// Placeholder is emitted for unknown sequences and characters.
const Placeholder = '?'

// WordSeparator is the token emitted for a space when encoding.
const WordSeparator = "/"

const maxCodeLen = 5

// Entry is one row of a Table.
type Entry struct {
	Char rune
	Code string
}

// Table maps morse strings to letters/digits and back. It is immutable.
type Table struct {
	byCode map[string]rune
	byChar map[rune]string
}

var defaultEntries = []Entry{
	{'A', ".-"}, {'B', "-..."}, {'C', "-.-."}, {'D', "-.."},
	{'E', "."}, {'F', "..-."}, {'G', "--."}, {'H', "...."},
	{'I', ".."}, {'J', ".---"}, {'K', "-.-"}, {'L', ".-.."},
	{'M', "--"}, {'N', "-."}, {'O', "---"}, {'P', ".--."},
	{'Q', "--.-"}, {'R', ".-."}, {'S', "..."}, {'T', "-"},
	{'U', "..-"}, {'V', "...-"}, {'W', ".--"}, {'X', "-..-"},
	{'Y', "-.--"}, {'Z', "--.."},
	{'0', "-----"}, {'1', ".----"}, {'2', "..---"}, {'3', "...--"},
	{'4', "....-"}, {'5', "....."}, {'6', "-...."}, {'7', "--..."},
	{'8', "---.."}, {'9', "----."},
}

// Default is the A-Z, 0-9 table shared by encoder and decoder.
var Default = mustTable(defaultEntries)

// NewTable builds a table, rejecting malformed or duplicate codes.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{
		byCode: make(map[string]rune, len(entries)),
		byChar: make(map[rune]string, len(entries)),
	}
	for _, e := range entries {
		if len(e.Code) == 0 || len(e.Code) > maxCodeLen {
			return nil, fmt.Errorf("code %q for %q: length must be 1-%d", e.Code, e.Char, maxCodeLen)
		}
		for i := 0; i < len(e.Code); i++ {
			if e.Code[i] != '.' && e.Code[i] != '-' {
				return nil, fmt.Errorf("code %q for %q: only '.' and '-' allowed", e.Code, e.Char)
			}
		}
		if prev, ok := t.byCode[e.Code]; ok {
			return nil, fmt.Errorf("code %q shared by %q and %q", e.Code, prev, e.Char)
		}
		if _, ok := t.byChar[e.Char]; ok {
			return nil, fmt.Errorf("duplicate entry for %q", e.Char)
		}
		t.byCode[e.Code] = e.Char
		t.byChar[e.Char] = e.Code
	}
	return t, nil
}

func mustTable(entries []Entry) *Table {
	t, err := NewTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Letter looks up a full morse string.
func (t *Table) Letter(code string) (rune, bool) {
	r, ok := t.byCode[code]
	return r, ok
}

// Code looks up the morse string for an uppercase letter or digit.
func (t *Table) Code(r rune) (string, bool) {
	c, ok := t.byChar[r]
	return c, ok
}

// Entries returns all rows ordered by character.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.byChar))
	for r, c := range t.byChar {
		out = append(out, Entry{Char: r, Code: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Char < out[j].Char })
	return out
}
