package moderation

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator masks censored words in outbound message bodies. Matching is
// case-insensitive, ignores punctuation and whitespace inside a word, and
// folds common Leet speak substitutions, so "b.a-d" and "b4d" both match
// "bad"; the original spacing and punctuation are preserved in the masked
// output.
type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
	log         *slog.Logger
}

// NewModerator builds the Aho-Corasick automaton from a word list. Words
// that normalize to nothing are dropped; an empty list is an error, callers
// should leave the moderator nil to disable filtering.
func NewModerator(words []string, replacement rune, log *slog.Logger) (*Moderator, error) {
	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		norm, _ := normalize(w)
		if len(norm) == 0 {
			continue
		}
		patterns = append(patterns, norm)
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no usable censored words")
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, replacement: replacement, log: log}, nil
}

// FromFile loads one censored word per line, ignoring blank lines and
// lines starting with '#'.
func FromFile(path string, replacement rune, log *slog.Logger) (*Moderator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening censored words file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewModerator(words, replacement, log)
}

// Censor replaces every matched span with the replacement rune. The
// returned string has the same length in runes as the input.
func (m *Moderator) Censor(text string) string {
	norm, origIdx := normalize(text)
	if len(norm) == 0 {
		return text
	}

	spans := m.matcher.MultiPatternSearch(norm, false)
	if len(spans) == 0 {
		return text
	}

	out := []rune(text)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			out[i] = m.replacement
		}
	}
	return string(out)
}

// normalize folds Leet speak, lowercases the input, and strips characters
// that never carry meaning for matching, keeping a mapping back to original
// rune positions.
func normalize(s string) ([]rune, []int) {
	runes := []rune(s)
	norm := make([]rune, 0, len(runes))
	idx := make([]int, 0, len(runes))
	for i, r := range runes {
		r = simplifyRune(r)
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		norm = append(norm, unicode.ToLower(r))
		idx = append(idx, i)
	}
	return norm, idx
}

// simplifyRune maps common Leet speak characters back to their standard
// alphabet counterparts.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}
