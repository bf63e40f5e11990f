// Package wordfilter is the content filter applied after labeling. It
// classifies each labeled word as kept or removed and reports every removal
// with the rule that matched, so the export can show what was dropped from
// which tier and why.
package wordfilter

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pbaille/wordtier/internal/domain"
)

// Filtering methods recorded on removals.
const (
	MethodLength    = "length"
	MethodAlpha     = "alphabetic"
	MethodLexicon   = "lexicon"
	MethodBlocklist = "blocklist"
)

// Options configures the filter. Zero-value paths disable the respective
// word-list checks.
type Options struct {
	MinLength     int
	MaxLength     int
	LexiconPath   string
	BlocklistPath string
}

// Filter removes words outside the length window, non-alphabetic words,
// words absent from the lexicon and words on the blocklist.
type Filter struct {
	opts      Options
	lexicon   map[string]bool
	blocklist map[string]bool
}

// New builds a Filter, loading the optional word-list files.
func New(opts Options) (*Filter, error) {
	f := &Filter{opts: opts}

	if opts.LexiconPath != "" {
		set, err := loadWordSet(opts.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		f.lexicon = set
	}
	if opts.BlocklistPath != "" {
		set, err := loadWordSet(opts.BlocklistPath)
		if err != nil {
			return nil, fmt.Errorf("load blocklist: %w", err)
		}
		f.blocklist = set
	}
	return f, nil
}

// Apply partitions the labeled words into kept and removed. The input is
// never modified; kept preserves input order.
func (f *Filter) Apply(words []domain.LabeledWord) ([]domain.LabeledWord, []domain.Removal) {
	kept := make([]domain.LabeledWord, 0, len(words))
	var removals []domain.Removal

	for _, lw := range words {
		if method, reason := f.rejects(lw.Word); method != "" {
			removals = append(removals, domain.Removal{
				Word:   lw.Word,
				Rank:   lw.Rank,
				Reason: reason,
				Method: method,
			})
			continue
		}
		kept = append(kept, lw)
	}
	return kept, removals
}

// rejects returns the first matching rule and its reason, or "" to keep.
// Blocklist wins over every other rule so an inappropriate word is always
// reported as such.
func (f *Filter) rejects(word string) (method, reason string) {
	upper := strings.ToUpper(word)

	if f.blocklist[upper] {
		return MethodBlocklist, "word is on the blocklist"
	}
	if !isAlphabetic(upper) {
		return MethodAlpha, "word contains non-alphabetic characters"
	}
	if len(upper) < f.opts.MinLength || len(upper) > f.opts.MaxLength {
		return MethodLength, fmt.Sprintf("length %d outside [%d, %d]",
			len(upper), f.opts.MinLength, f.opts.MaxLength)
	}
	if f.lexicon != nil && !f.lexicon[upper] {
		return MethodLexicon, "word not found in lexicon"
	}
	return "", ""
}

func isAlphabetic(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// loadWordSet reads one uppercase word per line, skipping blanks and
// #-comments.
func loadWordSet(path string) (map[string]bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	set := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		set[strings.ToUpper(word)] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return set, nil
}
