// Package frequency supplies real-world word frequencies to the pipeline.
// The lookup is a collaborator of the feature builder: it either returns a
// frequency or an explicit not-found, and the feature builder decides what
// the fallback means.
package frequency

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pbaille/wordtier/internal/domain"
)

// Lookup resolves the real-world frequency of a normalized word.
// The boolean is false when the word is unknown to the source.
type Lookup interface {
	Frequency(word string) (float64, bool)
}

// Table is a file-backed frequency dictionary.
type Table struct {
	freqs map[string]float64
}

// LoadTable reads a frequency table: one "WORD frequency" entry per line,
// whitespace separated. Blank lines and #-comments are skipped.
func LoadTable(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frequency table: %w", err)
	}
	defer file.Close()

	freqs := make(map[string]float64)
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("frequency table line %d: expected \"word freq\", got %q", line, text)
		}
		freq, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("frequency table line %d: %w", line, err)
		}
		freqs[strings.ToUpper(fields[0])] = freq
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read frequency table: %w", err)
	}

	return &Table{freqs: freqs}, nil
}

// Frequency implements Lookup.
func (t *Table) Frequency(word string) (float64, bool) {
	f, ok := t.freqs[strings.ToUpper(word)]
	return f, ok
}

// Len returns the number of entries in the table.
func (t *Table) Len() int { return len(t.freqs) }

// Static is an in-memory Lookup, mainly for tests and small vocabularies.
type Static map[string]float64

// Frequency implements Lookup.
func (s Static) Frequency(word string) (float64, bool) {
	f, ok := s[strings.ToUpper(word)]
	return f, ok
}

// Annotate returns copies of the records with RealFreq and RealFreqKnown
// filled from the lookup, keyed by lemma. The input slice is not modified;
// downstream stages only ever see annotated copies.
func Annotate(lookup Lookup, records []domain.WordRecord) []domain.WordRecord {
	out := make([]domain.WordRecord, len(records))
	for i, rec := range records {
		out[i] = rec
		if f, ok := lookup.Frequency(rec.Lemma); ok {
			out[i].RealFreq = f
			out[i].RealFreqKnown = true
		}
	}
	return out
}
