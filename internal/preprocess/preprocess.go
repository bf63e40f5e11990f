// Package preprocess turns a raw vocabulary CSV into clean WordRecords:
// case normalization, validity filtering, lemmatization and duplicate
// resolution happen here, before the clustering core ever sees a word.
package preprocess

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pbaille/wordtier/internal/domain"
)

// ErrEmptyInput indicates the vocabulary file contained no usable rows.
var ErrEmptyInput = errors.New("preprocess: no valid words in input")

// validWord matches uppercase alphabetic words of at least two letters.
var validWord = regexp.MustCompile(`^[A-Z]{2,}$`)

// Options controls preprocessing.
type Options struct {
	// TutorialWords are dropped outright (already uppercase).
	TutorialWords []string
}

// LoadCSV reads a "word,frequency" CSV. A header row is skipped when its
// second column does not parse as a number.
func LoadCSV(path string) ([]domain.WordRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}

	var records []domain.WordRecord
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("row %d: expected word,frequency, got %d fields", i+1, len(row))
		}
		freq, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("row %d: bad frequency %q: %w", i+1, row[1], err)
		}
		records = append(records, domain.WordRecord{
			Word:           strings.TrimSpace(row[0]),
			SubmissionFreq: freq,
		})
	}
	return records, nil
}

// Clean normalizes, validates, lemmatizes and deduplicates raw records.
// Duplicate lemmas are merged by summing their submission frequencies.
// Output order is deterministic: first appearance of each lemma.
func Clean(records []domain.WordRecord, opts Options) ([]domain.WordRecord, error) {
	tutorial := make(map[string]bool, len(opts.TutorialWords))
	for _, w := range opts.TutorialWords {
		tutorial[strings.ToUpper(w)] = true
	}

	index := make(map[string]int)
	var cleaned []domain.WordRecord

	for _, rec := range records {
		word := strings.ToUpper(strings.TrimSpace(rec.Word))
		if tutorial[word] || !validWord.MatchString(word) {
			continue
		}

		lemma := Lemmatize(word)
		if at, ok := index[lemma]; ok {
			cleaned[at].SubmissionFreq += rec.SubmissionFreq
			continue
		}

		index[lemma] = len(cleaned)
		cleaned = append(cleaned, domain.WordRecord{
			Word:           word,
			Lemma:          lemma,
			SubmissionFreq: rec.SubmissionFreq,
		})
	}

	if len(cleaned) == 0 {
		return nil, ErrEmptyInput
	}
	return cleaned, nil
}
