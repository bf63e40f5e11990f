package features

import (
	"strings"

	"github.com/pbaille/wordtier/internal/domain"
)

// Spelling sub-indicators, oriented so higher always means easier.
// Binary difficulty signals (a repeated character) are inverted.

func noRepeatedLetter(word string) float64 {
	seen := make(map[rune]bool, len(word))
	for _, r := range word {
		if seen[r] {
			return 0
		}
		seen[r] = true
	}
	return 1
}

func vowelCount(word string) float64 {
	n := 0.0
	for _, r := range word {
		if strings.ContainsRune("AEIOU", r) {
			n++
		}
	}
	return n
}

func consonantCount(word string) float64 {
	n := 0.0
	for _, r := range word {
		if r >= 'A' && r <= 'Z' && !strings.ContainsRune("AEIOU", r) {
			n++
		}
	}
	return n
}

func containsBigram(word, bigram string) float64 {
	if strings.Contains(word, bigram) {
		return 1
	}
	return 0
}

func firstLetterIn(word, set string) float64 {
	if word != "" && strings.ContainsRune(set, rune(word[0])) {
		return 1
	}
	return 0
}

func lastLetterIn(word, set string) float64 {
	if word != "" && strings.ContainsRune(set, rune(word[len(word)-1])) {
		return 1
	}
	return 0
}

// spellingEasiness computes the aggregate spelling score per word: each
// sub-indicator column is standardized across the batch, the per-word mean
// of the standardized columns is taken, and the aggregate is standardized
// again so the spelling column obeys the same invariant as the other two.
func spellingEasiness(records []domain.WordRecord) []float64 {
	n := len(records)
	columns := [][]float64{
		make([]float64, n), // no repeated letter
		make([]float64, n), // vowel count
		make([]float64, n), // consonant count
		make([]float64, n), // contains TH
		make([]float64, n), // contains ER
		make([]float64, n), // starts with S/C/A/T
		make([]float64, n), // ends with E/Y/R/T
	}

	for i, rec := range records {
		w := rec.Lemma
		columns[0][i] = noRepeatedLetter(w)
		columns[1][i] = vowelCount(w)
		columns[2][i] = consonantCount(w)
		columns[3][i] = containsBigram(w, "TH")
		columns[4][i] = containsBigram(w, "ER")
		columns[5][i] = firstLetterIn(w, "SCAT")
		columns[6][i] = lastLetterIn(w, "EYRT")
	}

	for c, col := range columns {
		columns[c] = standardize(col)
	}

	aggregate := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for _, col := range columns {
			sum += col[i]
		}
		aggregate[i] = sum / float64(len(columns))
	}

	return standardize(aggregate)
}
