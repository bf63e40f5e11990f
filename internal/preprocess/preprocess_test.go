package preprocess_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/wordtier/internal/domain"
	"github.com/pbaille/wordtier/internal/preprocess"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadCSV_SkipsHeader verifies a non-numeric first row is treated as a
// header and data rows parse into records.
func TestLoadCSV_SkipsHeader(t *testing.T) {
	path := writeCSV(t, "word,frequency\nthe,120\ncat,45\n")

	records, err := preprocess.LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "the", records[0].Word)
	assert.Equal(t, 120.0, records[0].SubmissionFreq)
}

// TestLoadCSV_BadFrequency verifies a malformed data row fails loudly.
func TestLoadCSV_BadFrequency(t *testing.T) {
	path := writeCSV(t, "the,120\ncat,notanumber\n")
	_, err := preprocess.LoadCSV(path)
	assert.Error(t, err)
}

// TestClean_FiltersAndNormalizes verifies case normalization, the validity
// rule (alphabetic, length >= 2) and tutorial word removal.
func TestClean_FiltersAndNormalizes(t *testing.T) {
	raw := []domain.WordRecord{
		{Word: "the", SubmissionFreq: 10},
		{Word: "Spell", SubmissionFreq: 5},  // tutorial word
		{Word: "a", SubmissionFreq: 3},      // too short
		{Word: "c4t", SubmissionFreq: 2},    // non-alphabetic
		{Word: " wand ", SubmissionFreq: 1}, // tutorial word after trimming
		{Word: "Fjord", SubmissionFreq: 4},
	}

	cleaned, err := preprocess.Clean(raw, preprocess.Options{TutorialWords: []string{"SPELL", "WAND"}})
	require.NoError(t, err)
	require.Len(t, cleaned, 2)

	assert.Equal(t, "THE", cleaned[0].Word)
	assert.Equal(t, "THE", cleaned[0].Lemma)
	assert.Equal(t, "FJORD", cleaned[1].Word)
}

// TestClean_MergesDuplicateLemmas verifies that words sharing a lemma merge
// into one record with summed submission frequency, keeping first position.
func TestClean_MergesDuplicateLemmas(t *testing.T) {
	raw := []domain.WordRecord{
		{Word: "cats", SubmissionFreq: 10},
		{Word: "dog", SubmissionFreq: 5},
		{Word: "cat", SubmissionFreq: 7},
	}

	cleaned, err := preprocess.Clean(raw, preprocess.Options{})
	require.NoError(t, err)
	require.Len(t, cleaned, 2)

	assert.Equal(t, "CATS", cleaned[0].Word)
	assert.Equal(t, "CAT", cleaned[0].Lemma)
	assert.Equal(t, 17.0, cleaned[0].SubmissionFreq)
	assert.Equal(t, "DOG", cleaned[1].Word)
}

// TestClean_EmptyBatch verifies the sentinel error when nothing survives.
func TestClean_EmptyBatch(t *testing.T) {
	raw := []domain.WordRecord{{Word: "x", SubmissionFreq: 1}}
	_, err := preprocess.Clean(raw, preprocess.Options{})
	assert.ErrorIs(t, err, preprocess.ErrEmptyInput)
}

// TestLemmatize covers the plural rules and their guard rails.
func TestLemmatize(t *testing.T) {
	cases := map[string]string{
		"CATS":     "CAT",
		"BERRIES":  "BERRY",
		"TIES":     "TIE",
		"BOXES":    "BOX",
		"DISHES":   "DISH",
		"CHURCHES": "CHURCH",
		"WOLVES":   "WOLF",
		"MICE":     "MOUSE",
		"CHILDREN": "CHILD",
		"GLASS":    "GLASS", // -SS is not a plural
		"GAS":      "GAS",   // too short for the -S rule
		"THE":      "THE",   // no rule applies
	}

	for word, want := range cases {
		assert.Equal(t, want, preprocess.Lemmatize(word), "lemma of %s", word)
	}
}
