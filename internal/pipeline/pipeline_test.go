package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/wordtier/internal/config"
	"github.com/pbaille/wordtier/internal/domain"
	"github.com/pbaille/wordtier/internal/frequency"
	"github.com/pbaille/wordtier/internal/gridsearch"
	"github.com/pbaille/wordtier/internal/pipeline"
	"github.com/pbaille/wordtier/internal/wordfilter"
)

// corpus builds a vocabulary with three clear frequency bands and equal
// submission counts: everyday words, ordinary words, and rarities.
func corpus() ([]domain.WordRecord, frequency.Lookup) {
	bands := []struct {
		words []string
		freq  float64
	}{
		{[]string{"THE", "AND", "YOU", "WITH", "HAVE", "FROM"}, 1e6},
		{[]string{"CAT", "BIRD", "HOUSE", "WATER", "MUSIC", "PAPER"}, 5e4},
		{[]string{"XENOLITH", "QUIXOTIC", "SYZYGY", "ZEPHYR", "OBELISK", "FJORD"}, 5},
	}

	var records []domain.WordRecord
	lookup := frequency.Static{}
	for _, band := range bands {
		for i, word := range band.words {
			records = append(records, domain.WordRecord{
				Word: word, Lemma: word,
				SubmissionFreq: 10,
			})
			lookup[word] = band.freq * (1 + float64(i)*0.01)
		}
	}
	return records, lookup
}

func newPipeline(t *testing.T, cfg config.Config, lookup frequency.Lookup) *pipeline.Pipeline {
	t.Helper()
	filter, err := wordfilter.New(wordfilter.Options{
		MinLength: cfg.Filter.MinLength,
		MaxLength: cfg.Filter.MaxLength,
	})
	require.NoError(t, err)
	return pipeline.New(cfg, lookup, filter)
}

func rankOf(t *testing.T, labeled []domain.LabeledWord, word string) domain.Rank {
	t.Helper()
	for _, lw := range labeled {
		if lw.Word == word {
			return lw.Rank
		}
	}
	t.Fatalf("word %s not in labeled output", word)
	return 0
}

// TestRun_DifficultyOrdering is the end-to-end scenario: common words rank
// Easy, rarities Hard, and "the" is never harder than "cat", which is never
// harder than "xenolith".
func TestRun_DifficultyOrdering(t *testing.T) {
	records, lookup := corpus()
	result, err := newPipeline(t, config.Default(), lookup).Run(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, result.Labeled, len(records))

	the := rankOf(t, result.Labeled, "THE")
	cat := rankOf(t, result.Labeled, "CAT")
	xenolith := rankOf(t, result.Labeled, "XENOLITH")

	assert.Equal(t, domain.Easy, the)
	assert.Equal(t, domain.Hard, xenolith)
	assert.LessOrEqual(t, the, cat)
	assert.LessOrEqual(t, cat, xenolith)

	assert.Equal(t, 3, result.Summary.NumClusters)
	assert.True(t, result.Summary.Weights.FrequencyDominates())
	assert.Greater(t, result.Summary.Silhouette, 0.5)

	total := 0
	for _, count := range result.Summary.RankCounts {
		total += count
	}
	assert.Equal(t, len(records), total)
}

// TestRun_Idempotent verifies two runs on identical input and config
// produce identical summaries and labels.
func TestRun_Idempotent(t *testing.T) {
	records, lookup := corpus()
	cfg := config.Default()

	first, err := newPipeline(t, cfg, lookup).Run(context.Background(), records)
	require.NoError(t, err)
	second, err := newPipeline(t, cfg, lookup).Run(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Labeled, second.Labeled)
}

// TestRun_NoAcceptableClustering verifies degenerate input surfaces the
// grid-search failure with no partial result.
func TestRun_NoAcceptableClustering(t *testing.T) {
	var records []domain.WordRecord
	lookup := frequency.Static{"SAME": 100}
	for i := 0; i < 8; i++ {
		records = append(records, domain.WordRecord{
			Word: "SAME", Lemma: "SAME", SubmissionFreq: 10,
		})
	}

	result, err := newPipeline(t, config.Default(), lookup).Run(context.Background(), records)
	assert.ErrorIs(t, err, gridsearch.ErrNoAcceptableClustering)
	assert.Nil(t, result, "no partial output on failure")
}

// TestRun_TwoBandVocabularyFails verifies a run never succeeds with a
// missing tier: eight words in two frequency bands with identical spelling
// and submission signals force an empty third cluster, and the run must
// fail instead of exporting a vocabulary where no word is Easy.
func TestRun_TwoBandVocabularyFails(t *testing.T) {
	words := []string{"CAT", "SAT", "SIT", "CUT", "COT", "CAR", "TAR", "SIR"}
	lookup := frequency.Static{}
	var records []domain.WordRecord
	for i, word := range words {
		records = append(records, domain.WordRecord{
			Word: word, Lemma: word, SubmissionFreq: 10,
		})
		if i < 4 {
			lookup[word] = 1e6
		} else {
			lookup[word] = 5
		}
	}

	result, err := newPipeline(t, config.Default(), lookup).Run(context.Background(), records)
	assert.ErrorIs(t, err, gridsearch.ErrNoAcceptableClustering)
	assert.Nil(t, result, "no partial output on failure")
}

// TestRun_InvalidFeatureInput verifies a bad record aborts the pipeline
// before any clustering happens.
func TestRun_InvalidFeatureInput(t *testing.T) {
	records, lookup := corpus()
	records[3].SubmissionFreq = -1

	_, err := newPipeline(t, config.Default(), lookup).Run(context.Background(), records)
	assert.Error(t, err)
}

// TestRun_ContentFilterReportsRemovals verifies filtered words land in the
// removal report with their original rank and are absent from the output.
func TestRun_ContentFilterReportsRemovals(t *testing.T) {
	records, lookup := corpus()

	cfg := config.Default()
	cfg.Filter.MaxLength = 7 // XENOLITH and QUIXOTIC no longer fit

	result, err := newPipeline(t, cfg, lookup).Run(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Removals, 2)
	removedWords := []string{result.Removals[0].Word, result.Removals[1].Word}
	assert.Contains(t, removedWords, "XENOLITH")
	assert.Contains(t, removedWords, "QUIXOTIC")
	for _, r := range result.Removals {
		assert.Equal(t, wordfilter.MethodLength, r.Method)
		assert.Equal(t, domain.Hard, r.Rank, "removal keeps the original rank")
	}

	for _, lw := range result.Labeled {
		assert.NotEqual(t, "XENOLITH", lw.Word)
	}
	assert.Equal(t, len(records)-2, result.Summary.TotalWords)
	assert.Equal(t, 2, result.Summary.Removed)
}

// TestRun_UnknownFrequencyWordsRankHard verifies words missing from the
// frequency table fall to the bottom band via the sentinel log value.
func TestRun_UnknownFrequencyWordsRankHard(t *testing.T) {
	records, lookup := corpus()
	static := lookup.(frequency.Static)
	delete(static, "XENOLITH") // now unknown rather than merely rare

	result, err := newPipeline(t, config.Default(), static).Run(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, domain.Hard, rankOf(t, result.Labeled, "XENOLITH"))
}
