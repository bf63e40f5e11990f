package domain

import "time"

// Rank is the semantic difficulty tier assigned to a word after clustering.
type Rank int

const (
	Easy Rank = iota
	Medium
	Hard
)

// String returns the human-readable tier name.
func (r Rank) String() string {
	switch r {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	}
	return "Unknown"
}

// WordRecord is one vocabulary entry as handed to the clustering core.
// RealFreqKnown is false when the frequency collaborator had no entry for
// the word; the feature builder substitutes the fallback log value.
type WordRecord struct {
	Word           string  `json:"word"`
	Lemma          string  `json:"lemma"`
	SubmissionFreq float64 `json:"submission_freq"`
	RealFreq       float64 `json:"real_freq"`
	RealFreqKnown  bool    `json:"real_freq_known"`
}

// WeightTriple holds the feature weights for one grid-search trial.
type WeightTriple struct {
	Submission float64 `json:"submission"`
	Frequency  float64 `json:"frequency"`
	Spelling   float64 `json:"spelling"`
}

// FrequencyDominates reports whether the real-world frequency weight is the
// strict maximum of the triple. Only dominant triples are ever clustered.
func (w WeightTriple) FrequencyDominates() bool {
	return w.Frequency > w.Submission && w.Frequency > w.Spelling
}

// Less orders triples lexicographically (submission, frequency, spelling).
// Used as the deterministic tie-break when silhouette scores are equal.
func (w WeightTriple) Less(o WeightTriple) bool {
	if w.Submission != o.Submission {
		return w.Submission < o.Submission
	}
	if w.Frequency != o.Frequency {
		return w.Frequency < o.Frequency
	}
	return w.Spelling < o.Spelling
}

// TrialResult is the outcome of clustering with one weight triple.
// Assignment maps each word (by input order) to a raw cluster id.
type TrialResult struct {
	Weights    WeightTriple `json:"weights"`
	Assignment []int        `json:"assignment"`
	Silhouette float64      `json:"silhouette"`
}

// LabeledWord is a word with its final difficulty rank.
type LabeledWord struct {
	WordRecord
	Cluster int  `json:"cluster"`
	Rank    Rank `json:"rank"`
}

// Removal records one word dropped by the content filter.
type Removal struct {
	Word   string `json:"word"`
	Rank   Rank   `json:"rank"`
	Reason string `json:"reason"`
	Method string `json:"method"`
}

// Summary is the per-run report packaged by the orchestrator.
type Summary struct {
	NumClusters int          `json:"num_clusters"`
	RankCounts  map[Rank]int `json:"rank_counts"`
	Weights     WeightTriple `json:"weights"`
	Silhouette  float64      `json:"silhouette_score"`
	TotalWords  int          `json:"total_words"`
	Removed     int          `json:"removed"`
}

// Run is a persisted pipeline execution.
type Run struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Summary   Summary   `json:"summary"`
}
