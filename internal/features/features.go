// Package features builds the standardized feature matrix the grid search
// clusters on: one (submission, frequency, spelling) triple per word.
//
// Each column is standardized independently (zero mean, unit variance).
// A zero-variance column is emitted as all zeros instead of failing the
// pipeline: constant input is legitimate, division by zero is not.
package features

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/pbaille/wordtier/internal/domain"
)

// ErrInvalidInput indicates a record is missing a required raw field.
// The whole batch is rejected: a silently zero-filled record would feed
// every downstream trial.
var ErrInvalidInput = errors.New("features: invalid word record")

// Options carries the transform constants from the configuration.
type Options struct {
	// Epsilon is added inside the log transform so log(0) cannot occur.
	Epsilon float64
	// FallbackLogFreq replaces log(frequency) for words with no known
	// real-world frequency, before standardization.
	FallbackLogFreq float64
}

// Matrix holds one standardized feature triple per input word, in input
// order. It is immutable once built; every grid-search trial reads it.
type Matrix struct {
	Submission []float64
	Frequency  []float64
	Spelling   []float64

	// FrequencyLog keeps the pre-standardization log frequencies; the
	// labeler ranks clusters on their means.
	FrequencyLog []float64
}

// Len returns the number of words in the matrix.
func (m *Matrix) Len() int { return len(m.Submission) }

// Weighted multiplies each standardized column by its weight and returns
// the n×3 matrix a trial clusters on. A fresh Dense is allocated per call
// so concurrent trials share no mutable state.
func (m *Matrix) Weighted(w domain.WeightTriple) *mat.Dense {
	n := m.Len()
	weighted := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		weighted.Set(i, 0, m.Submission[i]*w.Submission)
		weighted.Set(i, 1, m.Frequency[i]*w.Frequency)
		weighted.Set(i, 2, m.Spelling[i]*w.Spelling)
	}
	return weighted
}

// Build validates the records and produces the standardized feature matrix.
func Build(records []domain.WordRecord, opts Options) (*Matrix, error) {
	n := len(records)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrInvalidInput)
	}

	submission := make([]float64, n)
	frequencyLog := make([]float64, n)
	for i, rec := range records {
		if rec.Lemma == "" {
			return nil, fmt.Errorf("%w: %q has no lemma", ErrInvalidInput, rec.Word)
		}
		if math.IsNaN(rec.SubmissionFreq) || rec.SubmissionFreq < 0 {
			return nil, fmt.Errorf("%w: %q has submission frequency %g",
				ErrInvalidInput, rec.Word, rec.SubmissionFreq)
		}
		submission[i] = rec.SubmissionFreq

		if rec.RealFreqKnown {
			frequencyLog[i] = math.Log(rec.RealFreq + opts.Epsilon)
		} else {
			frequencyLog[i] = opts.FallbackLogFreq
		}
	}

	return &Matrix{
		Submission:   standardize(submission),
		Frequency:    standardize(frequencyLog),
		Spelling:     spellingEasiness(records),
		FrequencyLog: frequencyLog,
	}, nil
}

// standardize returns a zero-mean unit-variance copy of values. A constant
// column comes back as all zeros.
func standardize(values []float64) []float64 {
	mean, std := stat.MeanStdDev(values, nil)
	out := make([]float64, len(values))
	if std == 0 || math.IsNaN(std) {
		return out
	}
	for i, v := range values {
		out[i] = (v - mean) / std
	}
	return out
}
