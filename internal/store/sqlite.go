// Package store persists pipeline runs to sqlite so past clusterings can
// be listed, inspected and served without rerunning the pipeline.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pbaille/wordtier/internal/domain"
)

//go:embed schema.sql
var schema string

// Store handles database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores a run summary with its labeled words and removals in one
// transaction and returns the persisted run.
func (s *Store) SaveRun(summary domain.Summary, words []domain.LabeledWord, removals []domain.Removal) (*domain.Run, error) {
	run := &domain.Run{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Summary:   summary,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, created_at, num_clusters, submission_w, frequency_w, spelling_w, silhouette, total_words, removed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, summary.NumClusters,
		summary.Weights.Submission, summary.Weights.Frequency, summary.Weights.Spelling,
		summary.Silhouette, summary.TotalWords, summary.Removed,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	for i, lw := range words {
		_, err = tx.Exec(`
			INSERT INTO run_words (run_id, position, word, lemma, rank, cluster, submission_freq, real_freq, real_freq_known)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, lw.Word, lw.Lemma, int(lw.Rank), lw.Cluster,
			lw.SubmissionFreq, lw.RealFreq, lw.RealFreqKnown,
		)
		if err != nil {
			return nil, fmt.Errorf("insert word %q: %w", lw.Word, err)
		}
	}

	for i, r := range removals {
		_, err = tx.Exec(`
			INSERT INTO run_removals (run_id, position, word, rank, method, reason)
			VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, i, r.Word, int(r.Rank), r.Method, r.Reason,
		)
		if err != nil {
			return nil, fmt.Errorf("insert removal %q: %w", r.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit run: %w", err)
	}
	return run, nil
}

// GetRun retrieves a run by ID
func (s *Store) GetRun(id string) (*domain.Run, error) {
	run := domain.Run{Summary: domain.Summary{RankCounts: make(map[domain.Rank]int)}}
	err := s.db.QueryRow(`
		SELECT id, created_at, num_clusters, submission_w, frequency_w, spelling_w, silhouette, total_words, removed
		FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.CreatedAt, &run.Summary.NumClusters,
		&run.Summary.Weights.Submission, &run.Summary.Weights.Frequency, &run.Summary.Weights.Spelling,
		&run.Summary.Silhouette, &run.Summary.TotalWords, &run.Summary.Removed)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	rows, err := s.db.Query(
		"SELECT rank, COUNT(*) FROM run_words WHERE run_id = ? GROUP BY rank", id,
	)
	if err != nil {
		return nil, fmt.Errorf("count ranks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rank, count int
		if err := rows.Scan(&rank, &count); err != nil {
			return nil, fmt.Errorf("scan rank count: %w", err)
		}
		run.Summary.RankCounts[domain.Rank(rank)] = count
	}
	return &run, rows.Err()
}

// ListRuns returns recent runs with pagination
func (s *Store) ListRuns(limit, offset int) ([]domain.Run, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, num_clusters, submission_w, frequency_w, spelling_w, silhouette, total_words, removed
		FROM runs ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var r domain.Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Summary.NumClusters,
			&r.Summary.Weights.Submission, &r.Summary.Weights.Frequency, &r.Summary.Weights.Spelling,
			&r.Summary.Silhouette, &r.Summary.TotalWords, &r.Summary.Removed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetWords returns the labeled words of a run in their original order
func (s *Store) GetWords(runID string) ([]domain.LabeledWord, error) {
	rows, err := s.db.Query(`
		SELECT word, lemma, rank, cluster, submission_freq, real_freq, real_freq_known
		FROM run_words WHERE run_id = ? ORDER BY position`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("get words: %w", err)
	}
	defer rows.Close()

	var words []domain.LabeledWord
	for rows.Next() {
		var lw domain.LabeledWord
		var rank int
		if err := rows.Scan(&lw.Word, &lw.Lemma, &rank, &lw.Cluster,
			&lw.SubmissionFreq, &lw.RealFreq, &lw.RealFreqKnown); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		lw.Rank = domain.Rank(rank)
		words = append(words, lw)
	}
	return words, rows.Err()
}

// GetRemovals returns the removal report of a run
func (s *Store) GetRemovals(runID string) ([]domain.Removal, error) {
	rows, err := s.db.Query(`
		SELECT word, rank, method, reason
		FROM run_removals WHERE run_id = ? ORDER BY position`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("get removals: %w", err)
	}
	defer rows.Close()

	var removals []domain.Removal
	for rows.Next() {
		var r domain.Removal
		var rank int
		if err := rows.Scan(&r.Word, &rank, &r.Method, &r.Reason); err != nil {
			return nil, fmt.Errorf("scan removal: %w", err)
		}
		r.Rank = domain.Rank(rank)
		removals = append(removals, r)
	}
	return removals, rows.Err()
}
