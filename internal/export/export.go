// Package export writes a pipeline result to disk: the final labeled word
// list, one word list per rank, the removal report and the run summary.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pbaille/wordtier/internal/domain"
	"github.com/pbaille/wordtier/internal/pipeline"
)

// Write materializes the result under dir:
//
//	final_words.csv                 word,lemma,rank,cluster
//	clusters_by_rank/rank{N}_words.csv
//	removals.csv                    word,rank,method,reason
//	summary.json
func Write(dir string, result *pipeline.Result) error {
	if err := os.MkdirAll(filepath.Join(dir, "clusters_by_rank"), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := writeFinal(filepath.Join(dir, "final_words.csv"), result.Labeled); err != nil {
		return err
	}
	if err := writeRankLists(filepath.Join(dir, "clusters_by_rank"), result.Labeled); err != nil {
		return err
	}
	if err := writeRemovals(filepath.Join(dir, "removals.csv"), result.Removals); err != nil {
		return err
	}
	return writeSummary(filepath.Join(dir, "summary.json"), result.Summary)
}

func writeFinal(path string, words []domain.LabeledWord) error {
	rows := [][]string{{"word", "lemma", "rank", "cluster"}}
	for _, lw := range words {
		rows = append(rows, []string{
			lw.Word,
			lw.Lemma,
			lw.Rank.String(),
			strconv.Itoa(lw.Cluster),
		})
	}
	return writeCSV(path, rows)
}

func writeRankLists(dir string, words []domain.LabeledWord) error {
	byRank := make(map[domain.Rank][][]string)
	for _, lw := range words {
		byRank[lw.Rank] = append(byRank[lw.Rank], []string{lw.Word})
	}

	for rank, rows := range byRank {
		path := filepath.Join(dir, fmt.Sprintf("rank%d_words.csv", int(rank)))
		if err := writeCSV(path, rows); err != nil {
			return err
		}
	}
	return nil
}

func writeRemovals(path string, removals []domain.Removal) error {
	rows := [][]string{{"word", "rank", "method", "reason"}}
	for _, r := range removals {
		rows = append(rows, []string{r.Word, r.Rank.String(), r.Method, r.Reason})
	}
	return writeCSV(path, rows)
}

func writeSummary(path string, summary domain.Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	writer.Flush()
	return writer.Error()
}
