package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/wordtier/internal/api"
	"github.com/pbaille/wordtier/internal/config"
	"github.com/pbaille/wordtier/internal/domain"
	"github.com/pbaille/wordtier/internal/export"
	"github.com/pbaille/wordtier/internal/frequency"
	"github.com/pbaille/wordtier/internal/pipeline"
	"github.com/pbaille/wordtier/internal/preprocess"
	"github.com/pbaille/wordtier/internal/store"
	"github.com/pbaille/wordtier/internal/wordfilter"
)

var dbPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "wordtier",
		Short: "Cluster a vocabulary list into difficulty tiers",
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "database path")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// defaultDBPath anchors the database under the home directory, falling back
// to the working directory when no home is available.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		if home, err = os.Getwd(); err != nil {
			home = "."
		}
	}
	return filepath.Join(home, ".wordtier", "wordtier.db")
}

func getStore() (*store.Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(dbPath)
}

func runCmd() *cobra.Command {
	var configPath string
	var noStore bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the clustering pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.InputFile == "" {
				return fmt.Errorf("config: input_file is required")
			}
			if cfg.OutputDir == "" {
				return fmt.Errorf("config: output_dir is required")
			}

			raw, err := preprocess.LoadCSV(cfg.InputFile)
			if err != nil {
				return err
			}
			records, err := preprocess.Clean(raw, preprocess.Options{
				TutorialWords: cfg.Filter.TutorialWords,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Loaded %d words (%d raw rows)\n", len(records), len(raw))

			var lookup frequency.Lookup = frequency.Static{}
			if cfg.FrequencyFile != "" {
				table, err := frequency.LoadTable(cfg.FrequencyFile)
				if err != nil {
					return err
				}
				fmt.Printf("Frequency table: %d entries\n", table.Len())
				lookup = table
			}

			filter, err := wordfilter.New(wordfilter.Options{
				MinLength:     cfg.Filter.MinLength,
				MaxLength:     cfg.Filter.MaxLength,
				LexiconPath:   cfg.Filter.LexiconPath,
				BlocklistPath: cfg.Filter.BlocklistPath,
			})
			if err != nil {
				return err
			}

			result, err := pipeline.New(cfg, lookup, filter).Run(cmd.Context(), records)
			if err != nil {
				return err
			}

			if err := export.Write(cfg.OutputDir, result); err != nil {
				return err
			}
			fmt.Printf("Results written to %s\n", cfg.OutputDir)

			if !noStore {
				s, err := getStore()
				if err != nil {
					return err
				}
				defer s.Close()

				run, err := s.SaveRun(result.Summary, result.Labeled, result.Removals)
				if err != nil {
					return err
				}
				fmt.Printf("Stored run: %s\n", run.ID[:8])
			}

			printSummary(result.Summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "wordtier.yaml", "config file path")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "skip persisting the run")
	return cmd
}

func runsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListRuns(limit, 0)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("No runs yet. Use 'wordtier run' to create one.")
				return nil
			}

			for _, r := range runs {
				fmt.Printf("%s  %s  silhouette=%.4f  words=%d\n",
					r.ID[:8], r.CreatedAt.Format("2006-01-02 15:04:05"),
					r.Summary.Silhouette, r.Summary.TotalWords)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			// Find run by prefix
			runs, err := s.ListRuns(100, 0)
			if err != nil {
				return err
			}

			var found string
			for _, r := range runs {
				if strings.HasPrefix(r.ID, args[0]) {
					found = r.ID
					break
				}
			}

			if found == "" {
				return fmt.Errorf("run not found: %s", args[0])
			}

			run, err := s.GetRun(found)
			if err != nil {
				return err
			}

			fmt.Printf("ID:      %s\n", run.ID)
			fmt.Printf("Created: %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
			printSummary(run.Summary)

			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the results API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			// Note: don't defer s.Close() as server runs indefinitely

			server := api.New(s, addr)
			return server.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "server address")
	return cmd
}

func printSummary(sum domain.Summary) {
	fmt.Printf("Weights: Submission=%.1f, RealWorld=%.1f, Spelling=%.1f\n",
		sum.Weights.Submission, sum.Weights.Frequency, sum.Weights.Spelling)
	fmt.Printf("Silhouette Score: %.4f\n", sum.Silhouette)
	for rank := domain.Easy; rank <= domain.Hard; rank++ {
		fmt.Printf("  %-6s %d words\n", rank.String(), sum.RankCounts[rank])
	}
	if sum.Removed > 0 {
		fmt.Printf("Removed by content filter: %d\n", sum.Removed)
	}
}
