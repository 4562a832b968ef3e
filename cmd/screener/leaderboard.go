package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-screener/internal/observability"
	"github.com/jonathan/candidate-screener/internal/ranking"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank and filter the candidates of a screening result",
	Long:  "Loads a screening result JSON and lists its candidates by JD match score, optionally filtered by name/email text and status.",
	RunE:  runLeaderboard,
}

var (
	leaderboardResults string
	leaderboardQuery   string
	leaderboardStatus  string
	leaderboardTop     int
	leaderboardJSON    bool
)

func init() {
	leaderboardCmd.Flags().StringVarP(&leaderboardResults, "results", "r", "", "Path to screening result JSON file (required)")
	leaderboardCmd.Flags().StringVarP(&leaderboardQuery, "query", "q", "", "Case-insensitive text matched against name or email")
	leaderboardCmd.Flags().StringVarP(&leaderboardStatus, "status", "s", "All", "Status filter: Shortlisted, Rejected, Pending Review or All")
	leaderboardCmd.Flags().IntVar(&leaderboardTop, "top", 0, "Show at most this many candidates (0 shows all)")
	leaderboardCmd.Flags().BoolVar(&leaderboardJSON, "json", false, "Print candidates as JSON instead of a table")

	if err := leaderboardCmd.MarkFlagRequired("results"); err != nil {
		panic(fmt.Sprintf("failed to mark results flag as required: %v", err))
	}

	rootCmd.AddCommand(leaderboardCmd)
}

func runLeaderboard(cmd *cobra.Command, _ []string) error {
	result, err := loadResults(leaderboardResults)
	if err != nil {
		return err
	}

	ranker := ranking.New()
	if err := ranker.Restore(result.Succeeded); err != nil {
		return fmt.Errorf("failed to load candidates: %w", err)
	}

	matches, err := ranker.Search(result.JobID, ranking.Query{Text: leaderboardQuery, Status: leaderboardStatus})
	if err != nil {
		return err
	}
	if leaderboardTop > 0 && len(matches) > leaderboardTop {
		matches = matches[:leaderboardTop]
	}

	out := cmd.OutOrStdout()
	if leaderboardJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	p := observability.NewPrinter(out)
	p.PrintLeaderboard(fmt.Sprintf("JOB %s", result.JobID), matches)
	p.PrintCounts(ranker.CountsByStatus(result.JobID))
	return nil
}
