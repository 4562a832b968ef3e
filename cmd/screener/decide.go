package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-screener/internal/ranking"
	"github.com/jonathan/candidate-screener/internal/types"
)

var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Record a reviewer decision in a screening result",
	Long:  "Sets the status of one candidate in a screening result JSON to Shortlisted, Rejected or Pending Review and rewrites the file.",
	RunE:  runDecide,
}

var (
	decideResults   string
	decideCandidate string
	decideStatus    string
)

func init() {
	decideCmd.Flags().StringVarP(&decideResults, "results", "r", "", "Path to screening result JSON file (required)")
	decideCmd.Flags().StringVar(&decideCandidate, "candidate", "", "Candidate ID (required)")
	decideCmd.Flags().StringVarP(&decideStatus, "status", "s", "", "New status: Shortlisted, Rejected or Pending Review (required)")

	for _, name := range []string{"results", "candidate", "status"} {
		if err := decideCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	rootCmd.AddCommand(decideCmd)
}

func runDecide(cmd *cobra.Command, _ []string) error {
	result, err := loadResults(decideResults)
	if err != nil {
		return err
	}

	ranker := ranking.New()
	if err := ranker.Restore(result.Succeeded); err != nil {
		return fmt.Errorf("failed to load candidates: %w", err)
	}

	updated, err := ranker.SetStatus(result.JobID, decideCandidate, types.Status(decideStatus))
	if err != nil {
		return err
	}

	for i := range result.Succeeded {
		if result.Succeeded[i].CandidateID == updated.CandidateID {
			result.Succeeded[i] = updated
		}
	}
	if err := writeResults(decideResults, result); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Candidate %s is now %s\n", updated.CandidateID, updated.Status)
	return nil
}
