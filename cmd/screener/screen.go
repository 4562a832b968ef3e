package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-screener/internal/observability"
	"github.com/jonathan/candidate-screener/internal/screening"
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen a batch of candidates against a job",
	Long: "Scores every candidate evidence record against the job's required skills and verification checks, " +
		"ranks them, and writes a screening result JSON. Invalid records are reported per candidate without failing the batch.",
	RunE: runScreen,
}

var (
	screenJob         string
	screenCandidates  string
	screenOutput      string
	screenPrevious    string
	screenResetStatus bool
	screenWorkers     int
	screenTop         int
	screenVerbose     bool
)

func init() {
	screenCmd.Flags().StringVarP(&screenJob, "job", "j", "", "Path to input JobPosting JSON file (required)")
	screenCmd.Flags().StringVarP(&screenCandidates, "candidates", "c", "", "Path to input CandidateEvidence batch JSON file (required)")
	screenCmd.Flags().StringVarP(&screenOutput, "out", "o", "", "Path to output screening result JSON file (required)")
	screenCmd.Flags().StringVar(&screenPrevious, "previous", "", "Earlier screening result for the same job whose reviewer decisions carry over")
	screenCmd.Flags().BoolVar(&screenResetStatus, "reset-status", false, "Discard earlier reviewer decisions of re-screened candidates")
	screenCmd.Flags().IntVar(&screenWorkers, "workers", 0, "Candidates screened concurrently (overrides config)")
	screenCmd.Flags().IntVar(&screenTop, "top", 10, "Candidates shown in the verbose leaderboard")
	screenCmd.Flags().BoolVarP(&screenVerbose, "verbose", "v", false, "Print the batch summary, leaderboard and counts")

	for _, name := range []string{"job", "candidates", "out"} {
		if err := screenCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	rootCmd.AddCommand(screenCmd)
}

func runScreen(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if screenWorkers > 0 {
		cfg.Workers = screenWorkers
	}

	session, log, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// 1. Register the job
	job, err := loadJob(screenJob)
	if err != nil {
		return err
	}
	job, err = session.RegisterJob(job)
	if err != nil {
		return fmt.Errorf("failed to register job: %w", err)
	}

	// 2. Carry over earlier decisions
	if screenPrevious != "" {
		previous, err := loadResults(screenPrevious)
		if err != nil {
			return err
		}
		if previous.JobID != job.ID {
			return fmt.Errorf("previous result %s is for job %q, not %q", screenPrevious, previous.JobID, job.ID)
		}
		if err := session.Restore(job.ID, previous.Succeeded); err != nil {
			return fmt.Errorf("failed to restore previous result: %w", err)
		}
	}

	// 3. Screen
	intake, err := loadCandidates(screenCandidates)
	if err != nil {
		return err
	}
	result, err := session.ScreenIntake(cmd.Context(), job.ID, intake, screening.BatchOptions{ResetStatus: screenResetStatus})
	if err != nil {
		return fmt.Errorf("failed to screen candidates: %w", err)
	}

	// 4. Write
	if err := writeResults(screenOutput, result); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if screenVerbose {
		p := observability.NewPrinter(out)
		p.PrintBatchSummary(result)

		leaders, err := session.Leaderboard(job.ID, screenTop)
		if err != nil {
			return err
		}
		p.PrintLeaderboard(fmt.Sprintf("TOP %d CANDIDATES", len(leaders)), leaders)

		stats, err := session.JobStats(job.ID)
		if err != nil {
			return err
		}
		p.PrintJob(job, stats)
	}

	_, _ = fmt.Fprintf(out, "Screened %d of %d candidates for job %s to %s\n",
		len(result.Succeeded), intake.Len(), job.ID, screenOutput)
	return nil
}
