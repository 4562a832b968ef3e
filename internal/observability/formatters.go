// Package observability provides human-readable output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/candidate-screener/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 80
	// maxFailuresToShow bounds the failure list of a batch summary
	maxFailuresToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// PrintJob outputs a job posting with its stats.
func (p *Printer) PrintJob(job types.JobPosting, stats types.JobStats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:        %s\n", job.ID))
	sb.WriteString(fmt.Sprintf("Status:    %s\n", job.Status))
	if len(job.RequiredSkills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills:    %s\n", strings.Join(job.RequiredSkills, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Screened:  %d of %d submitted, %d shortlisted",
		stats.ScreenedCount, stats.TotalCandidates, stats.ShortlistedCount))

	p.printBox(strings.ToUpper(job.Title), sb.String())
}

// PrintLeaderboard outputs candidates in the given order with their scores
// and flags. Scores are expected to be ranked already.
func (p *Printer) PrintLeaderboard(title string, scores []types.CandidateScore) {
	if len(scores) == 0 {
		p.printBox(title, "No candidates")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-3s %-22s %4s %4s  %s\n", "#", "Candidate", "JD", "Ver", "Recommendation / Status"))
	for i, s := range scores {
		name := s.Name
		if name == "" {
			name = s.CandidateID
		}
		sb.WriteString(fmt.Sprintf("%-3d %-22s %4d %4d  %s / %s",
			i+1, truncate(name, 22), s.JDMatchScore, s.VerificationScore, s.Recommendation, s.Status))

		var flags []string
		if s.LowMatch {
			flags = append(flags, "low match")
		}
		if s.NeedsManualVerification {
			flags = append(flags, "verify")
		}
		if len(flags) > 0 {
			sb.WriteString(fmt.Sprintf("\n    [%s]", strings.Join(flags, ", ")))
		}
		if i < len(scores)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(title, sb.String())
}

// PrintCounts outputs per-status candidate counts in workflow order.
func (p *Printer) PrintCounts(counts map[string]int) {
	var sb strings.Builder
	for _, status := range types.Statuses {
		sb.WriteString(fmt.Sprintf("%-16s %d\n", status, counts[string(status)]))
	}
	sb.WriteString(fmt.Sprintf("%-16s %d", types.StatusAll, counts[types.StatusAll]))

	p.printBox("CANDIDATES BY STATUS", sb.String())
}

// PrintBatchSummary outputs how many candidates of a batch were screened
// and why the others were not.
func (p *Printer) PrintBatchSummary(result *types.BatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Batch:     %s\n", result.BatchID))
	sb.WriteString(fmt.Sprintf("Job:       %s\n", result.JobID))
	sb.WriteString(fmt.Sprintf("Screened:  %d\n", len(result.Succeeded)))
	sb.WriteString(fmt.Sprintf("Failed:    %d", len(result.Failed)))

	if len(result.Failed) > 0 {
		sb.WriteString("\n")
		count := min(len(result.Failed), maxFailuresToShow)
		for i := 0; i < count; i++ {
			f := result.Failed[i]
			sb.WriteString(fmt.Sprintf("\n⚠ #%d %s", f.Index, f.Reason))
		}
		if len(result.Failed) > maxFailuresToShow {
			sb.WriteString(fmt.Sprintf("\n... and %d more", len(result.Failed)-maxFailuresToShow))
		}
	}

	p.printBox("SCREENING BATCH", sb.String())
}
