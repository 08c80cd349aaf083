package runner

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/themizzi/storefront-e2e/internal/models"
)

// WriteSummary prints one line per scenario and a totals line.
func WriteSummary(w io.Writer, summary *models.RunSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tSTATUS\tDURATION\tDETAIL")
	for _, r := range summary.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Scenario, strings.ToUpper(string(r.Status)),
			r.Duration.Round(time.Millisecond), detail(r))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nrun %s: %d passed, %d failed, %d errored, %d skipped\n",
		summary.RunID,
		summary.Count(models.RunStatusPassed),
		summary.Count(models.RunStatusFailed),
		summary.Count(models.RunStatusErrored),
		summary.Count(models.RunStatusSkipped))
	return err
}

// detail is the first line of the message, plus the screenshot when there
// is one.
func detail(r models.ScenarioRun) string {
	msg, _, _ := strings.Cut(r.Message, "\n")
	if r.Screenshot != "" {
		msg += " [" + r.Screenshot + "]"
	}
	return msg
}
