package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show categories, stats, and decay countdowns",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	eng, db, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	// Catch up any decay that came due while nothing was running, so the
	// printed values are current.
	if removed := eng.EvaluateNow(); removed > 0 {
		fmt.Fprintf(os.Stderr, "decay: removed %d points since last run\n", removed)
	}

	cats := eng.Ledger().Categories()
	if len(cats) == 0 {
		fmt.Println("no categories yet — create one with the API or log an activity")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	defer w.Flush()

	for _, cat := range cats {
		fmt.Fprintf(w, "%s\t%s\tscore %d\n", cat.ID, cat.Name, cat.Score)
		for _, stat := range cat.Stats {
			line := fmt.Sprintf("  %s\t%d", stat.Name, stat.Value)
			if cd, ok := eng.TimeUntilNextDecay(cat.ID, stat.Name); ok {
				line += fmt.Sprintf("\tnext decay in %s", cd)
			} else {
				line += "\t"
			}
			fmt.Fprintln(w, line)
		}
	}

	entries := eng.Ledger().Entries()
	fmt.Fprintf(w, "\n%d activities logged\n", len(entries))
	return nil
}
