package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmccallister93/take-action/internal/decay"
)

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Inspect and run stat decay",
}

var decayRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Apply all overdue decay now",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		removed := eng.EvaluateNow()
		if err := eng.SaveNow(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
		fmt.Printf("removed %d points\n", removed)
		return nil
	},
}

var decayListCmd = &cobra.Command{
	Use:   "list",
	Short: "List decay settings and countdowns",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		sched := eng.Decay()
		keys := sched.Keys()
		if len(keys) == 0 {
			fmt.Println("no decay settings")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintln(w, "CATEGORY\tSTAT\tPOINTS\tINTERVAL\tENABLED\tNEXT")
		for _, key := range keys {
			set, ok := sched.Get(key.CategoryID, key.StatName)
			if !ok {
				continue
			}
			next := "-"
			if cd, ok := eng.TimeUntilNextDecay(key.CategoryID, key.StatName); ok {
				next = cd.String()
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%v\t%s\n",
				set.CategoryID, set.StatName, set.Points, set.Interval, set.Enabled, next)
		}
		return nil
	},
}

var (
	setCategory string
	setStat     string
	setPoints   int
	setInterval time.Duration
	setDisabled bool
)

var decaySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace a stat's decay setting",
	RunE: func(cmd *cobra.Command, args []string) error {
		if setPoints <= 0 {
			return fmt.Errorf("--points must be positive")
		}
		if setInterval <= 0 {
			return fmt.Errorf("--interval must be positive")
		}

		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		eng.AddDecaySetting(decay.Setting{
			CategoryID: setCategory,
			StatName:   setStat,
			Points:     setPoints,
			Interval:   setInterval,
			Enabled:    !setDisabled,
		})
		if err := eng.SaveNow(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
		fmt.Printf("decay for %s/%s: %d points every %s\n", setCategory, setStat, setPoints, setInterval)
		return nil
	},
}

func init() {
	decaySetCmd.Flags().StringVarP(&setCategory, "category", "c", "", "category id (required)")
	decaySetCmd.Flags().StringVarP(&setStat, "stat", "s", "", "stat name (required)")
	decaySetCmd.Flags().IntVarP(&setPoints, "points", "p", 1, "points lost per interval")
	decaySetCmd.Flags().DurationVarP(&setInterval, "interval", "i", 72*time.Hour, "decay interval")
	decaySetCmd.Flags().BoolVar(&setDisabled, "disabled", false, "create the setting disabled")
	decaySetCmd.MarkFlagRequired("category")
	decaySetCmd.MarkFlagRequired("stat")

	decayCmd.AddCommand(decayRunCmd)
	decayCmd.AddCommand(decayListCmd)
	decayCmd.AddCommand(decaySetCmd)
}
