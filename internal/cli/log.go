package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	logCategory string
	logStats    []string
	logPoints   int
)

var logCmd = &cobra.Command{
	Use:   "log [description]",
	Short: "Log an activity against a category or its stats",
	Long:  "Log an activity. With --stat the points land on each named stat (and restart its decay interval); without it, or when the only stat named is the category itself, the points go straight onto the category score.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLog,
}

func init() {
	logCmd.Flags().StringVarP(&logCategory, "category", "c", "", "category id (required)")
	logCmd.Flags().StringSliceVarP(&logStats, "stat", "s", nil, "target stat name (repeatable)")
	logCmd.Flags().IntVarP(&logPoints, "points", "p", 1, "points to attribute")
	logCmd.MarkFlagRequired("category")
}

func runLog(cmd *cobra.Command, args []string) error {
	description := strings.Join(args, " ")
	if strings.TrimSpace(description) == "" {
		return errors.New("description is required")
	}

	eng, db, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	entry := eng.LogActivity(description, logCategory, logStats, logPoints)
	if err := eng.SaveNow(); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	fmt.Printf("logged %s: %+d points to %s", entry.ID, entry.Points, entry.CategoryID)
	if len(entry.TargetStats) > 0 {
		fmt.Printf(" (%s)", strings.Join(entry.TargetStats, ", "))
	}
	fmt.Println()
	return nil
}
