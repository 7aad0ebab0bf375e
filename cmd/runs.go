package cmd

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/powerplan/core/runlog"
)

var (
	runsLimit      int
	runsOverBudget bool
	runsSince      time.Duration
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past optimization runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := runlog.NewStore(cfg.RunLog)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		q := runlog.Query{Limit: runsLimit, OverBudget: runsOverBudget}
		if runsSince > 0 {
			q.Start = time.Now().Add(-runsSince)
		}
		recs, err := store.Query(cmd.Context(), q)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	},
}

func init() {
	f := runsCmd.Flags()
	f.IntVarP(&runsLimit, "limit", "n", 20, "maximum number of runs, most recent first kept")
	f.BoolVar(&runsOverBudget, "over-budget", false, "only runs exceeding their budget")
	f.DurationVar(&runsSince, "since", 0, "only runs newer than this duration")
	rootCmd.AddCommand(runsCmd)
}
