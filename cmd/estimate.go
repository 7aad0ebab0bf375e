package cmd

import (
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kilianp07/powerplan/core/estimate"
	"github.com/kilianp07/powerplan/core/model"
	"github.com/kilianp07/powerplan/pkg/export"
)

var (
	estWatts float64
	estRate  float64
	estHours float64
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate the running cost of one appliance",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := estimate.Compute(estWatts, estRate, estHours)
		if err != nil {
			return err
		}
		p := message.NewPrinter(language.English)
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		_, _ = p.Fprintf(tw, "Period\tEnergy\tCost\n")
		for _, l := range e.Lines {
			_, _ = p.Fprintf(tw, "%s\t%.2f kWh\t%s %.2f\n", l.Period, l.EnergyKWh, export.DefaultCurrency, l.Cost)
		}
		return tw.Flush()
	},
}

func init() {
	f := estimateCmd.Flags()
	f.Float64Var(&estWatts, "watts", 0, "rated power in watts")
	f.Float64Var(&estRate, "rate", model.DefaultRatePerKWh, "price per kWh")
	f.Float64Var(&estHours, "hours", 0, "hours of use per day")
	_ = estimateCmd.MarkFlagRequired("watts")
	_ = estimateCmd.MarkFlagRequired("hours")
	rootCmd.AddCommand(estimateCmd)
}
