package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/powerplan/app"
	"github.com/kilianp07/powerplan/core/locale"
	"github.com/kilianp07/powerplan/core/model"
	"github.com/kilianp07/powerplan/core/scheduler"
	"github.com/kilianp07/powerplan/infra/logger"
	"github.com/kilianp07/powerplan/pkg/export"
)

type optimizeOptions struct {
	requestPath string
	dataset     string
	priority    string
	start       int
	end         int
	scheduled   string
	days        string
	additional  string
	budget      float64
	format      string
	output      string
}

var optOpts optimizeOptions

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Compute a weekly schedule for a request",
	Long: `Compute a weekly schedule. The request is read from --request or built
from the list flags, which accept comma separated names in English or
Indonesian.`,
	RunE: runOptimize,
}

func init() {
	f := optimizeCmd.Flags()
	f.StringVarP(&optOpts.requestPath, "request", "r", "", "request file (yaml or json)")
	f.StringVar(&optOpts.dataset, "dataset", "", "consumption CSV, overrides dataset.path")
	f.StringVar(&optOpts.priority, "priority", "", "priority appliances")
	f.IntVar(&optOpts.start, "start", 0, "priority window start hour")
	f.IntVar(&optOpts.end, "end", 0, "priority window end hour")
	f.StringVar(&optOpts.scheduled, "scheduled", "", "scheduled appliances")
	f.StringVar(&optOpts.days, "days", "", "days for scheduled appliances")
	f.StringVar(&optOpts.additional, "additional", "", "additional appliances")
	f.Float64Var(&optOpts.budget, "budget", 0, "budget for the week")
	f.StringVarP(&optOpts.format, "format", "f", "text", "output format: text, json, csv or chart")
	f.StringVarP(&optOpts.output, "output", "o", "", "output file, stdout when empty")
	rootCmd.AddCommand(optimizeCmd)
}

func (o optimizeOptions) request() (model.Request, error) {
	if o.requestPath != "" {
		return scheduler.LoadRequest(o.requestPath)
	}
	return model.Request{
		PriorityAppliances:   locale.SplitList(o.priority),
		PriorityStart:        o.start,
		PriorityEnd:          o.end,
		ScheduledAppliances:  locale.SplitList(o.scheduled),
		ScheduledDays:        locale.SplitList(o.days),
		AdditionalAppliances: locale.SplitList(o.additional),
		Budget:               o.budget,
	}, nil
}

func writeReport(w io.Writer, format string, rep export.Report) error {
	switch format {
	case "text":
		return export.WriteText(w, rep)
	case "json":
		return export.WriteJSON(w, rep)
	case "csv":
		return export.WriteCSV(w, rep)
	case "chart":
		return export.WriteChartHTML(w, rep)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if optOpts.dataset != "" {
		cfg.Dataset.Path = optOpts.dataset
	}
	req, err := optOpts.request()
	if err != nil {
		return err
	}
	svc, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	rep, err := svc.Optimize(ctx, req)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if optOpts.output != "" {
		f, err := os.Create(optOpts.output)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	return writeReport(w, optOpts.format, rep)
}
