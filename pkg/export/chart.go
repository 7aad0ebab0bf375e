package export

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/powerplan/core/model"
)

// WriteChartHTML renders the weekly energy per tier as a stacked bar chart.
func WriteChartHTML(w io.Writer, r Report) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Weekly energy plan", Subtitle: r.RunID}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Day"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "kWh"}),
		charts.WithLegendOpts(opts.Legend{}),
	)

	var priority, scheduled, additional []opts.BarData
	for _, day := range model.Weekdays {
		priority = append(priority, opts.BarData{Value: round2(r.Result.Priority[day].TotalKWh)})
		scheduled = append(scheduled, opts.BarData{Value: round2(model.SlotEnergy(r.Result.Scheduled[day]))})
		additional = append(additional, opts.BarData{Value: round2(model.SlotEnergy(r.Result.Additional[day]))})
	}
	stack := charts.WithBarChartOpts(opts.BarChart{Stack: "energy"})
	bar.SetXAxis(model.Weekdays).
		AddSeries("Priority", priority, stack).
		AddSeries("Scheduled", scheduled, stack).
		AddSeries("Additional", additional, stack)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %v", err)
	}
	return nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
