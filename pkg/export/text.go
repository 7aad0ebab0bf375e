package export

import (
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kilianp07/powerplan/core/model"
)

const hoursPerLine = 5

// WriteText writes a human readable weekly report. Amounts use thousands
// separators.
func WriteText(w io.Writer, r Report) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder
	for _, day := range model.Weekdays {
		_, _ = p.Fprintf(&b, "\n%s:\n", day)
		if pu, ok := r.Result.Priority[day]; ok && len(pu.Hours) > 0 {
			_, _ = p.Fprintf(&b, "-> Priority usage: %s\n", strings.Join(pu.Appliances, ", "))
			_, _ = p.Fprintf(&b, "    Total energy: %.2f kWh\n", pu.TotalKWh)
			_, _ = p.Fprintf(&b, "    Hours: %s\n", strings.Join(hourLines(pu.Hours), "\n           "))
		}
		writeSlots(p, &b, "Scheduled", r.Result.Scheduled[day])
		writeSlots(p, &b, "Additional", r.Result.Additional[day])
	}
	cur := r.currency()
	_, _ = p.Fprintf(&b, "\nTotal cost: %s %.2f\n", cur, r.Result.TotalCost)
	_, _ = p.Fprintf(&b, "Budget: %s %.2f\n", cur, r.Status.Budget)
	if r.Status.OverBudget {
		_, _ = p.Fprintf(&b, "WARNING: over budget by %s %.2f\n", cur, r.Status.Overrun)
	} else {
		b.WriteString("Electricity cost is within budget.\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeSlots(p *message.Printer, b *strings.Builder, label string, slots []model.Slot) {
	if len(slots) == 0 {
		return
	}
	_, _ = p.Fprintf(b, "-> %s usage: %.2f kWh\n", label, model.SlotEnergy(slots))
	for _, s := range slots {
		_, _ = p.Fprintf(b, "    %s - %s (%.2f kWh)\n", s.Hour, s.Appliance, s.EnergyKWh)
	}
}

// hourLines groups hours five per line.
func hourLines(hours []string) []string {
	var lines []string
	for i := 0; i < len(hours); i += hoursPerLine {
		end := i + hoursPerLine
		if end > len(hours) {
			end = len(hours)
		}
		lines = append(lines, strings.Join(hours[i:end], ", "))
	}
	return lines
}
