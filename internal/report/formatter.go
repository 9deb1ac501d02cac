package report

import (
	"fmt"
	"strings"

	"github.com/dannijak/IS-Macro/internal/model"
)

// FormatResult renders the total penalty interest and, optionally, the
// per-window and per-rate breakdown.
func FormatResult(res *model.PenaltyResult, breakdown bool) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Principal:        %s\n", res.Principal.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Period:           %s to %s\n", res.Start, res.End))
	b.WriteString(fmt.Sprintf("Penalty interest: %s\n", res.Interest.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Total due:        %s\n", res.Total().StringFixed(2)))

	if !breakdown {
		return b.String()
	}

	b.WriteString("\nCompounding windows:\n")
	for i, w := range res.Windows {
		b.WriteString(fmt.Sprintf("  %d. %s  base %s  interest %s\n",
			i+1, w.Window, w.Base.StringFixed(2), w.Interest.StringFixed(2)))
		b.WriteString(FormatSubPeriods(w.SubPeriods))
	}
	return b.String()
}

// FormatSubPeriods lists each rate period of a window.
func FormatSubPeriods(periods []model.RateSubPeriod) string {
	var b strings.Builder
	for _, p := range periods {
		b.WriteString(fmt.Sprintf("     %s - %s  %6s%%  %4d days (%.4f y)  %s\n",
			p.From, p.To, p.Percent.StringFixed(2), p.Days, p.YearFraction, p.Interest.StringFixed(2)))
	}
	return b.String()
}
