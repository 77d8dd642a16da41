// Package stats derives summaries, chart series and heatmap cells from a
// tracker ledger. Everything here is recomputed from the ledger on demand
// and never mutates it.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/runnerr0/iotracker/internal/tracker"
)

// Summary holds the headline counters shown for a ledger.
type Summary struct {
	GoalDaysMet    int     `json:"goalDaysMet"`
	OutputsShipped int     `json:"outputsShipped"`
	TotalHours     float64 `json:"totalHours"`
	MaxHours       float64 `json:"maxHours"`
}

// Summarize counts over every entry in ledger, including keys outside the
// target year.
func Summarize(ledger tracker.Ledger, dailyGoal float64) Summary {
	var s Summary
	for _, e := range ledger {
		if e.Hours >= dailyGoal {
			s.GoalDaysMet++
		}
		if e.Output {
			s.OutputsShipped++
		}
		s.TotalHours += e.Hours
		if e.Hours > s.MaxHours {
			s.MaxHours = e.Hours
		}
	}
	return s
}

// round2 rounds x to two decimals, half away from zero.
func round2(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

// mean returns sum/n rounded to two decimals, or 0 when n is 0.
func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return round2(sum / float64(n))
}
