// Package summary reduces the expense collection into the dashboard totals:
// today, trailing 7 days, trailing 30 days, and a percentage-ranked category
// breakdown over the 30-day window.
package summary

import (
	"sort"
	"time"

	"outlay/internal/core"
)

// CategoryBreakdownEntry is one category's share of the 30-day window.
type CategoryBreakdownEntry struct {
	Name       string
	Value      float64
	Percentage float64
}

// ExpenseSummary holds the rolling-window totals for the dashboard.
// DailyTotal covers expenses dated exactly today; WeeklyTotal and MonthlyTotal
// cover sliding 168-hour and 720-hour windows anchored at the evaluation
// instant, not at midnight.
type ExpenseSummary struct {
	DailyTotal        float64
	WeeklyTotal       float64
	MonthlyTotal      float64
	CategoryBreakdown []CategoryBreakdownEntry
}

// Calculate computes the summary for the given collection at instant now.
// It is a pure function: same inputs, same output, no state.
//
// An expense with an unparseable date contributes to no window. An expense
// dated in the future passes the same >= comparisons as any other; there is
// no future-date rejection.
func Calculate(expenses []core.Expense, now time.Time) ExpenseSummary {
	todayStr := now.Format(core.DateLayout)
	sevenDaysAgo := now.Add(-7 * 24 * time.Hour)
	thirtyDaysAgo := now.Add(-30 * 24 * time.Hour)

	var s ExpenseSummary
	byCategory := map[string]float64{}
	var order []string

	for _, e := range expenses {
		if e.Date == todayStr {
			s.DailyTotal += e.Amount
		}
		d, ok := core.ParseDate(e.Date)
		if !ok {
			continue
		}
		if !d.Before(sevenDaysAgo) {
			s.WeeklyTotal += e.Amount
		}
		if !d.Before(thirtyDaysAgo) {
			s.MonthlyTotal += e.Amount
			// Breakdown is scoped to the 30-day window only.
			if _, seen := byCategory[e.Category]; !seen {
				order = append(order, e.Category)
			}
			byCategory[e.Category] += e.Amount
		}
	}

	// Denominator floor of 1 avoids division by zero. Do not replace with a
	// zero branch: an all-zero window must keep producing value/1 percentages.
	denom := s.MonthlyTotal
	if denom < 1 {
		denom = 1
	}
	for _, name := range order {
		v := byCategory[name]
		s.CategoryBreakdown = append(s.CategoryBreakdown, CategoryBreakdownEntry{
			Name:       name,
			Value:      v,
			Percentage: v / denom * 100,
		})
	}

	// Descending by value; stable so equal categories keep first-seen order.
	sort.SliceStable(s.CategoryBreakdown, func(i, j int) bool {
		return s.CategoryBreakdown[i].Value > s.CategoryBreakdown[j].Value
	})

	return s
}
