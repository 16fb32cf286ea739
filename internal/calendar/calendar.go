// Package calendar re-buckets the expense collection by calendar day, ISO
// week, and calendar month for a reference year, and derives the drill-down
// groupings behind the calendar view. All functions are pure: they take an
// immutable snapshot of the collection and return fresh structures.
package calendar

import (
	"sort"
	"time"

	"outlay/internal/core"
)

// WeekSummary is one ISO week's aggregate for the reference year.
//
// Start and End are approximate display anchors (Jan 1 plus a whole number of
// weeks), not true ISO week boundaries. The labels were specified that way
// and the grouping itself never uses them.
type WeekSummary struct {
	WeekNum int
	Start   time.Time
	End     time.Time
	Total   float64
	Count   int
}

// MonthSummary is one calendar month's aggregate for the reference year.
// Index runs 0-11.
type MonthSummary struct {
	Index int
	Name  string
	Total float64
	Count int
}

// DayGroup is a drill-down bucket of expenses sharing an exact date string.
type DayGroup struct {
	Date     string
	Total    float64
	Expenses []core.Expense
}

// WeekGroup is a drill-down bucket of expenses sharing an ISO week number.
type WeekGroup struct {
	WeekNum  int
	Total    float64
	Expenses []core.Expense
}

// DailyTotals maps exact date strings to summed amounts across the entire
// collection. Deliberately not scoped by year: every expense contributes
// regardless of which year is being browsed, keyed by its raw date string.
func DailyTotals(expenses []core.Expense) map[string]float64 {
	totals := make(map[string]float64, len(expenses))
	for _, e := range expenses {
		totals[e.Date] += e.Amount
	}
	return totals
}

// WeeklySummaries groups the reference year's expenses by ISO week number.
// Only weeks with a positive total produce a row; rows are ordered by week
// number descending, most recent first.
func WeeklySummaries(expenses []core.Expense, year int) []WeekSummary {
	totals := map[int]float64{}
	counts := map[int]int{}
	for _, e := range expenses {
		d, ok := core.ParseDate(e.Date)
		if !ok || d.Year() != year {
			continue
		}
		w := ISOWeekNumber(d)
		totals[w] += e.Amount
		counts[w]++
	}

	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	var out []WeekSummary
	for w := 53; w >= 1; w-- {
		if totals[w] <= 0 {
			continue
		}
		start := jan1.AddDate(0, 0, (w-1)*7)
		out = append(out, WeekSummary{
			WeekNum: w,
			Start:   start,
			End:     start.AddDate(0, 0, 6),
			Total:   totals[w],
			Count:   counts[w],
		})
	}
	return out
}

// MonthlySummaries always returns exactly twelve rows, index 0-11, including
// months with no expenses. A year with no data yields twelve zero rows.
func MonthlySummaries(expenses []core.Expense, year int) []MonthSummary {
	out := make([]MonthSummary, 12)
	for i := range out {
		out[i] = MonthSummary{Index: i, Name: time.Month(i + 1).String()}
	}
	for _, e := range expenses {
		d, ok := core.ParseDate(e.Date)
		if !ok || d.Year() != year {
			continue
		}
		i := int(d.Month()) - 1
		out[i].Total += e.Amount
		out[i].Count++
	}
	return out
}

// ExpensesOn returns the expenses whose date field equals the selected date
// string exactly.
func ExpensesOn(expenses []core.Expense, date string) []core.Expense {
	var out []core.Expense
	for _, e := range expenses {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

// WeekBreakdown returns the reference year's expenses for the selected ISO
// week, grouped by exact date, groups sorted ascending by date.
func WeekBreakdown(expenses []core.Expense, year, week int) []DayGroup {
	byDate := map[string]*DayGroup{}
	var dates []string
	for _, e := range expenses {
		d, ok := core.ParseDate(e.Date)
		if !ok || d.Year() != year || ISOWeekNumber(d) != week {
			continue
		}
		g, seen := byDate[e.Date]
		if !seen {
			g = &DayGroup{Date: e.Date}
			byDate[e.Date] = g
			dates = append(dates, e.Date)
		}
		g.Total += e.Amount
		g.Expenses = append(g.Expenses, e)
	}
	sort.Strings(dates)
	out := make([]DayGroup, 0, len(dates))
	for _, date := range dates {
		out = append(out, *byDate[date])
	}
	return out
}

// MonthBreakdown returns the reference year's expenses for the selected month
// index (0-11), grouped by ISO week number, groups sorted ascending by week.
func MonthBreakdown(expenses []core.Expense, year, monthIndex int) []WeekGroup {
	byWeek := map[int]*WeekGroup{}
	var weeks []int
	for _, e := range expenses {
		d, ok := core.ParseDate(e.Date)
		if !ok || d.Year() != year || int(d.Month())-1 != monthIndex {
			continue
		}
		w := ISOWeekNumber(d)
		g, seen := byWeek[w]
		if !seen {
			g = &WeekGroup{WeekNum: w}
			byWeek[w] = g
			weeks = append(weeks, w)
		}
		g.Total += e.Amount
		g.Expenses = append(g.Expenses, e)
	}
	sort.Ints(weeks)
	out := make([]WeekGroup, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, *byWeek[w])
	}
	return out
}
