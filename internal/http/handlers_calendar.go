package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"outlay/internal/calendar"
	"outlay/internal/core"
)

// calendarData carries everything the calendar partial renders for one view
// state. It is cached per store version + view state.
type calendarData struct {
	View   calendar.View
	Days   []dayCell
	Weeks  []calendar.WeekSummary
	Months []calendar.MonthSummary

	// Drill-downs, populated for the active selection only.
	DayExpenses []core.Expense
	WeekGroups  []calendar.DayGroup
	MonthGroups []calendar.WeekGroup
}

// dayCell is one day of the daily-mode month grid.
type dayCell struct {
	Day      int
	Date     string
	Total    float64
	Selected bool
}

func (s *Server) getCalendar(ctx context.Context, view calendar.View) (calendarData, error) {
	key, haveKey := s.versionKey(ctx, "calendar:"+viewQuery(view))
	if haveKey {
		if data, found := s.calendarCache.Get(key); found {
			slog.DebugContext(ctx, "Calendar cache hit", "mode", view.Mode)
			return data, nil
		}
	}

	expenses, err := s.svc.List(ctx)
	if err != nil {
		return calendarData{}, err
	}

	data := buildCalendarData(expenses, view)

	if haveKey {
		s.calendarCache.Set(key, data)
	}
	return data, nil
}

func buildCalendarData(expenses []core.Expense, view calendar.View) calendarData {
	data := calendarData{View: view}
	year := view.Year()

	switch view.Mode {
	case calendar.ModeDaily:
		totals := calendar.DailyTotals(expenses)
		first := time.Date(year, view.Cursor.Month(), 1, 0, 0, 0, 0, time.UTC)
		daysInMonth := first.AddDate(0, 1, -1).Day()
		for day := 1; day <= daysInMonth; day++ {
			date := time.Date(year, view.Cursor.Month(), day, 0, 0, 0, 0, time.UTC).Format(core.DateLayout)
			data.Days = append(data.Days, dayCell{
				Day:      day,
				Date:     date,
				Total:    totals[date],
				Selected: view.SelectedDate == date,
			})
		}
		if view.SelectedDate != "" {
			data.DayExpenses = calendar.ExpensesOn(expenses, view.SelectedDate)
		}
	case calendar.ModeWeekly:
		data.Weeks = calendar.WeeklySummaries(expenses, year)
		if view.SelectedWeek != calendar.NoSelection {
			data.WeekGroups = calendar.WeekBreakdown(expenses, year, view.SelectedWeek)
		}
	case calendar.ModeMonthly:
		data.Months = calendar.MonthlySummaries(expenses, year)
		if view.SelectedMonth != calendar.NoSelection {
			data.MonthGroups = calendar.MonthBreakdown(expenses, year, view.SelectedMonth)
		}
	}

	return data
}

// handleCalendar renders the calendar partial. View state lives entirely in
// query parameters; transitions arrive as setmode / nav / select.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	view := parseView(r, time.Now())
	data, err := s.getCalendar(r.Context(), view)
	if err != nil {
		slog.ErrorContext(r.Context(), "Calendar error", "error", err, "mode", view.Mode, "year", view.Year())
		_, _ = w.Write([]byte(`<section id="calendar" class="calendar"><div class="placeholder">Could not load calendar</div></section>`))
		return
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="calendar" class="calendar"><div class="placeholder">Calendar unavailable</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "calendar.html", s.calendarTemplateData(data)); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "calendar.html")
		_, _ = w.Write([]byte(`<section id="calendar" class="calendar"><div class="placeholder">Could not render calendar</div></section>`))
	}
}

// calendarTemplateData flattens calendarData into display strings.
func (s *Server) calendarTemplateData(data calendarData) any {
	type dayRow struct {
		Day      int
		Date     string
		Total    string
		HasSpend bool
		Selected bool
	}
	type weekRow struct {
		WeekNum  int
		Label    string
		Total    string
		Count    int
		Selected bool
	}
	type monthRow struct {
		Index    int
		Name     string
		Total    string
		Count    int
		HasSpend bool
		Selected bool
	}
	type expenseRow struct {
		ID       string
		Item     string
		Amount   string
		Category string
		Date     string
	}
	type dayGroupRow struct {
		Date     string
		Total    string
		Expenses []expenseRow
	}
	type weekGroupRow struct {
		WeekNum  int
		Total    string
		Expenses []expenseRow
	}

	view := data.View
	out := struct {
		Mode        string
		Year        int
		MonthName   string
		Query       string
		IsDaily     bool
		IsWeekly    bool
		IsMonthly   bool
		Days        []dayRow
		Weeks       []weekRow
		Months      []monthRow
		DayDetail   []expenseRow
		WeekDetail  []dayGroupRow
		MonthDetail []weekGroupRow
	}{
		Mode:      string(view.Mode),
		Year:      view.Year(),
		MonthName: view.Cursor.Month().String(),
		Query:     viewQuery(view),
		IsDaily:   view.Mode == calendar.ModeDaily,
		IsWeekly:  view.Mode == calendar.ModeWeekly,
		IsMonthly: view.Mode == calendar.ModeMonthly,
	}

	toExpenseRows := func(expenses []core.Expense) []expenseRow {
		rows := make([]expenseRow, 0, len(expenses))
		for _, e := range expenses {
			rows = append(rows, expenseRow{
				ID:       e.ID,
				Item:     e.Item,
				Amount:   formatAmount(e.Amount),
				Category: e.Category,
				Date:     e.Date,
			})
		}
		return rows
	}

	for _, d := range data.Days {
		out.Days = append(out.Days, dayRow{
			Day:      d.Day,
			Date:     d.Date,
			Total:    formatAmount(d.Total),
			HasSpend: d.Total > 0,
			Selected: d.Selected,
		})
	}
	for _, w := range data.Weeks {
		out.Weeks = append(out.Weeks, weekRow{
			WeekNum:  w.WeekNum,
			Label:    w.Start.Format("Jan 2") + " - " + w.End.Format("Jan 2"),
			Total:    formatAmount(w.Total),
			Count:    w.Count,
			Selected: view.SelectedWeek == w.WeekNum,
		})
	}
	for _, m := range data.Months {
		out.Months = append(out.Months, monthRow{
			Index:    m.Index,
			Name:     m.Name,
			Total:    formatAmount(m.Total),
			Count:    m.Count,
			HasSpend: m.Total > 0,
			Selected: view.SelectedMonth == m.Index,
		})
	}
	out.DayDetail = toExpenseRows(data.DayExpenses)
	for _, g := range data.WeekGroups {
		out.WeekDetail = append(out.WeekDetail, dayGroupRow{
			Date:     g.Date,
			Total:    formatAmount(g.Total),
			Expenses: toExpenseRows(g.Expenses),
		})
	}
	for _, g := range data.MonthGroups {
		out.MonthDetail = append(out.MonthDetail, weekGroupRow{
			WeekNum:  g.WeekNum,
			Total:    formatAmount(g.Total),
			Expenses: toExpenseRows(g.Expenses),
		})
	}

	return out
}
