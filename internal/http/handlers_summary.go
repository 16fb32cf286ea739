package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"outlay/internal/summary"
)

// getSummary computes the rolling summary for now, memoized per store version.
// The key carries a minute bucket because the windows slide with now; a hit
// can be at most one minute behind the true window boundary.
func (s *Server) getSummary(ctx context.Context, now time.Time) (summary.ExpenseSummary, error) {
	key, haveKey := s.versionKey(ctx, "summary:"+now.Format("2006-01-02T15:04"))
	if haveKey {
		if data, found := s.summaryCache.Get(key); found {
			slog.DebugContext(ctx, "Summary cache hit")
			return data, nil
		}
	}

	expenses, err := s.svc.List(ctx)
	if err != nil {
		return summary.ExpenseSummary{}, err
	}
	data := summary.Calculate(expenses, now)

	if haveKey {
		s.summaryCache.Set(key, data)
	}
	return data, nil
}

// handleSummary renders the rolling-totals partial.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	sum, err := s.getSummary(r.Context(), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary error", "error", err)
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Could not load summary</div></section>`))
		return
	}

	type categoryRow struct {
		Name       string
		Amount     string
		Percentage int
	}
	data := struct {
		DailyTotal   string
		WeeklyTotal  string
		MonthlyTotal string
		Categories   []categoryRow
	}{
		DailyTotal:   formatAmount(sum.DailyTotal),
		WeeklyTotal:  formatAmount(sum.WeeklyTotal),
		MonthlyTotal: formatAmount(sum.MonthlyTotal),
	}
	for _, c := range sum.CategoryBreakdown {
		data.Categories = append(data.Categories, categoryRow{
			Name:       c.Name,
			Amount:     formatAmount(c.Value),
			Percentage: int(c.Percentage),
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Last 30 days: ` + data.MonthlyTotal + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "summary.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "summary.html")
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Could not render summary</div></section>`))
	}
}
