package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"outlay/internal/calendar"
	"outlay/internal/core"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// parseView reconstructs the calendar view state from query parameters and
// applies the requested transition. Anything malformed falls back to the
// default view on today.
func parseView(r *http.Request, now time.Time) calendar.View {
	q := r.URL.Query()

	view := calendar.NewView(now)

	if m := calendar.ViewMode(strings.TrimSpace(q.Get("mode"))); m.IsValid() {
		view.Mode = m
	}
	if v := strings.TrimSpace(q.Get("cursor")); v != "" {
		if t, ok := core.ParseDate(v); ok {
			view.Cursor = t
		}
	}
	if v := strings.TrimSpace(q.Get("date")); v != "" {
		view.SelectedDate = v
	}
	if v := strings.TrimSpace(q.Get("week")); v != "" {
		if w, err := strconv.Atoi(v); err == nil {
			view.SelectedWeek = w
		}
	}
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			view.SelectedMonth = m
		}
	}

	// Transitions come last so they see the restored state.
	if m := calendar.ViewMode(strings.TrimSpace(q.Get("setmode"))); m.IsValid() {
		view = view.WithMode(m)
	}
	switch strings.TrimSpace(q.Get("nav")) {
	case "prev":
		view = view.Prev()
	case "next":
		view = view.Next()
	}
	if v := strings.TrimSpace(q.Get("select")); v != "" {
		switch view.Mode {
		case calendar.ModeDaily:
			view = view.WithSelectedDate(v)
		case calendar.ModeWeekly:
			if w, err := strconv.Atoi(v); err == nil {
				view = view.WithSelectedWeek(w)
			}
		case calendar.ModeMonthly:
			if m, err := strconv.Atoi(v); err == nil {
				view = view.WithSelectedMonth(m)
			}
		}
	}

	return view
}

// viewQuery serializes the view state back into a query string so the
// partials can link to their own transitions.
func viewQuery(v calendar.View) string {
	q := "mode=" + string(v.Mode) + "&cursor=" + v.Cursor.Format(core.DateLayout)
	if v.SelectedDate != "" {
		q += "&date=" + v.SelectedDate
	}
	if v.SelectedWeek != calendar.NoSelection {
		q += "&week=" + strconv.Itoa(v.SelectedWeek)
	}
	if v.SelectedMonth != calendar.NoSelection {
		q += "&month=" + strconv.Itoa(v.SelectedMonth)
	}
	return q
}

// formatAmount renders a money value for display (e.g., "€12.34").
func formatAmount(v float64) string {
	if v < 0 {
		return "-€" + core.FormatAmount(-v)
	}
	return "€" + core.FormatAmount(v)
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
