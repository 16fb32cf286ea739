package summary

import (
	"testing"
	"time"

	"outlay/internal/core"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func expense(date, category string, amount float64) core.Expense {
	return core.Expense{Item: "x", Amount: amount, Category: category, Date: date}
}

func TestCalculate_EmptyCollection(t *testing.T) {
	s := Calculate(nil, now)
	if s.DailyTotal != 0 || s.WeeklyTotal != 0 || s.MonthlyTotal != 0 {
		t.Errorf("expected all-zero totals, got %+v", s)
	}
	if len(s.CategoryBreakdown) != 0 {
		t.Errorf("expected empty breakdown, got %v", s.CategoryBreakdown)
	}
}

func TestCalculate_WindowBoundaries(t *testing.T) {
	tests := []struct {
		name        string
		date        string
		wantDaily   float64
		wantWeekly  float64
		wantMonthly float64
	}{
		{"today counts everywhere", "2024-06-15", 10, 10, 10},
		{"yesterday misses daily", "2024-06-14", 0, 10, 10},
		{"six days ago stays weekly", "2024-06-09", 0, 10, 10},
		{"seven days ago sits behind the midday instant", "2024-06-08", 0, 0, 10},
		{"twenty-nine days ago stays monthly", "2024-05-17", 0, 0, 10},
		{"thirty days ago sits behind the midday instant", "2024-05-16", 0, 0, 0},
		{"future date flows through", "2024-07-01", 0, 10, 10},
		{"garbage date matches nothing", "not-a-date", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Calculate([]core.Expense{expense(tt.date, "misc", 10)}, now)
			if s.DailyTotal != tt.wantDaily {
				t.Errorf("DailyTotal = %v, want %v", s.DailyTotal, tt.wantDaily)
			}
			if s.WeeklyTotal != tt.wantWeekly {
				t.Errorf("WeeklyTotal = %v, want %v", s.WeeklyTotal, tt.wantWeekly)
			}
			if s.MonthlyTotal != tt.wantMonthly {
				t.Errorf("MonthlyTotal = %v, want %v", s.MonthlyTotal, tt.wantMonthly)
			}
		})
	}
}

// The date boundary comparison works on parsed calendar dates (UTC midnight),
// so a date one day older than the sliding window boundary drops out even
// when the instant itself falls mid-day.
func TestCalculate_MidnightOfBoundaryDayIncluded(t *testing.T) {
	eval := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	s := Calculate([]core.Expense{expense("2024-06-08", "misc", 5)}, eval)
	if s.WeeklyTotal != 5 {
		t.Errorf("WeeklyTotal = %v, want 5 (midnight boundary is >=)", s.WeeklyTotal)
	}
}

func TestCalculate_BreakdownScopedToThirtyDays(t *testing.T) {
	expenses := []core.Expense{
		expense("2024-06-14", "food", 20),      // inside 7d and 30d
		expense("2024-06-05", "food", 30),      // 10 days ago: outside 7d, inside 30d
		expense("2024-04-01", "transport", 99), // outside 30d entirely
	}
	s := Calculate(expenses, now)

	if s.WeeklyTotal != 20 {
		t.Errorf("WeeklyTotal = %v, want 20", s.WeeklyTotal)
	}
	if s.MonthlyTotal != 50 {
		t.Errorf("MonthlyTotal = %v, want 50", s.MonthlyTotal)
	}
	if len(s.CategoryBreakdown) != 1 {
		t.Fatalf("breakdown entries = %d, want 1 (transport is outside the window)", len(s.CategoryBreakdown))
	}
	entry := s.CategoryBreakdown[0]
	if entry.Name != "food" || entry.Value != 50 {
		t.Errorf("breakdown = %+v, want food=50", entry)
	}
	if entry.Percentage != 100 {
		t.Errorf("percentage = %v, want 100", entry.Percentage)
	}
}

func TestCalculate_EmptyWindowHasEmptyBreakdown(t *testing.T) {
	// All expenses outside the 30-day window: monthlyTotal is zero and the
	// breakdown must be empty, not a list of 100%-placeholder entries.
	expenses := []core.Expense{
		expense("2023-01-01", "food", 10),
		expense("2022-12-31", "transport", 20),
	}
	s := Calculate(expenses, now)
	if s.MonthlyTotal != 0 {
		t.Errorf("MonthlyTotal = %v, want 0", s.MonthlyTotal)
	}
	if len(s.CategoryBreakdown) != 0 {
		t.Errorf("expected empty breakdown, got %v", s.CategoryBreakdown)
	}
}

func TestCalculate_PercentageFloor(t *testing.T) {
	// A window total below 1 keeps the 1-unit denominator floor: 0.40 of a
	// 0.40 total reports 40%, not 100%.
	s := Calculate([]core.Expense{expense("2024-06-15", "food", 0.40)}, now)
	if s.MonthlyTotal != 0.40 {
		t.Fatalf("MonthlyTotal = %v, want 0.40", s.MonthlyTotal)
	}
	if got := s.CategoryBreakdown[0].Percentage; got != 40 {
		t.Errorf("percentage = %v, want 40 (floor denominator of 1)", got)
	}
}

func TestCalculate_BreakdownSortStability(t *testing.T) {
	expenses := []core.Expense{
		expense("2024-06-14", "books", 10),
		expense("2024-06-14", "games", 10),
		expense("2024-06-14", "rent", 500),
	}
	s := Calculate(expenses, now)

	want := []string{"rent", "books", "games"}
	if len(s.CategoryBreakdown) != len(want) {
		t.Fatalf("breakdown entries = %d, want %d", len(s.CategoryBreakdown), len(want))
	}
	for i, name := range want {
		if s.CategoryBreakdown[i].Name != name {
			t.Errorf("breakdown[%d] = %s, want %s (stable tie order)", i, s.CategoryBreakdown[i].Name, name)
		}
	}
}

func TestCalculate_PercentagesSumForMultipleCategories(t *testing.T) {
	expenses := []core.Expense{
		expense("2024-06-10", "food", 75),
		expense("2024-06-11", "transport", 25),
	}
	s := Calculate(expenses, now)
	if s.CategoryBreakdown[0].Percentage != 75 {
		t.Errorf("food percentage = %v, want 75", s.CategoryBreakdown[0].Percentage)
	}
	if s.CategoryBreakdown[1].Percentage != 25 {
		t.Errorf("transport percentage = %v, want 25", s.CategoryBreakdown[1].Percentage)
	}
}
