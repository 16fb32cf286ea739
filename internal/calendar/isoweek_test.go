package calendar

import (
	"testing"
	"time"
)

func TestISOWeekNumber(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"2024-01-01 Monday opens week 1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		{"2023-01-01 Sunday belongs to week 52 of 2022", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 52},
		{"2023-01-02 Monday opens week 1", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), 1},
		{"2020-12-31 Thursday lands in week 53", time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC), 53},
		{"2021-01-01 Friday still week 53 of 2020", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), 53},
		{"2024-06-15 Saturday is week 24", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 24},
		{"2024-12-31 Tuesday rolls into week 1 of 2025", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), 1},
		{"mid-day timestamps normalize to the same week", time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC), 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ISOWeekNumber(tt.date); got != tt.want {
				t.Errorf("ISOWeekNumber(%s) = %d, want %d", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

// The Thursday-anchoring arithmetic must agree with the standard library's
// ISO week across a multi-year sweep.
func TestISOWeekNumberMatchesStdlib(t *testing.T) {
	d := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for d.Before(end) {
		_, want := d.ISOWeek()
		if got := ISOWeekNumber(d); got != want {
			t.Fatalf("ISOWeekNumber(%s) = %d, stdlib says %d", d.Format("2006-01-02"), got, want)
		}
		d = d.AddDate(0, 0, 1)
	}
}
