package calendar

import "time"

// ViewMode selects the calendar granularity. The three modes are mutually
// exclusive.
type ViewMode string

const (
	ModeDaily   ViewMode = "daily"
	ModeWeekly  ViewMode = "weekly"
	ModeMonthly ViewMode = "monthly"
)

// IsValid reports whether the mode is one of the three known granularities.
func (m ViewMode) IsValid() bool {
	switch m {
	case ModeDaily, ModeWeekly, ModeMonthly:
		return true
	default:
		return false
	}
}

// NoSelection marks an unset week or month selector.
const NoSelection = -1

// View is the calendar view state: the active granularity, a navigable date
// cursor, and the drill-down selectors. Transitions follow two rules:
//
//   - switching mode, or navigating onto a different calendar year, clears
//     SelectedWeek and SelectedMonth;
//   - SelectedDate survives both, so day-view context is kept when paging
//     between months.
type View struct {
	Mode          ViewMode
	Cursor        time.Time
	SelectedDate  string // empty when nothing selected
	SelectedWeek  int    // NoSelection when unset
	SelectedMonth int    // month index 0-11, NoSelection when unset
}

// NewView returns a daily view anchored at the given cursor with no
// selections.
func NewView(cursor time.Time) View {
	return View{
		Mode:          ModeDaily,
		Cursor:        cursor,
		SelectedWeek:  NoSelection,
		SelectedMonth: NoSelection,
	}
}

// Year returns the reference year used by the year-scoped aggregations.
func (v View) Year() int {
	return v.Cursor.Year()
}

// WithMode switches granularity, clearing the week and month selections.
// Selecting the current mode again still clears them.
func (v View) WithMode(mode ViewMode) View {
	v.Mode = mode
	v.SelectedWeek = NoSelection
	v.SelectedMonth = NoSelection
	return v
}

// Prev moves the cursor back one month in daily mode, one year otherwise.
func (v View) Prev() View {
	return v.step(-1)
}

// Next moves the cursor forward one month in daily mode, one year otherwise.
func (v View) Next() View {
	return v.step(1)
}

func (v View) step(dir int) View {
	prevYear := v.Cursor.Year()
	if v.Mode == ModeDaily {
		v.Cursor = v.Cursor.AddDate(0, dir, 0)
	} else {
		v.Cursor = v.Cursor.AddDate(dir, 0, 0)
	}
	if v.Cursor.Year() != prevYear {
		v.SelectedWeek = NoSelection
		v.SelectedMonth = NoSelection
	}
	return v
}

// WithSelectedDate sets (or clears, with "") the exact-date drill-down.
func (v View) WithSelectedDate(date string) View {
	v.SelectedDate = date
	return v
}

// WithSelectedWeek sets the week drill-down; any week number is accepted,
// including one with no expenses.
func (v View) WithSelectedWeek(week int) View {
	v.SelectedWeek = week
	return v
}

// WithSelectedMonth sets the month drill-down. Selecting an empty month is
// allowed here; keeping zero-total months unclickable is a presentation
// concern.
func (v View) WithSelectedMonth(monthIndex int) View {
	v.SelectedMonth = monthIndex
	return v
}
