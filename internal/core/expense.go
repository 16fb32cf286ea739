package core

import (
	"errors"
	"math"
	"sort"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used everywhere an expense date is
// stored or compared. Dates carry no time component.
const DateLayout = "2006-01-02"

type (
	// Expense is a single recorded spend. Records are immutable once created:
	// they are inserted and deleted, never updated in place.
	Expense struct {
		ID        string
		Item      string
		Amount    float64
		Category  string
		Date      string // YYYY-MM-DD, when the spend occurred
		CreatedAt int64  // ms since epoch, ordering tie-break only
	}

	// Draft is an expense as produced by an ingestion path (form or quick-add
	// parse), before the store assigns ID and CreatedAt.
	Draft struct {
		Item     string
		Amount   float64
		Category string
		Date     string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyItem     = errors.New("empty item")
	ErrEmptyCategory = errors.New("empty category")
)

// ParseDate parses a YYYY-MM-DD date string at UTC midnight. The second
// return value is false for anything unparseable; callers in the aggregation
// paths treat that as "matches no window" rather than an error.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Validate checks a draft at the ingestion boundary. The aggregation engine
// itself never validates; records already stored flow through it as-is.
func (d Draft) Validate() error {
	if len(strings.TrimSpace(d.Item)) == 0 {
		return ErrEmptyItem
	}
	if len(d.Item) > 200 {
		return errors.New("item too long (max 200 characters)")
	}
	if d.Amount < 0 || math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(d.Category) == "" {
		return ErrEmptyCategory
	}
	if _, ok := ParseDate(d.Date); !ok {
		return ErrInvalidDate
	}
	return nil
}

// SortForExport orders expenses by date descending, most recent first, with
// CreatedAt descending as the tie-break for same-day records.
func SortForExport(expenses []Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		if expenses[i].Date != expenses[j].Date {
			return expenses[i].Date > expenses[j].Date
		}
		return expenses[i].CreatedAt > expenses[j].CreatedAt
	})
}
