package quickadd

import (
	"errors"
	"testing"
	"time"

	"outlay/internal/core"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantItem string
		wantAmt  float64
		wantCat  string
		wantErr  error
	}{
		{"amount after item", "coffee 4.50", "coffee", 4.5, "misc", nil},
		{"amount first", "12,30 taxi downtown", "taxi downtown", 12.3, "misc", nil},
		{"hash category", "coffee 4.50 #food", "coffee", 4.5, "food", nil},
		{"at category", "lunch 9 @work", "lunch", 9, "work", nil},
		{"category casing normalized", "cinema 11 #Fun", "cinema", 11, "fun", nil},
		{"second number stays in item", "bus 2.50 line 42", "bus line 42", 2.5, "misc", nil},
		{"no amount", "just words here", "", 0, "", core.ErrInvalidAmount},
		{"amount only", "4.50", "", 0, "", core.ErrEmptyItem},
		{"empty line", "", "", 0, "", core.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := Parse(tt.line, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.line, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.line, err)
			}
			if draft.Item != tt.wantItem || draft.Amount != tt.wantAmt || draft.Category != tt.wantCat {
				t.Errorf("Parse(%q) = %+v, want item %q amount %v category %q",
					tt.line, draft, tt.wantItem, tt.wantAmt, tt.wantCat)
			}
			if draft.Date != "2024-06-15" {
				t.Errorf("draft date = %s, want today", draft.Date)
			}
		})
	}
}
