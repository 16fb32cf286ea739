package core

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12.34", 12.34, false},
		{"12,34", 12.34, false},
		{"0", 0, false},
		{"  7 ", 7, false},
		{".5", 0.5, false},
		{"", 0, true},
		{"-3", 0, true},
		{"+3", 0, true},
		{"1.2.3", 0, true},
		{"abc", 0, true},
		{"12e3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDraftValidate(t *testing.T) {
	valid := Draft{Item: "coffee", Amount: 4.5, Category: "food", Date: "2024-06-15"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Draft)
		want   error
	}{
		{"empty item", func(d *Draft) { d.Item = "  " }, ErrEmptyItem},
		{"negative amount", func(d *Draft) { d.Amount = -1 }, ErrInvalidAmount},
		{"empty category", func(d *Draft) { d.Category = "" }, ErrEmptyCategory},
		{"bad date", func(d *Draft) { d.Date = "15/06/2024" }, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			if err := d.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	if _, ok := ParseDate("2024-02-29"); !ok {
		t.Error("leap day should parse")
	}
	for _, bad := range []string{"", "2024-13-01", "yesterday", "2024-06-15T10:00"} {
		if _, ok := ParseDate(bad); ok {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestSortForExport(t *testing.T) {
	expenses := []Expense{
		{ID: "a", Date: "2024-06-14", CreatedAt: 100},
		{ID: "b", Date: "2024-06-15", CreatedAt: 50},
		{ID: "c", Date: "2024-06-15", CreatedAt: 75},
	}
	SortForExport(expenses)

	want := []string{"c", "b", "a"}
	for i, id := range want {
		if expenses[i].ID != id {
			t.Errorf("expenses[%d] = %s, want %s", i, expenses[i].ID, id)
		}
	}
}
