package export

import (
	"bytes"
	"strings"
	"testing"

	"outlay/internal/core"
)

func TestWriteCSV(t *testing.T) {
	expenses := []core.Expense{
		{ID: "a", Item: "coffee", Amount: 4.5, Category: "food", Date: "2024-06-10", CreatedAt: 100},
		{ID: "b", Item: "taxi", Amount: 12, Category: "travel", Date: "2024-06-15", CreatedAt: 200},
		{ID: "c", Item: "lunch", Amount: 9.9, Category: "food", Date: "2024-06-15", CreatedAt: 300},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, expenses); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"id,item,amount,category,date,created_at",
		"c,lunch,9.90,food,2024-06-15,300",
		"b,taxi,12.00,travel,2024-06-15,200",
		"a,coffee,4.50,food,2024-06-10,100",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %d, want %d\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "id,item,amount,category,date,created_at" {
		t.Errorf("empty export = %q, want header only", got)
	}
}

func TestWriteCSVDoesNotMutateInput(t *testing.T) {
	expenses := []core.Expense{
		{ID: "a", Date: "2024-01-01"},
		{ID: "b", Date: "2024-06-01"},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, expenses); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if expenses[0].ID != "a" || expenses[1].ID != "b" {
		t.Error("input slice reordered")
	}
}
