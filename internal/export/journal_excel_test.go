package export

import (
	"testing"

	"github.com/studyhall/studyhall-lms/internal/journal"
)

func TestSubjectWorkbookLayout(t *testing.T) {
	best := 90.0
	m := journal.Matrix{
		Tests: []journal.TestColumn{
			{TestID: 1, TestName: "Quiz 1", ModuleName: "Intro"},
			{TestID: 2, TestName: "Quiz 2", ModuleName: "Intro"},
		},
		Rows: []journal.MatrixRow{
			{UserID: 10, Name: "Alice", Cells: []journal.Cell{
				{Best: &best, Attempts: 2},
				{},
			}},
		},
	}

	f, err := SubjectWorkbook("Databases", m)
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue("Journal", cell)
		if err != nil {
			t.Fatalf("get %s: %v", cell, err)
		}
		return v
	}

	if got := get("A1"); got != "Student" {
		t.Fatalf("A1 = %q, want Student", got)
	}
	if got := get("B1"); got != "Intro / Quiz 1" {
		t.Fatalf("B1 = %q", got)
	}
	if got := get("D1"); got != "Intro / Quiz 2" {
		t.Fatalf("D1 = %q", got)
	}
	if got := get("A2"); got != "Alice" {
		t.Fatalf("A2 = %q", got)
	}
	if got := get("B2"); got != "90" {
		t.Fatalf("B2 = %q, want 90", got)
	}
	if got := get("C2"); got != "2" {
		t.Fatalf("C2 = %q, want 2", got)
	}
	if got := get("D2"); got != "-" {
		t.Fatalf("D2 = %q, want -", got)
	}
}
