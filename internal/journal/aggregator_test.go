package journal_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/studyhall/studyhall-lms/internal/journal"
)

type fakeStore struct {
	byUser   map[int64][]journal.AttemptEntry
	tests    map[int64][]journal.TestColumn
	attempts map[int64][]journal.SubjectAttempt
}

func (s *fakeStore) AttemptsByUser(_ context.Context, userID int64) ([]journal.AttemptEntry, error) {
	return s.byUser[userID], nil
}

func (s *fakeStore) SubjectTests(_ context.Context, subjectID int64) ([]journal.TestColumn, error) {
	return s.tests[subjectID], nil
}

func (s *fakeStore) SubjectAttempts(_ context.Context, subjectID int64) ([]journal.SubjectAttempt, error) {
	return s.attempts[subjectID], nil
}

func TestStudentJournalGroupsBySubject(t *testing.T) {
	st := &fakeStore{byUser: map[int64][]journal.AttemptEntry{
		7: {
			{AttemptID: "a3", TestID: 2, SubjectID: 20, SubjectName: "Physics", Score: 50, CreatedAt: 30},
			{AttemptID: "a2", TestID: 1, SubjectID: 10, SubjectName: "Math", Score: 90, CreatedAt: 20},
			{AttemptID: "a1", TestID: 1, SubjectID: 10, SubjectName: "Math", Score: 40, CreatedAt: 10},
		},
	}}
	g := journal.NewAggregator(st)

	sums, err := g.StudentJournal(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("expected 2 subjects, got %d", len(sums))
	}

	// subjects appear in order of most recent attempt
	phys, math := sums[0], sums[1]
	if phys.SubjectName != "Physics" || math.SubjectName != "Math" {
		t.Fatalf("unexpected subject order: %q, %q", phys.SubjectName, math.SubjectName)
	}
	if math.Count != 2 || math.Total != 130 || math.Max != 90 || math.Average != 65 {
		t.Fatalf("math summary wrong: %+v", math)
	}
	if phys.Count != 1 || phys.Average != 50 {
		t.Fatalf("physics summary wrong: %+v", phys)
	}
	// attempts within a subject keep newest-first order
	if math.Attempts[0].AttemptID != "a2" || math.Attempts[1].AttemptID != "a1" {
		t.Fatalf("attempt order wrong: %+v", math.Attempts)
	}
}

func TestStudentJournalIdempotent(t *testing.T) {
	st := &fakeStore{byUser: map[int64][]journal.AttemptEntry{
		7: {
			{AttemptID: "a2", TestID: 1, SubjectID: 10, SubjectName: "Math", Score: 90, CreatedAt: 20},
			{AttemptID: "a1", TestID: 1, SubjectID: 10, SubjectName: "Math", Score: 40, CreatedAt: 10},
		},
	}}
	g := journal.NewAggregator(st)

	first, err := g.StudentJournal(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := g.StudentJournal(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("journal must be identical across reads without new attempts")
	}
}

func TestStudentJournalEmpty(t *testing.T) {
	g := journal.NewAggregator(&fakeStore{byUser: map[int64][]journal.AttemptEntry{}})
	sums, err := g.StudentJournal(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sums) != 0 {
		t.Fatalf("no attempts must mean no subjects, got %d", len(sums))
	}
}

func TestSubjectJournalMatrix(t *testing.T) {
	st := &fakeStore{
		tests: map[int64][]journal.TestColumn{
			10: {
				{TestID: 1, TestName: "Algebra quiz", ModuleName: "Algebra"},
				{TestID: 2, TestName: "Geometry quiz", ModuleName: "Geometry"},
			},
		},
		attempts: map[int64][]journal.SubjectAttempt{
			10: {
				{UserID: 2, UserName: "Bob", TestID: 1, Score: 40},
				{UserID: 2, UserName: "Bob", TestID: 1, Score: 90},
				{UserID: 2, UserName: "Bob", TestID: 1, Score: 60},
				{UserID: 1, UserName: "Alice", TestID: 2, Score: 100},
			},
		},
	}
	g := journal.NewAggregator(st)

	m, err := g.SubjectJournal(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Rows) != 2 {
		t.Fatalf("expected 2 students, got %d", len(m.Rows))
	}
	// rows ordered by name
	if m.Rows[0].Name != "Alice" || m.Rows[1].Name != "Bob" {
		t.Fatalf("row order wrong: %q, %q", m.Rows[0].Name, m.Rows[1].Name)
	}

	bob := m.Rows[1]
	cell := bob.Cells[0]
	if cell.Best == nil || *cell.Best != 90 {
		t.Fatalf("best of [40,90,60] must be 90, got %v", cell.Best)
	}
	if cell.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", cell.Attempts)
	}
	// Bob never attempted the geometry quiz
	if bob.Cells[1].Best != nil || bob.Cells[1].Attempts != 0 {
		t.Fatalf("untouched cell must be empty: %+v", bob.Cells[1])
	}

	alice := m.Rows[0]
	if alice.Cells[1].Best == nil || *alice.Cells[1].Best != 100 || alice.Cells[1].Attempts != 1 {
		t.Fatalf("alice geometry cell wrong: %+v", alice.Cells[1])
	}
}
