package journal

import (
	"context"
	"sort"
)

// AttemptEntry is one attempt joined with its test and subject, as read by
// the student journal. Only attempts whose test sits under a module with a
// non-null subject are included.
type AttemptEntry struct {
	AttemptID   string  `json:"attempt_id"`
	TestID      int64   `json:"test_id"`
	TestName    string  `json:"test_name"`
	SubjectID   int64   `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	Score       float64 `json:"score"`
	CreatedAt   int64   `json:"created_at"`
}

// SubjectSummary aggregates one student's attempts within a subject.
type SubjectSummary struct {
	SubjectID   int64          `json:"subject_id"`
	SubjectName string         `json:"subject_name"`
	Attempts    []AttemptEntry `json:"attempts"` // most recent first
	Total       float64        `json:"total_score"`
	Max         float64        `json:"max_score"`
	Count       int            `json:"count"`
	Average     float64        `json:"average"`
}

// TestColumn is one column of the admin matrix, ordered by
// (module name, test name).
type TestColumn struct {
	TestID     int64  `json:"test_id"`
	TestName   string `json:"test_name"`
	ModuleName string `json:"module_name"`
}

// Cell is a (student, test) intersection: best score across attempts, or
// Best == nil when the student never attempted the test.
type Cell struct {
	Best     *float64 `json:"best_score"`
	Attempts int      `json:"attempts"`
}

type MatrixRow struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Cells  []Cell `json:"cells"` // index-aligned with Matrix.Tests
}

type Matrix struct {
	Tests []TestColumn `json:"tests"`
	Rows  []MatrixRow  `json:"rows"`
}

// SubjectAttempt is one attempt within a subject, with the student attached.
// The store only returns attempts by users with the student role.
type SubjectAttempt struct {
	UserID   int64
	UserName string
	TestID   int64
	Score    float64
}

type Store interface {
	// AttemptsByUser lists a user's attempts joined to subject, newest
	// first, skipping tests whose module has no subject.
	AttemptsByUser(ctx context.Context, userID int64) ([]AttemptEntry, error)
	// SubjectTests lists all tests under a subject ordered by
	// (module name, test name).
	SubjectTests(ctx context.Context, subjectID int64) ([]TestColumn, error)
	// SubjectAttempts lists every student attempt on any test under the
	// subject.
	SubjectAttempts(ctx context.Context, subjectID int64) ([]SubjectAttempt, error)
}

// Aggregator computes journal views from attempt history. Pure reads: two
// calls without new attempts in between return identical results.
type Aggregator struct {
	store Store
}

func NewAggregator(store Store) *Aggregator { return &Aggregator{store: store} }

// StudentJournal groups a student's attempts by subject. Subjects with no
// attempts never appear.
func (g *Aggregator) StudentJournal(ctx context.Context, userID int64) ([]SubjectSummary, error) {
	entries, err := g.store.AttemptsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byID := map[int64]int{} // subject id -> index in out
	var out []SubjectSummary
	for _, e := range entries {
		i, ok := byID[e.SubjectID]
		if !ok {
			out = append(out, SubjectSummary{SubjectID: e.SubjectID, SubjectName: e.SubjectName})
			i = len(out) - 1
			byID[e.SubjectID] = i
		}
		s := &out[i]
		s.Attempts = append(s.Attempts, e)
		s.Total += e.Score
		if e.Score > s.Max {
			s.Max = e.Score
		}
		s.Count++
	}
	for i := range out {
		if out[i].Count > 0 {
			out[i].Average = out[i].Total / float64(out[i].Count)
		}
	}
	return out, nil
}

// SubjectJournal builds the admin matrix for one subject: rows are students
// with at least one attempt under the subject (ordered by name), columns all
// of the subject's tests, each cell the best score plus attempt count.
func (g *Aggregator) SubjectJournal(ctx context.Context, subjectID int64) (Matrix, error) {
	tests, err := g.store.SubjectTests(ctx, subjectID)
	if err != nil {
		return Matrix{}, err
	}
	attempts, err := g.store.SubjectAttempts(ctx, subjectID)
	if err != nil {
		return Matrix{}, err
	}

	col := map[int64]int{}
	for i, t := range tests {
		col[t.TestID] = i
	}

	rowByUser := map[int64]int{}
	var rows []MatrixRow
	for _, a := range attempts {
		i, ok := rowByUser[a.UserID]
		if !ok {
			rows = append(rows, MatrixRow{UserID: a.UserID, Name: a.UserName, Cells: make([]Cell, len(tests))})
			i = len(rows) - 1
			rowByUser[a.UserID] = i
		}
		j, ok := col[a.TestID]
		if !ok {
			continue
		}
		c := &rows[i].Cells[j]
		c.Attempts++
		if c.Best == nil || a.Score > *c.Best {
			score := a.Score
			c.Best = &score
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].UserID < rows[j].UserID
	})

	return Matrix{Tests: tests, Rows: rows}, nil
}
