package attempt

import (
	"errors"
	"fmt"
)

// Attempt is an immutable record of one scored submission. It is created by
// Engine.Submit and never updated afterwards.
type Attempt struct {
	ID        string  `json:"id"`
	UserID    int64   `json:"user_id"`
	TestID    int64   `json:"test_id"`
	Score     float64 `json:"score"`      // 0..100
	CreatedAt int64   `json:"created_at"` // unix milliseconds, orders attempts within a second
}

// Result is what a successful submission reports back to the student.
type Result struct {
	Score         float64 `json:"score"`
	AttemptsLeft  int     `json:"attempts_left"`
	AttemptsLimit int     `json:"attempts_limit"`
}

// Status describes where a user stands against a test's attempt cap before
// submitting.
type Status struct {
	AttemptsUsed  int `json:"attempts_used"`
	AttemptsLeft  int `json:"attempts_left"`
	AttemptsLimit int `json:"attempts_limit"`
}

var ErrTestNotFound = errors.New("test not found")

// ExhaustedError is returned when the attempt cap is reached. It carries the
// most recent recorded score so the caller can show it.
type ExhaustedError struct {
	Limit     int
	LastScore float64
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("attempts exhausted: limit %d reached, last score %.1f", e.Limit, e.LastScore)
}

// QuestionKey is the grading view of one question: its id and the set of its
// own choice ids that are marked correct. A submitted choice id outside the
// set (wrong choice, another question's choice, or garbage) counts as
// incorrect, never as an error.
type QuestionKey struct {
	ID      int64
	Correct map[int64]bool
}

// TestKey is everything the engine needs to score a submission.
type TestKey struct {
	ID            int64
	AttemptsLimit int
	Questions     []QuestionKey
}
