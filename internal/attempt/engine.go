package attempt

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Store interface {
	// TestKey loads the grading key for a test, or ErrTestNotFound.
	TestKey(ctx context.Context, testID int64) (TestKey, error)
	// CountByUserTest counts prior attempts for a (user, test) pair.
	CountByUserTest(ctx context.Context, userID, testID int64) (int, error)
	// LastScore returns the most recent attempt's score for a (user, test)
	// pair; ok=false when there is none.
	LastScore(ctx context.Context, userID, testID int64) (score float64, ok bool, err error)
	// Insert persists one attempt record.
	Insert(ctx context.Context, a Attempt) error
}

// Engine scores submissions and enforces the per-user-per-test attempt cap.
//
// The cap check and the insert are two statements without a serializing
// lock, so two concurrent submissions from the same user can both pass the
// check and exceed the nominal limit by one. Accepted: the limit is a UX
// guard, not a billing invariant.
type Engine struct {
	store Store
	now   func() time.Time
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// Submit scores answers (question id -> chosen choice id) against the test's
// key, enforces the attempt cap and persists exactly one attempt record.
func (e *Engine) Submit(ctx context.Context, userID, testID int64, answers map[int64]int64) (Result, error) {
	key, err := e.store.TestKey(ctx, testID)
	if err != nil {
		return Result{}, err
	}

	used, err := e.store.CountByUserTest(ctx, userID, testID)
	if err != nil {
		return Result{}, err
	}
	if used >= key.AttemptsLimit {
		last, _, err := e.store.LastScore(ctx, userID, testID)
		if err != nil {
			return Result{}, err
		}
		return Result{}, &ExhaustedError{Limit: key.AttemptsLimit, LastScore: last}
	}

	score := Score(key.Questions, answers)

	a := Attempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		TestID:    testID,
		Score:     score,
		CreatedAt: e.now().UnixMilli(),
	}
	if err := e.store.Insert(ctx, a); err != nil {
		return Result{}, err
	}

	return Result{
		Score:         score,
		AttemptsLeft:  key.AttemptsLimit - (used + 1),
		AttemptsLimit: key.AttemptsLimit,
	}, nil
}

// Status reports attempts used and remaining without submitting.
func (e *Engine) Status(ctx context.Context, userID, testID int64) (Status, error) {
	key, err := e.store.TestKey(ctx, testID)
	if err != nil {
		return Status{}, err
	}
	used, err := e.store.CountByUserTest(ctx, userID, testID)
	if err != nil {
		return Status{}, err
	}
	left := key.AttemptsLimit - used
	if left < 0 {
		left = 0
	}
	return Status{AttemptsUsed: used, AttemptsLeft: left, AttemptsLimit: key.AttemptsLimit}, nil
}

// Score computes (correct/total)*100 over the question keys. A test with no
// questions scores 0.
func Score(questions []QuestionKey, answers map[int64]int64) float64 {
	total := len(questions)
	if total == 0 {
		return 0
	}
	correct := 0
	for _, q := range questions {
		choiceID, ok := answers[q.ID]
		if !ok {
			continue
		}
		if q.Correct[choiceID] {
			correct++
		}
	}
	return float64(correct) / float64(total) * 100
}
