package attempt_test

import (
	"context"
	"errors"
	"testing"

	"github.com/studyhall/studyhall-lms/internal/attempt"
)

type fakeStore struct {
	keys     map[int64]attempt.TestKey
	attempts []attempt.Attempt
}

func newFakeStore() *fakeStore {
	return &fakeStore{keys: map[int64]attempt.TestKey{}}
}

func (s *fakeStore) TestKey(_ context.Context, testID int64) (attempt.TestKey, error) {
	k, ok := s.keys[testID]
	if !ok {
		return attempt.TestKey{}, attempt.ErrTestNotFound
	}
	return k, nil
}

func (s *fakeStore) CountByUserTest(_ context.Context, userID, testID int64) (int, error) {
	n := 0
	for _, a := range s.attempts {
		if a.UserID == userID && a.TestID == testID {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) LastScore(_ context.Context, userID, testID int64) (float64, bool, error) {
	for i := len(s.attempts) - 1; i >= 0; i-- {
		if s.attempts[i].UserID == userID && s.attempts[i].TestID == testID {
			return s.attempts[i].Score, true, nil
		}
	}
	return 0, false, nil
}

func (s *fakeStore) Insert(_ context.Context, a attempt.Attempt) error {
	s.attempts = append(s.attempts, a)
	return nil
}

// fourQuestionKey builds a test with 4 questions; choice 10*q+1 is correct
// for question q, choice 10*q+2 is wrong.
func fourQuestionKey(limit int) attempt.TestKey {
	k := attempt.TestKey{ID: 1, AttemptsLimit: limit}
	for q := int64(1); q <= 4; q++ {
		k.Questions = append(k.Questions, attempt.QuestionKey{
			ID:      q,
			Correct: map[int64]bool{q*10 + 1: true},
		})
	}
	return k
}

func TestSubmitScoresPartialAnswers(t *testing.T) {
	st := newFakeStore()
	st.keys[1] = fourQuestionKey(3)
	eng := attempt.NewEngine(st)

	// 3 correct, 1 unanswered -> 75.0
	res, err := eng.Submit(context.Background(), 7, 1, map[int64]int64{1: 11, 2: 21, 3: 31})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 75.0 {
		t.Fatalf("expected score 75.0, got %v", res.Score)
	}
	if res.AttemptsLeft != 2 || res.AttemptsLimit != 3 {
		t.Fatalf("expected 2 of 3 attempts left, got %d of %d", res.AttemptsLeft, res.AttemptsLimit)
	}
	if len(st.attempts) != 1 {
		t.Fatalf("expected exactly one attempt persisted, got %d", len(st.attempts))
	}
}

func TestSubmitZeroQuestions(t *testing.T) {
	st := newFakeStore()
	st.keys[2] = attempt.TestKey{ID: 2, AttemptsLimit: 3}
	eng := attempt.NewEngine(st)

	res, err := eng.Submit(context.Background(), 7, 2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 0 {
		t.Fatalf("empty test must score 0, got %v", res.Score)
	}
}

func TestSubmitForeignChoiceIsIncorrect(t *testing.T) {
	st := newFakeStore()
	st.keys[1] = fourQuestionKey(3)
	eng := attempt.NewEngine(st)

	// Question 1 answered with question 2's correct choice, question 2 with a
	// wrong choice, question 3 with an id that belongs to nothing.
	res, err := eng.Submit(context.Background(), 7, 1, map[int64]int64{1: 21, 2: 22, 3: 9999, 4: 41})
	if err != nil {
		t.Fatalf("stray choice ids must not be fatal: %v", err)
	}
	if res.Score != 25.0 {
		t.Fatalf("expected only question 4 scored, score 25.0, got %v", res.Score)
	}
}

func TestSubmitEnforcesAttemptCap(t *testing.T) {
	st := newFakeStore()
	st.keys[1] = fourQuestionKey(2)
	eng := attempt.NewEngine(st)
	ctx := context.Background()

	// first attempt scores 25.0, second 75.0
	answers := []map[int64]int64{
		{1: 11},
		{1: 11, 2: 21, 3: 31},
	}
	for i, a := range answers {
		if _, err := eng.Submit(ctx, 7, 1, a); err != nil {
			t.Fatalf("attempt %d: unexpected error: %v", i+1, err)
		}
	}

	_, err := eng.Submit(ctx, 7, 1, map[int64]int64{1: 11})
	var ex *attempt.ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if ex.Limit != 2 {
		t.Fatalf("expected limit 2, got %d", ex.Limit)
	}
	// reports the score of the last (2nd) attempt
	if ex.LastScore != 75.0 {
		t.Fatalf("expected last score 75.0, got %v", ex.LastScore)
	}
	if len(st.attempts) != 2 {
		t.Fatalf("rejected submission must not persist, got %d attempts", len(st.attempts))
	}
}

func TestSubmitCapIsPerUser(t *testing.T) {
	st := newFakeStore()
	st.keys[1] = fourQuestionKey(1)
	eng := attempt.NewEngine(st)
	ctx := context.Background()

	if _, err := eng.Submit(ctx, 7, 1, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// another user still has their own budget
	if _, err := eng.Submit(ctx, 8, 1, nil); err != nil {
		t.Fatalf("cap must be per (user, test): %v", err)
	}
}

func TestSubmitUnknownTest(t *testing.T) {
	eng := attempt.NewEngine(newFakeStore())
	_, err := eng.Submit(context.Background(), 7, 404, nil)
	if !errors.Is(err, attempt.ErrTestNotFound) {
		t.Fatalf("expected ErrTestNotFound, got %v", err)
	}
}

func TestStatus(t *testing.T) {
	st := newFakeStore()
	st.keys[1] = fourQuestionKey(3)
	eng := attempt.NewEngine(st)
	ctx := context.Background()

	stat, err := eng.Status(ctx, 7, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat.AttemptsUsed != 0 || stat.AttemptsLeft != 3 {
		t.Fatalf("fresh status wrong: %+v", stat)
	}

	if _, err := eng.Submit(ctx, 7, 1, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stat, err = eng.Status(ctx, 7, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat.AttemptsUsed != 1 || stat.AttemptsLeft != 2 {
		t.Fatalf("status after one attempt wrong: %+v", stat)
	}
}
