package attempt

import (
	"context"
	"testing"
	"time"
)

type captureStore struct {
	key  TestKey
	last Attempt
}

func (s *captureStore) TestKey(context.Context, int64) (TestKey, error) { return s.key, nil }
func (s *captureStore) CountByUserTest(context.Context, int64, int64) (int, error) {
	return 0, nil
}
func (s *captureStore) LastScore(context.Context, int64, int64) (float64, bool, error) {
	return 0, false, nil
}
func (s *captureStore) Insert(_ context.Context, a Attempt) error {
	s.last = a
	return nil
}

// Attempts created within the same second must still order by CreatedAt, so
// the engine records millisecond precision.
func TestSubmitRecordsMillisecondTimestamps(t *testing.T) {
	st := &captureStore{key: TestKey{ID: 1, AttemptsLimit: 3}}
	e := NewEngine(st)

	at := time.Date(2026, 3, 1, 12, 0, 0, 250_000_000, time.UTC)
	e.now = func() time.Time { return at }

	if _, err := e.Submit(context.Background(), 1, 1, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got, want := st.last.CreatedAt, at.UnixMilli(); got != want {
		t.Fatalf("created_at = %d, want %d", got, want)
	}
	if st.last.CreatedAt%1000 != 250 {
		t.Fatalf("created_at = %d, sub-second part lost", st.last.CreatedAt)
	}
}
