package attempt

import (
	"context"
	"database/sql"
	"errors"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) TestKey(ctx context.Context, testID int64) (TestKey, error) {
	var key TestKey
	err := s.db.QueryRowContext(ctx,
		`SELECT id, attempts_limit FROM tests WHERE id=$1`, testID).
		Scan(&key.ID, &key.AttemptsLimit)
	if errors.Is(err, sql.ErrNoRows) {
		return TestKey{}, ErrTestNotFound
	}
	if err != nil {
		return TestKey{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT q.id, c.id, c.correct
		 FROM questions q
		 LEFT JOIN choices c ON c.question_id = q.id
		 WHERE q.test_id=$1
		 ORDER BY q.id, c.id`, testID)
	if err != nil {
		return TestKey{}, err
	}
	defer rows.Close()

	byID := map[int64]int{} // question id -> index in key.Questions
	for rows.Next() {
		var qid int64
		var cid sql.NullInt64
		var correct sql.NullBool
		if err := rows.Scan(&qid, &cid, &correct); err != nil {
			return TestKey{}, err
		}
		i, ok := byID[qid]
		if !ok {
			key.Questions = append(key.Questions, QuestionKey{ID: qid, Correct: map[int64]bool{}})
			i = len(key.Questions) - 1
			byID[qid] = i
		}
		if cid.Valid && correct.Valid && correct.Bool {
			key.Questions[i].Correct[cid.Int64] = true
		}
	}
	return key, rows.Err()
}

func (s *SQLStore) CountByUserTest(ctx context.Context, userID, testID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM test_attempts WHERE user_id=$1 AND test_id=$2`, userID, testID).
		Scan(&n)
	return n, err
}

func (s *SQLStore) LastScore(ctx context.Context, userID, testID int64) (float64, bool, error) {
	var score float64
	err := s.db.QueryRowContext(ctx,
		`SELECT score FROM test_attempts WHERE user_id=$1 AND test_id=$2
		 ORDER BY created_at DESC, id DESC LIMIT 1`, userID, testID).
		Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

func (s *SQLStore) Insert(ctx context.Context, a Attempt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO test_attempts (id, user_id, test_id, score, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		a.ID, a.UserID, a.TestID, a.Score, a.CreatedAt)
	return err
}
