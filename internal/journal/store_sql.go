package journal

import (
	"context"
	"database/sql"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) AttemptsByUser(ctx context.Context, userID int64) ([]AttemptEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, t.id, t.name, sub.id, sub.name, a.score, a.created_at
		 FROM test_attempts a
		 JOIN tests t ON t.id = a.test_id
		 JOIN modules m ON m.id = t.module_id
		 JOIN subjects sub ON sub.id = m.subject_id
		 WHERE a.user_id=$1
		 ORDER BY a.created_at DESC, a.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AttemptEntry
	for rows.Next() {
		var e AttemptEntry
		if err := rows.Scan(&e.AttemptID, &e.TestID, &e.TestName, &e.SubjectID, &e.SubjectName, &e.Score, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) SubjectTests(ctx context.Context, subjectID int64) ([]TestColumn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.name, m.name
		 FROM tests t
		 JOIN modules m ON m.id = t.module_id
		 WHERE m.subject_id=$1
		 ORDER BY m.name, t.name`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TestColumn
	for rows.Next() {
		var t TestColumn
		if err := rows.Scan(&t.TestID, &t.TestName, &t.ModuleName); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLStore) SubjectAttempts(ctx context.Context, subjectID int64) ([]SubjectAttempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.full_name, a.test_id, a.score
		 FROM test_attempts a
		 JOIN users u ON u.id = a.user_id
		 JOIN tests t ON t.id = a.test_id
		 JOIN modules m ON m.id = t.module_id
		 WHERE m.subject_id=$1 AND u.role='student'
		 ORDER BY a.created_at, a.id`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SubjectAttempt
	for rows.Next() {
		var a SubjectAttempt
		if err := rows.Scan(&a.UserID, &a.UserName, &a.TestID, &a.Score); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
