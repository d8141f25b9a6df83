package catalog

import (
	"context"
	"database/sql"
)

func (s *SQLStore) scanLectures(rows *sql.Rows) ([]Lecture, error) {
	defer rows.Close()
	var out []Lecture
	for rows.Next() {
		var l Lecture
		if err := rows.Scan(&l.ID, &l.Title, &l.FileKey, &l.ModuleID); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListLectures(ctx context.Context) ([]Lecture, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, file_key, module_id FROM lectures ORDER BY title`)
	if err != nil {
		return nil, err
	}
	return s.scanLectures(rows)
}

func (s *SQLStore) ListLecturesByGroup(ctx context.Context, groupID int64) ([]Lecture, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT l.id, l.title, l.file_key, l.module_id
		 FROM lectures l
		 JOIN lecture_groups lg ON lg.lecture_id = l.id
		 WHERE lg.group_id=$1
		 ORDER BY l.title`, groupID)
	if err != nil {
		return nil, err
	}
	return s.scanLectures(rows)
}

func (s *SQLStore) ListLecturesByModule(ctx context.Context, moduleID int64) ([]Lecture, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, file_key, module_id FROM lectures WHERE module_id=$1 ORDER BY title`, moduleID)
	if err != nil {
		return nil, err
	}
	return s.scanLectures(rows)
}

func (s *SQLStore) GetLecture(ctx context.Context, id int64) (Lecture, error) {
	var l Lecture
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, file_key, module_id FROM lectures WHERE id=$1`, id).
		Scan(&l.ID, &l.Title, &l.FileKey, &l.ModuleID)
	if err != nil {
		return Lecture{}, notFoundOr(err)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id FROM lecture_groups WHERE lecture_id=$1`, id)
	if err != nil {
		return Lecture{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var g int64
		if err := rows.Scan(&g); err != nil {
			return Lecture{}, err
		}
		l.GroupIDs = append(l.GroupIDs, g)
	}
	return l, rows.Err()
}

func (s *SQLStore) CreateLecture(ctx context.Context, title, fileKey string, moduleID int64, groupIDs []int64) (Lecture, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Lecture{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	l := Lecture{Title: title, FileKey: fileKey, ModuleID: moduleID, GroupIDs: groupIDs}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO lectures (title, file_key, module_id) VALUES ($1,$2,$3) RETURNING id`,
		title, fileKey, moduleID).Scan(&l.ID)
	if err != nil {
		return Lecture{}, err
	}
	for _, g := range groupIDs {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO lecture_groups (lecture_id, group_id) VALUES ($1,$2)`, l.ID, g); err != nil {
			return Lecture{}, err
		}
	}
	if err = tx.Commit(); err != nil {
		return Lecture{}, err
	}
	return l, nil
}

func (s *SQLStore) DeleteLecture(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lectures WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) ListTestsByModule(ctx context.Context, moduleID int64) ([]Test, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, module_id, attempts_limit FROM tests WHERE module_id=$1 ORDER BY name`, moduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Test
	for rows.Next() {
		var t Test
		if err := rows.Scan(&t.ID, &t.Name, &t.ModuleID, &t.AttemptsLimit); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetTest(ctx context.Context, id int64) (Test, error) {
	var t Test
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, module_id, attempts_limit FROM tests WHERE id=$1`, id).
		Scan(&t.ID, &t.Name, &t.ModuleID, &t.AttemptsLimit)
	if err != nil {
		return Test{}, notFoundOr(err)
	}
	return t, nil
}

func (s *SQLStore) CreateTest(ctx context.Context, name string, moduleID int64, attemptsLimit int) (Test, error) {
	if attemptsLimit <= 0 {
		attemptsLimit = 3
	}
	t := Test{Name: name, ModuleID: moduleID, AttemptsLimit: attemptsLimit}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO tests (name, module_id, attempts_limit) VALUES ($1,$2,$3) RETURNING id`,
		name, moduleID, attemptsLimit).Scan(&t.ID)
	if err != nil {
		return Test{}, err
	}
	return t, nil
}

func (s *SQLStore) DeleteTest(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListQuestions returns a test's questions with their choices, correctness
// flags included. Callers serving students strip the flags.
func (s *SQLStore) ListQuestions(ctx context.Context, testID int64) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, test_id, text FROM questions WHERE test_id=$1 ORDER BY id`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.TestID, &q.Text); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		crows, err := s.db.QueryContext(ctx,
			`SELECT id, question_id, text, correct FROM choices WHERE question_id=$1 ORDER BY id`, out[i].ID)
		if err != nil {
			return nil, err
		}
		for crows.Next() {
			var c Choice
			if err := crows.Scan(&c.ID, &c.QuestionID, &c.Text, &c.Correct); err != nil {
				crows.Close()
				return nil, err
			}
			out[i].Choices = append(out[i].Choices, c)
		}
		if err := crows.Err(); err != nil {
			crows.Close()
			return nil, err
		}
		crows.Close()
	}
	return out, nil
}

func (s *SQLStore) CreateQuestion(ctx context.Context, testID int64, text string) (Question, error) {
	q := Question{TestID: testID, Text: text}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO questions (test_id, text) VALUES ($1,$2) RETURNING id`, testID, text).
		Scan(&q.ID)
	if err != nil {
		return Question{}, err
	}
	return q, nil
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) CreateChoice(ctx context.Context, questionID int64, text string, correct bool) (Choice, error) {
	c := Choice{QuestionID: questionID, Text: text, Correct: correct}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO choices (question_id, text, correct) VALUES ($1,$2,$3) RETURNING id`,
		questionID, text, correct).Scan(&c.ID)
	if err != nil {
		return Choice{}, err
	}
	return c, nil
}

func (s *SQLStore) DeleteChoice(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM choices WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
