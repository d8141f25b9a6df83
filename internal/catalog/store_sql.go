package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// SQLStore implements Store over database/sql. Queries use $1 placeholders,
// which both the pgx stdlib driver and modernc sqlite accept.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // sqlite
		strings.Contains(msg, "duplicate key") // postgres
}

func notFoundOr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *SQLStore) ListGroups(ctx context.Context) ([]StudyGroup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM study_groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StudyGroup
	for rows.Next() {
		var g StudyGroup
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetGroup(ctx context.Context, id int64) (StudyGroup, error) {
	var g StudyGroup
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM study_groups WHERE id=$1`, id).
		Scan(&g.ID, &g.Name)
	if err != nil {
		return StudyGroup{}, notFoundOr(err)
	}
	return g, nil
}

func (s *SQLStore) CreateGroup(ctx context.Context, name string) (StudyGroup, error) {
	var g StudyGroup
	g.Name = name
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO study_groups (name) VALUES ($1) RETURNING id`, name).Scan(&g.ID)
	if isUniqueViolation(err) {
		return StudyGroup{}, ErrConflict
	}
	if err != nil {
		return StudyGroup{}, err
	}
	return g, nil
}

func (s *SQLStore) DeleteGroup(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM study_groups WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) ListSubjectsByGroup(ctx context.Context, groupID int64) ([]Subject, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, group_id FROM subjects WHERE group_id=$1 ORDER BY name`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Subject
	for rows.Next() {
		var sub Subject
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.GroupID); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetSubject(ctx context.Context, id int64) (Subject, error) {
	var sub Subject
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, group_id FROM subjects WHERE id=$1`, id).
		Scan(&sub.ID, &sub.Name, &sub.GroupID)
	if err != nil {
		return Subject{}, notFoundOr(err)
	}
	return sub, nil
}

func (s *SQLStore) CreateSubject(ctx context.Context, name string, groupID int64) (Subject, error) {
	sub := Subject{Name: name, GroupID: groupID}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO subjects (name, group_id) VALUES ($1,$2) RETURNING id`, name, groupID).
		Scan(&sub.ID)
	if err != nil {
		return Subject{}, err
	}
	return sub, nil
}

func (s *SQLStore) DeleteSubject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM subjects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) ListModulesBySubject(ctx context.Context, subjectID int64) ([]Module, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, subject_id FROM modules WHERE subject_id=$1 ORDER BY name`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Module
	for rows.Next() {
		var m Module
		if err := rows.Scan(&m.ID, &m.Name, &m.SubjectID); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetModule(ctx context.Context, id int64) (Module, error) {
	var m Module
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, subject_id FROM modules WHERE id=$1`, id).
		Scan(&m.ID, &m.Name, &m.SubjectID)
	if err != nil {
		return Module{}, notFoundOr(err)
	}
	return m, nil
}

func (s *SQLStore) CreateModule(ctx context.Context, name string, subjectID *int64) (Module, error) {
	m := Module{Name: name, SubjectID: subjectID}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO modules (name, subject_id) VALUES ($1,$2) RETURNING id`, name, subjectID).
		Scan(&m.ID)
	if err != nil {
		return Module{}, err
	}
	return m, nil
}

func (s *SQLStore) DeleteModule(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM modules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
