package catalog

import (
	"context"
	"database/sql"

	"github.com/studyhall/studyhall-lms/internal/access"
)

func (s *SQLStore) GetUser(ctx context.Context, id int64) (User, error) {
	var u User
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, full_name, role, study_group_id FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Username, &u.FullName, &role, &u.StudyGroupID)
	if err != nil {
		return User{}, notFoundOr(err)
	}
	r, err := access.ParseRole(role)
	if err != nil {
		return User{}, err
	}
	u.Role = r
	return u, nil
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var u User
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, full_name, role, study_group_id FROM users WHERE username=$1`, username).
		Scan(&u.ID, &u.Username, &u.FullName, &role, &u.StudyGroupID)
	if err != nil {
		return User{}, notFoundOr(err)
	}
	r, err := access.ParseRole(role)
	if err != nil {
		return User{}, err
	}
	u.Role = r
	return u, nil
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, full_name, role, study_group_id FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		var role string
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &role, &u.StudyGroupID); err != nil {
			return nil, err
		}
		r, err := access.ParseRole(role)
		if err != nil {
			return nil, err
		}
		u.Role = r
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreateUser(ctx context.Context, u User, passwordHash string) (User, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, full_name, password_hash, role, study_group_id)
		 VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		u.Username, u.FullName, passwordHash, u.Role.String(), u.StudyGroupID).Scan(&u.ID)
	if isUniqueViolation(err) {
		return User{}, ErrConflict
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *SQLStore) UpdateUser(ctx context.Context, u User, passwordHash string) error {
	var res sql.Result
	var err error
	if passwordHash != "" {
		res, err = s.db.ExecContext(ctx,
			`UPDATE users SET full_name=$1, role=$2, study_group_id=$3, password_hash=$4 WHERE id=$5`,
			u.FullName, u.Role.String(), u.StudyGroupID, passwordHash, u.ID)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE users SET full_name=$1, role=$2, study_group_id=$3 WHERE id=$4`,
			u.FullName, u.Role.String(), u.StudyGroupID, u.ID)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash=$1 WHERE id=$2`, passwordHash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) ListSchedulesByGroup(ctx context.Context, groupID int64) ([]Schedule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, day_of_week, time, subject, room
		 FROM schedules WHERE group_id=$1 ORDER BY day_of_week, time`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Schedule
	for rows.Next() {
		var sc Schedule
		if err := rows.Scan(&sc.ID, &sc.GroupID, &sc.DayOfWeek, &sc.Time, &sc.Subject, &sc.Room); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreateSchedule(ctx context.Context, sc Schedule) (Schedule, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO schedules (group_id, day_of_week, time, subject, room)
		 VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		sc.GroupID, sc.DayOfWeek, sc.Time, sc.Subject, sc.Room).Scan(&sc.ID)
	if isUniqueViolation(err) {
		// one lesson per (group, day, time) slot
		return Schedule{}, ErrConflict
	}
	if err != nil {
		return Schedule{}, err
	}
	return sc, nil
}

func (s *SQLStore) DeleteSchedule(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
