package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a primary lookup misses.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned on unique-constraint violations (duplicate group
// name, duplicate schedule slot).
var ErrConflict = errors.New("already exists")

// Store is the persistence surface for the catalog: groups, subjects,
// modules, lectures, tests, questions, choices, users and schedules.
type Store interface {
	ListGroups(ctx context.Context) ([]StudyGroup, error)
	GetGroup(ctx context.Context, id int64) (StudyGroup, error)
	CreateGroup(ctx context.Context, name string) (StudyGroup, error)
	DeleteGroup(ctx context.Context, id int64) error

	ListSubjectsByGroup(ctx context.Context, groupID int64) ([]Subject, error)
	GetSubject(ctx context.Context, id int64) (Subject, error)
	CreateSubject(ctx context.Context, name string, groupID int64) (Subject, error)
	DeleteSubject(ctx context.Context, id int64) error

	ListModulesBySubject(ctx context.Context, subjectID int64) ([]Module, error)
	GetModule(ctx context.Context, id int64) (Module, error)
	CreateModule(ctx context.Context, name string, subjectID *int64) (Module, error)
	DeleteModule(ctx context.Context, id int64) error

	ListLectures(ctx context.Context) ([]Lecture, error)
	ListLecturesByGroup(ctx context.Context, groupID int64) ([]Lecture, error)
	ListLecturesByModule(ctx context.Context, moduleID int64) ([]Lecture, error)
	GetLecture(ctx context.Context, id int64) (Lecture, error)
	CreateLecture(ctx context.Context, title, fileKey string, moduleID int64, groupIDs []int64) (Lecture, error)
	DeleteLecture(ctx context.Context, id int64) error

	ListTestsByModule(ctx context.Context, moduleID int64) ([]Test, error)
	GetTest(ctx context.Context, id int64) (Test, error)
	CreateTest(ctx context.Context, name string, moduleID int64, attemptsLimit int) (Test, error)
	DeleteTest(ctx context.Context, id int64) error

	ListQuestions(ctx context.Context, testID int64) ([]Question, error)
	CreateQuestion(ctx context.Context, testID int64, text string) (Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
	CreateChoice(ctx context.Context, questionID int64, text string, correct bool) (Choice, error)
	DeleteChoice(ctx context.Context, id int64) error

	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, u User, passwordHash string) (User, error)
	// UpdateUser rewrites full name, role and group; an empty passwordHash
	// keeps the stored one.
	UpdateUser(ctx context.Context, u User, passwordHash string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	DeleteUser(ctx context.Context, id int64) error

	ListSchedulesByGroup(ctx context.Context, groupID int64) ([]Schedule, error)
	CreateSchedule(ctx context.Context, s Schedule) (Schedule, error)
	DeleteSchedule(ctx context.Context, id int64) error
}
