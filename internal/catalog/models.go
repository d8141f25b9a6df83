package catalog

import "github.com/studyhall/studyhall-lms/internal/access"

type StudyGroup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Subject struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	GroupID int64  `json:"group_id"`
}

type Module struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SubjectID *int64 `json:"subject_id,omitempty"`
}

type Lecture struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	FileKey  string  `json:"file_key"`
	ModuleID int64   `json:"module_id"`
	GroupIDs []int64 `json:"group_ids,omitempty"` // assigned groups controlling visibility
}

type Test struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ModuleID      int64  `json:"module_id"`
	AttemptsLimit int    `json:"attempts_limit"`
}

type Question struct {
	ID      int64    `json:"id"`
	TestID  int64    `json:"test_id"`
	Text    string   `json:"text"`
	Choices []Choice `json:"choices,omitempty"`
}

type Choice struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"text"`
	Correct    bool   `json:"correct,omitempty"`
}

type User struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	FullName     string      `json:"full_name"`
	Role         access.Role `json:"role"`
	StudyGroupID *int64      `json:"study_group_id,omitempty"`
}

type Schedule struct {
	ID        int64  `json:"id"`
	GroupID   int64  `json:"group_id"`
	DayOfWeek int    `json:"day_of_week"` // 1=Monday .. 7=Sunday
	Time      string `json:"time"`        // HH:MM, start of the lesson
	Subject   string `json:"subject"`     // free-text label, not a foreign key
	Room      string `json:"room,omitempty"`
}
