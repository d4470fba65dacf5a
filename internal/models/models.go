package models

import (
	"time"
)

// User represents an authenticated user of the system.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserHistory is the per-user aggregate holding every stored lecture interaction.
// There is at most one per user.
type UserHistory struct {
	UserID   string         `json:"user_id"`
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Lectures []LectureEntry `json:"lectures"`
}

// LectureEntry is one stored lecture summary plus its quiz interactions.
// It is only ever mutated by appending to Students.
type LectureEntry struct {
	ID              string          `json:"_id"`
	LectureSummary  string          `json:"lecture_summary"`
	LectureFileName string          `json:"lecture_file_name"`
	CreatedAt       time.Time       `json:"created_at"`
	Students        []StudentRecord `json:"students"`
}

// StudentRecord is one question/answer/evaluation triple within a lecture.
type StudentRecord struct {
	Question   string `json:"question"`
	Response   string `json:"response"`
	Evaluation string `json:"evaluation"`
}

// Lecture finds a lecture by id.
func (h *UserHistory) Lecture(id string) (*LectureEntry, bool) {
	for i := range h.Lectures {
		if h.Lectures[i].ID == id {
			return &h.Lectures[i], true
		}
	}
	return nil, false
}
