package models

import (
	"database/sql"
	"time"
)

const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Account is a row from either the teachers or the admins table.
// SessionExpiry is unix milliseconds; invalid means the account never signed in.
type Account struct {
	ID            string        `db:"id" json:"id"`
	Username      string        `db:"username" json:"username"`
	Password      string        `db:"password" json:"-"`
	DisplayName   string        `db:"display_name" json:"display_name,omitempty"`
	Role          string        `db:"role" json:"role"`
	SessionExpiry sql.NullInt64 `db:"session_expiry" json:"-"`
}

// SessionValid reports whether the account holds an unexpired session at now.
func (a *Account) SessionValid(now time.Time) bool {
	return a.SessionExpiry.Valid && a.SessionExpiry.Int64 >= now.UnixMilli()
}

// View is the public-safe projection returned after sign-in.
func (a *Account) View() UserView {
	v := UserView{ID: a.ID, Username: a.Username, Role: a.Role}
	if a.Role == RoleTeacher {
		v.DisplayName = a.DisplayName
	}
	return v
}

type UserView struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role"`
}

// ExitPermission is immutable once stored. TeacherDisplayName is copied from
// the teacher at creation time and never refreshed.
type ExitPermission struct {
	ID                 string `db:"id" json:"id"`
	StudentName        string `db:"student_name" json:"student_name"`
	TeacherUsername    string `db:"teacher_username" json:"teacher_username"`
	TeacherDisplayName string `db:"teacher_display_name" json:"teacher_display_name"`
	Timestamp          int64  `db:"created_at" json:"timestamp"`
	Date               string `db:"exit_date" json:"date"`
	Time               string `db:"exit_time" json:"time"`
}

type StudentSummary struct {
	StudentName string `json:"student_name"`
	Count       int    `json:"count"`
	FirstExit   int64  `json:"first_exit"`
	LastExit    int64  `json:"last_exit"`
}

type TeacherSummary struct {
	TeacherUsername    string `json:"teacher_username"`
	TeacherDisplayName string `json:"teacher_display_name"`
	Count              int    `json:"count"`
}
