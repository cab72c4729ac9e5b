package db

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"exitpass/models"
)

const permissionColumns = "id, student_name, teacher_username, teacher_display_name, created_at, exit_date, exit_time"

// Newest first; seq keeps insertion order between records sharing a millisecond.
const permissionOrder = " ORDER BY created_at DESC, seq DESC"

// InsertPermission appends p to the exit permission log.
func InsertPermission(ctx context.Context, e sqlx.ExtContext, p *models.ExitPermission) error {
	_, err := e.ExecContext(ctx, e.Rebind(
		"INSERT INTO exit_permissions ("+permissionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)"),
		p.ID, p.StudentName, p.TeacherUsername, p.TeacherDisplayName, p.Timestamp, p.Date, p.Time)
	if err != nil {
		return errors.Wrap(err, "inserting exit permission")
	}
	return nil
}

func selectPermissions(ctx context.Context, e sqlx.ExtContext, where string, args ...interface{}) ([]models.ExitPermission, error) {
	perms := []models.ExitPermission{}
	q := "SELECT " + permissionColumns + " FROM exit_permissions" + where + permissionOrder
	if err := sqlx.SelectContext(ctx, e, &perms, e.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying exit permissions")
	}
	return perms, nil
}

// ListPermissions returns every exit permission, newest first.
func ListPermissions(ctx context.Context, e sqlx.ExtContext) ([]models.ExitPermission, error) {
	return selectPermissions(ctx, e, "")
}

// ListPermissionsByTeacher returns the permissions issued by username, newest first.
func ListPermissionsByTeacher(ctx context.Context, e sqlx.ExtContext, username string) ([]models.ExitPermission, error) {
	return selectPermissions(ctx, e, " WHERE teacher_username = ?", username)
}

// ListPermissionsByStudent returns the permissions recorded for an exact student name.
func ListPermissionsByStudent(ctx context.Context, e sqlx.ExtContext, studentName string) ([]models.ExitPermission, error) {
	return selectPermissions(ctx, e, " WHERE student_name = ?", studentName)
}

// ListPermissionsByDate returns the permissions whose DD-MM-YYYY date equals date.
func ListPermissionsByDate(ctx context.Context, e sqlx.ExtContext, date string) ([]models.ExitPermission, error) {
	return selectPermissions(ctx, e, " WHERE exit_date = ?", date)
}
