package db

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"exitpass/models"
)

const (
	teacherColumns = "id, username, password, display_name, role, session_expiry"
	adminColumns   = "id, username, password, '' AS display_name, role, session_expiry"
)

func tableFor(role string) (string, string, error) {
	switch role {
	case models.RoleTeacher:
		return "teachers", teacherColumns, nil
	case models.RoleAdmin:
		return "admins", adminColumns, nil
	}
	return "", "", errors.Errorf("unknown role %q", role)
}

// GetAccountByUsername looks up username in the table for role.
func GetAccountByUsername(ctx context.Context, e sqlx.ExtContext, role, username string) (*models.Account, error) {
	table, cols, err := tableFor(role)
	if err != nil {
		return nil, err
	}
	var acc models.Account
	q := e.Rebind("SELECT " + cols + " FROM " + table + " WHERE username = ?")
	if err := sqlx.GetContext(ctx, e, &acc, q, username); err != nil {
		return nil, notFound(err, "querying "+table)
	}
	return &acc, nil
}

// GetAccountByID looks up id in the table for role.
func GetAccountByID(ctx context.Context, e sqlx.ExtContext, role, id string) (*models.Account, error) {
	table, cols, err := tableFor(role)
	if err != nil {
		return nil, err
	}
	var acc models.Account
	q := e.Rebind("SELECT " + cols + " FROM " + table + " WHERE id = ?")
	if err := sqlx.GetContext(ctx, e, &acc, q, id); err != nil {
		return nil, notFound(err, "querying "+table)
	}
	return &acc, nil
}

// SetSessionExpiry stores expiry (epoch milliseconds) on the account.
func SetSessionExpiry(ctx context.Context, e sqlx.ExtContext, role, id string, expiry int64) error {
	table, _, err := tableFor(role)
	if err != nil {
		return err
	}
	res, err := e.ExecContext(ctx, e.Rebind("UPDATE "+table+" SET session_expiry = ? WHERE id = ?"), expiry, id)
	if err != nil {
		return errors.Wrap(err, "updating session expiry")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAccount inserts acc into the table for acc.Role. A username
// collision yields ErrDuplicate.
func CreateAccount(ctx context.Context, e sqlx.ExtContext, acc *models.Account) error {
	var err error
	switch acc.Role {
	case models.RoleTeacher:
		_, err = e.ExecContext(ctx, e.Rebind(
			"INSERT INTO teachers (id, username, password, display_name, role, session_expiry) VALUES (?, ?, ?, ?, ?, ?)"),
			acc.ID, acc.Username, acc.Password, acc.DisplayName, acc.Role, acc.SessionExpiry)
	case models.RoleAdmin:
		_, err = e.ExecContext(ctx, e.Rebind(
			"INSERT INTO admins (id, username, password, role, session_expiry) VALUES (?, ?, ?, ?, ?)"),
			acc.ID, acc.Username, acc.Password, acc.Role, acc.SessionExpiry)
	default:
		return errors.Errorf("unknown role %q", acc.Role)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "inserting account")
	}
	return nil
}

// InsertAccountIfAbsent inserts acc unless its username is already taken.
// It reports whether a row was written.
func InsertAccountIfAbsent(ctx context.Context, e sqlx.ExtContext, acc *models.Account) (bool, error) {
	var (
		res sql.Result
		err error
	)
	switch acc.Role {
	case models.RoleTeacher:
		res, err = e.ExecContext(ctx, e.Rebind(
			"INSERT INTO teachers (id, username, password, display_name, role) VALUES (?, ?, ?, ?, ?) ON CONFLICT (username) DO NOTHING"),
			acc.ID, acc.Username, acc.Password, acc.DisplayName, acc.Role)
	case models.RoleAdmin:
		res, err = e.ExecContext(ctx, e.Rebind(
			"INSERT INTO admins (id, username, password, role) VALUES (?, ?, ?, ?) ON CONFLICT (username) DO NOTHING"),
			acc.ID, acc.Username, acc.Password, acc.Role)
	default:
		return false, errors.Errorf("unknown role %q", acc.Role)
	}
	if err != nil {
		return false, errors.Wrap(err, "seeding account")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "seeding account")
	}
	return n > 0, nil
}

// CountAccounts returns the number of accounts stored for role.
func CountAccounts(ctx context.Context, e sqlx.ExtContext, role string) (int, error) {
	table, _, err := tableFor(role)
	if err != nil {
		return 0, err
	}
	var n int
	if err := sqlx.GetContext(ctx, e, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, errors.Wrap(err, "counting "+table)
	}
	return n, nil
}

// ListTeachers returns all teacher accounts ordered by username.
func ListTeachers(ctx context.Context, e sqlx.ExtContext) ([]models.Account, error) {
	accs := []models.Account{}
	if err := sqlx.SelectContext(ctx, e, &accs, "SELECT "+teacherColumns+" FROM teachers ORDER BY username"); err != nil {
		return nil, errors.Wrap(err, "listing teachers")
	}
	return accs, nil
}
