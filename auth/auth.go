package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"exitpass/config"
	"exitpass/db"
	"exitpass/models"
)

// SessionLifetime is how long a successful sign-in stays valid. There is no renewal.
const SessionLifetime = 30 * time.Hour

// Now is the clock used for expiry decisions.
var Now = time.Now

var ErrInvalidCredentials = errors.New("invalid username or password")

type SessionResult struct {
	Success bool
	User    *models.UserView
	Err     error
}

// SignIn checks username/password against teachers first and admins second.
// A teacher whose password does not match does not stop the admin lookup.
// Wrong credentials are reported through the result, not the error.
func SignIn(ctx context.Context, username, password string) (SessionResult, error) {
	for _, role := range []string{models.RoleTeacher, models.RoleAdmin} {
		acc, err := db.GetAccountByUsername(ctx, db.DB, role, username)
		if errors.Is(err, db.ErrNotFound) {
			continue
		}
		if err != nil {
			return SessionResult{}, err
		}
		if !db.MatchPassword(acc.Password, password, config.AppConfig.HashPasswords) {
			continue
		}

		expiry := Now().Add(SessionLifetime).UnixMilli()
		if err := db.SetSessionExpiry(ctx, db.DB, role, acc.ID, expiry); err != nil {
			return SessionResult{}, err
		}
		acc.SessionExpiry.Int64, acc.SessionExpiry.Valid = expiry, true

		logrus.WithFields(logrus.Fields{
			"username": acc.Username,
			"role":     acc.Role,
		}).Info("User signed in")

		view := acc.View()
		return SessionResult{Success: true, User: &view}, nil
	}

	logrus.WithField("username", username).Warn("Failed sign-in attempt")
	return SessionResult{Err: ErrInvalidCredentials}, nil
}

// ValidateSession returns the account with the given id if its session is
// still current, and nil otherwise.
func ValidateSession(ctx context.Context, id string) (*models.Account, error) {
	for _, role := range []string{models.RoleTeacher, models.RoleAdmin} {
		acc, err := db.GetAccountByID(ctx, db.DB, role, id)
		if errors.Is(err, db.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !acc.SessionValid(Now()) {
			return nil, nil
		}
		return acc, nil
	}
	return nil, nil
}

// ValidateUsername applies the same expiry rule to the account stored under
// username for role. It returns db.ErrNotFound when no such account exists.
func ValidateUsername(ctx context.Context, role, username string) (*models.Account, bool, error) {
	acc, err := db.GetAccountByUsername(ctx, db.DB, role, username)
	if err != nil {
		return nil, false, err
	}
	return acc, acc.SessionValid(Now()), nil
}
