package accounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"exitpass/auth"
	"exitpass/config"
	"exitpass/db"
	"exitpass/models"
)

var (
	ErrUnauthorized   = errors.New("requesting admin has no valid session")
	ErrUsernameExists = errors.New("a teacher with this username already exists")
)

type seed struct {
	username, password, displayName string
}

var defaultTeachers = []seed{
	{"khaled", "Khaled@2025", "أ. خالد"},
	{"saleh", "Saleh@2025", "أ. صالح"},
	{"jaber", "Jaber@2025", "أ. جابر"},
}

var defaultAdmin = seed{username: "admin111", password: "admin@999"}

// AddTeacher creates a teacher on behalf of adminUsername, whose session must
// be current. Only the teachers table is checked for username collisions.
func AddTeacher(ctx context.Context, username, password, displayName, adminUsername string) (string, error) {
	_, valid, err := auth.ValidateUsername(ctx, models.RoleAdmin, adminUsername)
	if errors.Is(err, db.ErrNotFound) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	if !valid {
		return "", ErrUnauthorized
	}

	_, err = db.GetAccountByUsername(ctx, db.DB, models.RoleTeacher, username)
	if err == nil {
		return "", ErrUsernameExists
	}
	if !errors.Is(err, db.ErrNotFound) {
		return "", err
	}

	stored, err := db.EncodePassword(password, config.AppConfig.HashPasswords)
	if err != nil {
		return "", err
	}
	teacher := &models.Account{
		ID:          uuid.NewString(),
		Username:    username,
		Password:    stored,
		DisplayName: displayName,
		Role:        models.RoleTeacher,
	}
	if err := db.CreateAccount(ctx, db.DB, teacher); err != nil {
		// Lost a race with a concurrent insert of the same username.
		if errors.Is(err, db.ErrDuplicate) {
			return "", ErrUsernameExists
		}
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"teacher": username,
		"admin":   adminUsername,
	}).Info("Teacher account created")
	return teacher.ID, nil
}

// ListTeachers returns the public views of all teachers.
func ListTeachers(ctx context.Context) ([]models.UserView, error) {
	accs, err := db.ListTeachers(ctx, db.DB)
	if err != nil {
		return nil, err
	}
	views := make([]models.UserView, 0, len(accs))
	for i := range accs {
		views = append(views, accs[i].View())
	}
	return views, nil
}

// Bootstrap seeds the default teachers when the teachers table is empty and
// the default admin when the admins table is empty. It runs in one
// transaction and inserts with ON CONFLICT, so it is safe on every start.
func Bootstrap(ctx context.Context) error {
	return db.WithTx(ctx, func(tx *sqlx.Tx) error {
		n, err := db.CountAccounts(ctx, tx, models.RoleTeacher)
		if err != nil {
			return err
		}
		if n == 0 {
			for _, s := range defaultTeachers {
				if err := seedAccount(ctx, tx, models.RoleTeacher, s); err != nil {
					return err
				}
			}
		}

		n, err = db.CountAccounts(ctx, tx, models.RoleAdmin)
		if err != nil {
			return err
		}
		if n == 0 {
			if err := seedAccount(ctx, tx, models.RoleAdmin, defaultAdmin); err != nil {
				return err
			}
		}
		return nil
	})
}

func seedAccount(ctx context.Context, tx *sqlx.Tx, role string, s seed) error {
	stored, err := db.EncodePassword(s.password, config.AppConfig.HashPasswords)
	if err != nil {
		return err
	}
	acc := &models.Account{
		ID:          uuid.NewString(),
		Username:    s.username,
		Password:    stored,
		DisplayName: s.displayName,
		Role:        role,
	}
	inserted, err := db.InsertAccountIfAbsent(ctx, tx, acc)
	if err != nil {
		return err
	}
	if inserted {
		logrus.WithFields(logrus.Fields{
			"username": s.username,
			"role":     role,
		}).Info("Seeded default account")
	}
	return nil
}
