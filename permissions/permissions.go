package permissions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"exitpass/auth"
	"exitpass/config"
	"exitpass/db"
	"exitpass/models"
)

var (
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrSessionExpired  = errors.New("teacher session expired")
)

type Result struct {
	PermissionID string `json:"permission_id"`
	OutboundLink string `json:"outbound_link"`
	Message      string `json:"message"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}

// Send records an exit permission for studentName issued by teacherUsername
// and renders the notification message and link. Nothing is stored when the
// teacher is unknown or their session has lapsed.
func Send(ctx context.Context, studentName, teacherUsername string) (*Result, error) {
	teacher, err := db.GetAccountByUsername(ctx, db.DB, models.RoleTeacher, teacherUsername)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrTeacherNotFound
	}
	if err != nil {
		return nil, err
	}

	now := auth.Now()
	if !teacher.SessionValid(now) {
		return nil, ErrSessionExpired
	}

	loc := Location()
	perm := &models.ExitPermission{
		ID:                 uuid.NewString(),
		StudentName:        studentName,
		TeacherUsername:    teacher.Username,
		TeacherDisplayName: teacher.DisplayName,
		Timestamp:          now.UnixMilli(),
		Date:               FormatDate(now, loc),
		Time:               FormatTime(now, loc),
	}
	if err := db.InsertPermission(ctx, db.DB, perm); err != nil {
		return nil, err
	}

	message := RenderMessage(perm.StudentName, perm.Date, perm.Time, perm.TeacherDisplayName, config.AppConfig.SchoolName)

	logrus.WithFields(logrus.Fields{
		"permission_id": perm.ID,
		"teacher":       perm.TeacherUsername,
		"date":          perm.Date,
	}).Info("Exit permission recorded")

	return &Result{
		PermissionID: perm.ID,
		OutboundLink: OutboundLink(config.AppConfig.DestinationNumber, message),
		Message:      message,
		Date:         perm.Date,
		Time:         perm.Time,
	}, nil
}
