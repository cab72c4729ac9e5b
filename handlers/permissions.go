package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"exitpass/models"
	"exitpass/permissions"
)

func APISendPermissionHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	user, ok := sessionUser(w, r, models.RoleTeacher)
	if !ok {
		return
	}

	var input struct {
		StudentName string `json:"student_name"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	input.StudentName = strings.TrimSpace(input.StudentName)
	if input.StudentName == "" {
		sendError(w, r, http.StatusBadRequest, "MissingFields")
		return
	}

	res, err := permissions.Send(r.Context(), input.StudentName, user.Username)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendSuccess(w, r, http.StatusCreated, "PermissionSent", res)
}

func APITeacherPermissionsHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	user, ok := sessionUser(w, r, models.RoleTeacher)
	if !ok {
		return
	}

	view, err := permissions.GetTeacherView(r.Context(), user.Username)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: view})
}

// APIAdminPermissionsHandler returns every record with per-teacher counts.
// The optional student and date (DD-MM-YYYY) query parameters narrow the set.
func APIAdminPermissionsHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := sessionUser(w, r, models.RoleAdmin); !ok {
		return
	}

	student := strings.TrimSpace(r.URL.Query().Get("student"))
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date != "" {
		if _, err := time.Parse("02-01-2006", date); err != nil {
			sendError(w, r, http.StatusBadRequest, "InvalidRequestBody")
			return
		}
	}

	if student == "" && date == "" {
		view, err := permissions.GetAdminView(r.Context())
		if err != nil {
			sendServiceError(w, r, err)
			return
		}
		sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: view})
		return
	}

	var (
		perms []models.ExitPermission
		err   error
	)
	if student != "" {
		perms, err = permissions.ListByStudent(r.Context(), student)
	} else {
		perms, err = permissions.ListByDate(r.Context(), date)
	}
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	if student != "" && date != "" {
		filtered := perms[:0]
		for _, p := range perms {
			if p.Date == date {
				filtered = append(filtered, p)
			}
		}
		perms = filtered
	}

	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: permissions.AdminView{
		Permissions:      perms,
		TeacherStats:     permissions.TeacherStats(perms),
		TotalPermissions: len(perms),
	}})
}

func ExportPermissionsHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := sessionUser(w, r, models.RoleAdmin); !ok {
		return
	}

	view, err := permissions.GetAdminView(r.Context())
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\"exit_permissions.csv\"")

	// BOM so spreadsheet tools detect UTF-8 Arabic text
	if _, err := w.Write([]byte("\ufeff")); err != nil {
		logrus.WithError(err).Warn("Export aborted")
		return
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "student_name", "teacher_username", "teacher_display_name", "date", "time", "timestamp"}); err != nil {
		logrus.WithError(err).Warn("Export aborted")
		return
	}
	for _, p := range view.Permissions {
		if err := writer.Write([]string{
			p.ID,
			p.StudentName,
			p.TeacherUsername,
			p.TeacherDisplayName,
			p.Date,
			p.Time,
			strconv.FormatInt(p.Timestamp, 10),
		}); err != nil {
			logrus.WithError(err).Warn("Export aborted")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		logrus.WithError(err).WithField("rows", len(view.Permissions)).Warn("Export truncated")
	}
}
