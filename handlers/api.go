package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"exitpass/accounts"
	"exitpass/auth"
	"exitpass/i18n"
	"exitpass/permissions"
)

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func sendJSONResponse(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// sendError writes an error envelope whose message is the translation of key.
func sendError(w http.ResponseWriter, r *http.Request, status int, key string) {
	lang := i18n.DetectLanguage(r)
	sendJSONResponse(w, status, APIResponse{Status: "error", Message: i18n.T(lang, key)})
}

func sendSuccess(w http.ResponseWriter, r *http.Request, status int, key string, data any) {
	lang := i18n.DetectLanguage(r)
	sendJSONResponse(w, status, APIResponse{Status: "success", Message: i18n.T(lang, key), Data: data})
}

// sendServiceError maps err to a status code and translated message.
// Unrecognised errors are logged and reported as 500.
func sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, key := http.StatusInternalServerError, "InternalError"
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		status, key = http.StatusUnauthorized, "InvalidCredentials"
	case errors.Is(err, accounts.ErrUnauthorized):
		status, key = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, permissions.ErrSessionExpired):
		status, key = http.StatusUnauthorized, "SessionExpired"
	case errors.Is(err, permissions.ErrTeacherNotFound):
		status, key = http.StatusNotFound, "TeacherNotFound"
	case errors.Is(err, accounts.ErrUsernameExists):
		status, key = http.StatusConflict, "UsernameAlreadyExists"
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("Request failed")
	}
	sendError(w, r, status, key)
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		sendError(w, r, http.StatusMethodNotAllowed, "MethodNotAllowed")
		return false
	}
	return true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		sendError(w, r, http.StatusBadRequest, "InvalidRequestBody")
		return false
	}
	return true
}
