package handlers

import (
	"net/http"
	"strings"

	"exitpass/accounts"
	"exitpass/models"
)

func APIAddTeacherHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	admin, ok := sessionUser(w, r, models.RoleAdmin)
	if !ok {
		return
	}

	var input struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	input.Username = strings.TrimSpace(input.Username)
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	if input.Username == "" || input.Password == "" || input.DisplayName == "" {
		sendError(w, r, http.StatusBadRequest, "MissingFields")
		return
	}

	id, err := accounts.AddTeacher(r.Context(), input.Username, input.Password, input.DisplayName, admin.Username)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendSuccess(w, r, http.StatusCreated, "TeacherAdded", map[string]string{"teacher_id": id})
}

func APIListTeachersHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := sessionUser(w, r, models.RoleAdmin); !ok {
		return
	}
	teachers, err := accounts.ListTeachers(r.Context())
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: teachers})
}
