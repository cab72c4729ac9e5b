package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"exitpass/auth"
	"exitpass/models"
)

func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", HealthHandler)
	mux.HandleFunc("/api/v1/csrf", CSRFTokenHandler)

	mux.HandleFunc("/api/v1/login", APILoginHandler)
	mux.HandleFunc("/api/v1/logout", APILogoutHandler)
	mux.HandleFunc("/api/v1/me", APIMeHandler)
	mux.HandleFunc("/api/v1/session", APIValidateSessionHandler)

	// Teacher endpoints
	mux.HandleFunc("/api/v1/permissions", APISendPermissionHandler)
	mux.HandleFunc("/api/v1/permissions/mine", APITeacherPermissionsHandler)

	// Admin endpoints
	mux.HandleFunc("/api/v1/admin/permissions", APIAdminPermissionsHandler)
	mux.HandleFunc("/api/v1/admin/permissions/export", ExportPermissionsHandler)
	mux.HandleFunc("/api/v1/admin/teachers", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			APIListTeachersHandler(w, r)
		case http.MethodPost:
			APIAddTeacherHandler(w, r)
		default:
			sendError(w, r, http.StatusMethodNotAllowed, "MethodNotAllowed")
		}
	})
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: map[string]string{"state": "ok"}})
}

// CSRFTokenHandler hands API clients the token they must echo in the
// X-CSRF-Token header on POST requests.
func CSRFTokenHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: map[string]string{"csrf_token": csrf.Token(r)}})
}

func APILoginHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" {
		sendError(w, r, http.StatusBadRequest, "MissingFields")
		return
	}

	res, err := auth.SignIn(r.Context(), input.Username, input.Password)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	if !res.Success {
		sendServiceError(w, r, res.Err)
		return
	}

	if err := auth.SetSession(w, r, *res.User); err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: res.User})
}

func APILogoutHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	auth.ClearSession(w, r)
	sendSuccess(w, r, http.StatusOK, "LoggedOut", nil)
}

// APIMeHandler returns the user view cached in the session cookie. The
// stored expiry is deliberately not consulted here; privileged endpoints
// check it themselves.
func APIMeHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	user, ok := auth.GetSession(r)
	if !ok {
		sendError(w, r, http.StatusUnauthorized, "NotSignedIn")
		return
	}
	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: user})
}

func APIValidateSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		sendError(w, r, http.StatusBadRequest, "MissingFields")
		return
	}
	acc, err := auth.ValidateSession(r.Context(), id)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	if acc == nil {
		sendError(w, r, http.StatusUnauthorized, "SessionInvalid")
		return
	}
	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: acc.View()})
}

// sessionUser returns the cookie user when it has the given role, writing a
// 401 and returning false otherwise.
func sessionUser(w http.ResponseWriter, r *http.Request, role string) (models.UserView, bool) {
	user, ok := auth.GetSession(r)
	if !ok {
		sendError(w, r, http.StatusUnauthorized, "NotSignedIn")
		return models.UserView{}, false
	}
	if user.Role != role {
		sendError(w, r, http.StatusUnauthorized, "Unauthorized")
		return models.UserView{}, false
	}
	return user, true
}
