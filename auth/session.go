package auth

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"

	"exitpass/config"
	"exitpass/models"
)

var Store *sessions.CookieStore

const SessionName = "exitpass-session"

func InitStore() {
	// Derive two 32-byte keys from the session key
	authKey := sha256.Sum256([]byte(config.AppConfig.SessionKey + "auth"))
	encKey := sha256.Sum256([]byte(config.AppConfig.SessionKey + "encryption"))

	Store = sessions.NewCookieStore(authKey[:], encKey[:])

	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(SessionLifetime.Seconds()),
		HttpOnly: true,
		Secure:   config.AppConfig.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetSession stores the signed-in user view in the cookie. This is the
// client-side cache: reading it back does not consult the database.
func SetSession(w http.ResponseWriter, r *http.Request, user models.UserView) error {
	session, _ := Store.Get(r, SessionName)
	session.Values["id"] = user.ID
	session.Values["username"] = user.Username
	session.Values["displayName"] = user.DisplayName
	session.Values["role"] = user.Role
	return session.Save(r, w)
}

// GetSession returns the cached user view, if any.
func GetSession(r *http.Request) (models.UserView, bool) {
	session, err := Store.Get(r, SessionName)
	if err != nil {
		return models.UserView{}, false
	}
	id, _ := session.Values["id"].(string)
	username, _ := session.Values["username"].(string)
	if id == "" || username == "" {
		return models.UserView{}, false
	}
	displayName, _ := session.Values["displayName"].(string)
	role, _ := session.Values["role"].(string)
	return models.UserView{ID: id, Username: username, DisplayName: displayName, Role: role}, true
}

func ClearSession(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, SessionName)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	session.Save(r, w)
}
