package controllers

import (
	"net/http"

	"github.com/studybud/backend/internal/auth"
	"github.com/studybud/backend/internal/database/models"
)

const loginURL = "/login"

// sessionHandlerFunc receives the request's session as an explicit argument.
type sessionHandlerFunc func(w http.ResponseWriter, r *http.Request, sess *auth.Session)

func withSession(sessions *auth.Manager, h sessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, r, sessions.Load(r))
	}
}

// loginRequired sends anonymous requests to the login page.
func loginRequired(sessions *auth.Manager, h sessionHandlerFunc) http.HandlerFunc {
	return withSession(sessions, func(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
		if !sess.Authenticated() {
			http.Redirect(w, r, loginURL, http.StatusFound)
			return
		}
		h(w, r, sess)
	})
}

// authorizeOwner writes the plain-text rejection and returns false unless the
// session user owns obj.
func authorizeOwner(w http.ResponseWriter, sess *auth.Session, obj models.Owned, rejection string) bool {
	if sess.Authenticated() && obj.OwnerID() == sess.UserID {
		return true
	}

	notAllowed(w, rejection)
	return false
}
