package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/studybud/backend/internal/auth"
	"github.com/studybud/backend/internal/cctx"
	"github.com/studybud/backend/internal/database/models"
	"github.com/studybud/backend/internal/forms"
	"github.com/studybud/backend/internal/forum"
	"github.com/studybud/backend/internal/router"
	"github.com/studybud/backend/internal/views"
)

var _ router.Controller = (*AuthController)(nil)

const (
	msgBadCredentials     = "Username OR Password does not exist"
	msgRegistrationFailed = "An error occurred during registration"
)

var errBadCredentials = errors.New("bad credentials")

type AuthController struct {
	Accounts  AccountStore
	Passwords *auth.PasswordHasher
	Sessions  *auth.Manager
	Views     views.Renderer
}

func (c *AuthController) Register(router *mux.Router) {
	router.HandleFunc("/login", withSession(c.Sessions, c.handleLogin)).
		Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/logout", c.handleLogout).
		Methods(http.MethodGet)
	router.HandleFunc("/register", withSession(c.Sessions, c.handleRegister)).
		Methods(http.MethodGet, http.MethodPost)
}

func (c *AuthController) handleLogin(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	if sess.Authenticated() {
		redirect(w, r, "/")
		return
	}

	page := views.AuthPage{
		Base: pageBase(r, sess),
		Page: "login",
	}

	if r.Method == http.MethodPost {
		form := forms.ParseLoginForm(r)
		page.Username = form.Username

		user, err := c.authenticate(r.Context(), form)
		switch {
		case err == nil:
			c.login(w, r, user)
			return
		case errors.Is(err, errBadCredentials):
			page.Messages = append(page.Messages, msgBadCredentials)
		default:
			respondError(w, r, err)
			return
		}
	}

	render(w, r, c.Views, views.LoginRegister, page)
}

// authenticate looks the account up once and verifies its password. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (c *AuthController) authenticate(ctx context.Context, form forms.LoginForm) (user *models.User, err error) {
	if user, err = c.Accounts.FindUserByUsername(ctx, form.Username); err != nil {
		if errors.Is(err, forum.ErrNotFound) {
			err = errBadCredentials
		}
		return nil, err
	}

	if !c.Passwords.Verify(form.Password, user.PasswordHash) {
		return nil, errBadCredentials
	}
	return
}

func (c *AuthController) login(w http.ResponseWriter, r *http.Request, user *models.User) {
	if err := c.Sessions.Issue(w, user.ID, user.Username); err != nil {
		respondError(w, r, err)
		return
	}

	if err := c.Accounts.TouchLastLogin(r.Context(), user.ID); err != nil {
		cctx.Logger(r.Context()).Warn("failed to record last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	redirect(w, r, "/")
}

func (c *AuthController) handleLogout(w http.ResponseWriter, r *http.Request) {
	c.Sessions.Clear(w)
	redirect(w, r, "/")
}

func (c *AuthController) handleRegister(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	page := views.AuthPage{
		Base: pageBase(r, sess),
		Page: "register",
	}

	if r.Method == http.MethodPost {
		form := forms.ParseRegistrationForm(r)
		page.Username = form.Username

		errs := form.Validate()
		if errs.Valid() {
			user, err := c.register(r.Context(), form)
			switch {
			case err == nil:
				c.login(w, r, user)
				return
			case errors.Is(err, forum.ErrUsernameTaken):
				errs["username"] = "A user with that username already exists."
			default:
				respondError(w, r, err)
				return
			}
		}

		page.Errors = errs
		page.Messages = append(page.Messages, msgRegistrationFailed)
	}

	render(w, r, c.Views, views.LoginRegister, page)
}

func (c *AuthController) register(ctx context.Context, form forms.RegistrationForm) (*models.User, error) {
	hash, err := c.Passwords.Hash(form.Password1)
	if err != nil {
		return nil, err
	}

	return c.Accounts.CreateUser(ctx, form.NormalizedUsername(), hash)
}
