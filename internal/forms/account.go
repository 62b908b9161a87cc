package forms

import (
	"net/http"
	"strings"
)

// RegistrationForm mirrors the classic account creation form: a username and
// a password typed twice.
type RegistrationForm struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	Password1 string `form:"password1" validate:"required,min=8,notnumeric"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

func ParseRegistrationForm(r *http.Request) RegistrationForm {
	return RegistrationForm{
		Username:  value(r, "username"),
		Password1: r.PostFormValue("password1"),
		Password2: r.PostFormValue("password2"),
	}
}

func (f RegistrationForm) Validate() Errors {
	return check(f)
}

// NormalizedUsername is the username as it is stored.
func (f RegistrationForm) NormalizedUsername() string {
	return strings.ToLower(f.Username)
}

type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func ParseLoginForm(r *http.Request) LoginForm {
	return LoginForm{
		Username: strings.ToLower(value(r, "username")),
		Password: r.PostFormValue("password"),
	}
}
