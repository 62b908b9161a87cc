// Package forms decodes and validates the HTML forms accepted by the forum.
package forms

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to its first validation message.
type Errors map[string]string

func (e Errors) Valid() bool {
	return len(e) == 0
}

var (
	validate = newValidator()

	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	numericRe  = regexp.MustCompile(`^[0-9]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notnumeric", func(fl validator.FieldLevel) bool {
		return !numericRe.MatchString(fl.Field().String())
	})
	return v
}

// check runs the struct validator and flattens its result into Errors.
func check(form any) Errors {
	errs := make(Errors)

	err := validate.Struct(form)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		if err != nil {
			errs["__all__"] = err.Error()
		}
		return errs
	}

	for _, fe := range fieldErrs {
		if _, seen := errs[fe.Field()]; !seen {
			errs[fe.Field()] = message(fe)
		}
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), len([]rune(fe.Value().(string))))
	case "min":
		return fmt.Sprintf("This password is too short. It must contain at least %s characters.", fe.Param())
	case "eqfield":
		return "The two password fields didn't match."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "notnumeric":
		return "This password is entirely numeric."
	default:
		return "Enter a valid value."
	}
}

func value(r *http.Request, field string) string {
	return strings.TrimSpace(r.PostFormValue(field))
}
