package forms

import "net/http"

type MessageForm struct {
	Body string `form:"body" validate:"required"`
}

func ParseMessageForm(r *http.Request) MessageForm {
	return MessageForm{Body: value(r, "body")}
}

func (f MessageForm) Validate() Errors {
	return check(f)
}
