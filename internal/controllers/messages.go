package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/studybud/backend/internal/auth"
	"github.com/studybud/backend/internal/forms"
	"github.com/studybud/backend/internal/router"
	"github.com/studybud/backend/internal/views"
)

var _ router.Controller = (*MessageController)(nil)

const (
	msgEditNotAllowed   = "You are not allowed to edit this message!"
	msgDeleteNotAllowed = "You are not allowed to delete this message!!"
)

type MessageController struct {
	Messages MessageStore
	Sessions *auth.Manager
	Views    views.Renderer
}

func (c *MessageController) Register(router *mux.Router) {
	router.HandleFunc("/message-update/{id:[0-9]+}", loginRequired(c.Sessions, c.handleUpdate)).
		Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/message-delete/{id:[0-9]+}", loginRequired(c.Sessions, c.handleDelete)).
		Methods(http.MethodGet, http.MethodPost)
}

func (c *MessageController) handleUpdate(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	msg, err := c.Messages.FindMessage(ctx, id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if !authorizeOwner(w, sess, msg, msgEditNotAllowed) {
		return
	}

	page := views.MessageFormPage{
		Base: pageBase(r, sess),
		Form: forms.MessageForm{Body: msg.Body},
	}

	if r.Method == http.MethodPost {
		form := forms.ParseMessageForm(r)
		errs := form.Validate()
		if errs.Valid() {
			if err = c.Messages.UpdateMessage(ctx, msg, form.Body); err != nil {
				respondError(w, r, err)
				return
			}

			redirect(w, r, "/")
			return
		}

		page.Form = form
		page.Errors = errs
	}

	render(w, r, c.Views, views.MessageForm, page)
}

func (c *MessageController) handleDelete(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	msg, err := c.Messages.FindMessage(ctx, id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if !authorizeOwner(w, sess, msg, msgDeleteNotAllowed) {
		return
	}

	if r.Method == http.MethodPost {
		if err = c.Messages.DeleteMessage(ctx, msg.ID); err != nil {
			respondError(w, r, err)
			return
		}

		redirect(w, r, "/")
		return
	}

	render(w, r, c.Views, views.Delete, views.DeletePage{
		Base:   pageBase(r, sess),
		Object: msg.Body,
	})
}
