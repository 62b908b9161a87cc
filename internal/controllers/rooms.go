package controllers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/studybud/backend/internal/auth"
	"github.com/studybud/backend/internal/database/models"
	"github.com/studybud/backend/internal/forms"
	"github.com/studybud/backend/internal/router"
	"github.com/studybud/backend/internal/views"
)

var _ router.Controller = (*RoomController)(nil)

const msgRoomNotAllowed = "You are not allowed here!!"

type RoomController struct {
	Rooms    RoomStore
	Sessions *auth.Manager
	Views    views.Renderer
}

func (c *RoomController) Register(router *mux.Router) {
	router.HandleFunc("/", withSession(c.Sessions, c.handleHome)).
		Methods(http.MethodGet)
	router.HandleFunc("/room/{id:[0-9]+}", withSession(c.Sessions, c.handleRoom)).
		Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/room-create", loginRequired(c.Sessions, c.handleCreate)).
		Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/room-update/{id:[0-9]+}", loginRequired(c.Sessions, c.handleUpdate)).
		Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/room-delete/{id:[0-9]+}", loginRequired(c.Sessions, c.handleDelete)).
		Methods(http.MethodGet, http.MethodPost)
}

func (c *RoomController) handleHome(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	ctx := r.Context()
	q := r.URL.Query().Get("q")

	rooms, err := c.Rooms.SearchRooms(ctx, q)
	if err != nil {
		respondError(w, r, err)
		return
	}

	topics, err := c.Rooms.ListTopics(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render(w, r, c.Views, views.Home, views.HomePage{
		Base:      pageBase(r, sess),
		Query:     q,
		Rooms:     rooms,
		Topics:    topics,
		RoomCount: len(rooms),
	})
}

func (c *RoomController) handleRoom(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	room, err := c.Rooms.FindRoom(ctx, id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	page := views.RoomPage{
		Base: pageBase(r, sess),
		Room: room,
	}

	if r.Method == http.MethodPost {
		if !sess.Authenticated() {
			redirect(w, r, loginURL)
			return
		}

		form := forms.ParseMessageForm(r)
		errs := form.Validate()
		if errs.Valid() {
			if _, err = c.Rooms.PostMessage(ctx, room.ID, sess.UserID, form.Body); err != nil {
				respondError(w, r, err)
				return
			}

			redirect(w, r, fmt.Sprintf("/room/%d", room.ID))
			return
		}

		page.Form = form
		page.Errors = errs
	}

	if page.RoomMessages, err = c.Rooms.RoomMessages(ctx, room.ID); err != nil {
		respondError(w, r, err)
		return
	}

	if page.Participants, err = c.Rooms.RoomParticipants(ctx, room.ID); err != nil {
		respondError(w, r, err)
		return
	}

	page.Participating = participating(page.Participants, sess)

	render(w, r, c.Views, views.Room, page)
}

func (c *RoomController) handleCreate(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	page := views.RoomFormPage{
		Base: pageBase(r, sess),
	}

	if r.Method == http.MethodPost {
		form := forms.ParseRoomForm(r)
		errs := form.Validate()
		if errs.Valid() {
			if _, err := c.Rooms.CreateRoom(r.Context(), sess.UserID, form.Input()); err != nil {
				respondError(w, r, err)
				return
			}

			redirect(w, r, "/")
			return
		}

		page.Form = form
		page.Errors = errs
	}

	render(w, r, c.Views, views.RoomForm, page)
}

func (c *RoomController) handleUpdate(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	room, err := c.Rooms.FindRoom(ctx, id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if !authorizeOwner(w, sess, room, msgRoomNotAllowed) {
		return
	}

	page := views.RoomFormPage{
		Base: pageBase(r, sess),
		Form: forms.RoomFormFor(room),
	}

	if r.Method == http.MethodPost {
		form := forms.ParseRoomForm(r)
		errs := form.Validate()
		if errs.Valid() {
			if err = c.Rooms.UpdateRoom(ctx, room, form.Input()); err != nil {
				respondError(w, r, err)
				return
			}

			redirect(w, r, "/")
			return
		}

		page.Form = form
		page.Errors = errs
	}

	render(w, r, c.Views, views.RoomForm, page)
}

func (c *RoomController) handleDelete(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	room, err := c.Rooms.FindRoom(ctx, id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if !authorizeOwner(w, sess, room, msgRoomNotAllowed) {
		return
	}

	if r.Method == http.MethodPost {
		if err = c.Rooms.DeleteRoom(ctx, room.ID); err != nil {
			respondError(w, r, err)
			return
		}

		redirect(w, r, "/")
		return
	}

	render(w, r, c.Views, views.Delete, views.DeletePage{
		Base:   pageBase(r, sess),
		Object: room.Name,
	})
}

func participating(participants []models.User, sess *auth.Session) bool {
	if !sess.Authenticated() {
		return false
	}
	for _, p := range participants {
		if p.ID == sess.UserID {
			return true
		}
	}
	return false
}
