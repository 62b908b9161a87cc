// Package views renders the forum's HTML pages from embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/studybud/backend/internal/auth"
	"github.com/studybud/backend/internal/database/models"
	"github.com/studybud/backend/internal/forms"
)

// Page names.
const (
	Home          = "home"
	Room          = "room"
	LoginRegister = "login_register"
	RoomForm      = "room_form"
	MessageForm   = "message_form"
	Delete        = "delete"
)

//go:embed templates/*.html
var files embed.FS

type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

// Base is embedded by every page.
type Base struct {
	Session   *auth.Session
	Messages  []string
	// CSRFField is the hidden token input every POST form must carry.
	CSRFField template.HTML
}

type HomePage struct {
	Base
	Query     string
	Rooms     []models.Room
	Topics    []models.Topic
	RoomCount int
}

type RoomPage struct {
	Base
	Room          *models.Room
	RoomMessages  []models.Message
	Participants  []models.User
	Participating bool
	Form          forms.MessageForm
	Errors        forms.Errors
}

type AuthPage struct {
	Base
	// Page is "login" or "register".
	Page     string
	Username string
	Errors   forms.Errors
}

type RoomFormPage struct {
	Base
	Form   forms.RoomForm
	Errors forms.Errors
}

type MessageFormPage struct {
	Base
	Form   forms.MessageForm
	Errors forms.Errors
}

type DeletePage struct {
	Base
	// Object is the display name of what is being deleted.
	Object string
}

var funcs = template.FuncMap{
	"since": func(t time.Time) string {
		return humanizeAge(time.Since(t))
	},
}

// humanizeAge renders d in its largest whole unit.
func humanizeAge(d time.Duration) string {
	var n int64
	var unit string
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		n, unit = int64(d/time.Minute), "minute"
	case d < 24*time.Hour:
		n, unit = int64(d/time.Hour), "hour"
	default:
		n, unit = int64(d/(24*time.Hour)), "day"
	}

	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}

type TemplateRenderer struct {
	pages map[string]*template.Template
}

// NewTemplateRenderer parses every page together with the shared layout.
func NewTemplateRenderer() (r *TemplateRenderer, err error) {
	r = &TemplateRenderer{pages: make(map[string]*template.Template)}

	for _, name := range []string{Home, Room, LoginRegister, RoomForm, MessageForm, Delete} {
		var t *template.Template
		t, err = template.New("layout.html").
			Funcs(funcs).
			ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			err = fmt.Errorf("failed to parse template %q: %w", name, err)
			return nil, err
		}
		r.pages[name] = t
	}
	return
}

func (r *TemplateRenderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
