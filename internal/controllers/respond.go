package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/studybud/backend/internal/auth"
	"github.com/studybud/backend/internal/cctx"
	"github.com/studybud/backend/internal/forum"
	"github.com/studybud/backend/internal/views"
)

func notAllowed(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusForbidden)
	fmt.Fprintln(w, msg)
}

// respondError maps missing entities to 404 and logs everything else as a 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, forum.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	cctx.Logger(r.Context()).Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func pageBase(r *http.Request, sess *auth.Session) views.Base {
	return views.Base{
		Session:   sess,
		CSRFField: csrf.TemplateField(r),
	}
}

func render(w http.ResponseWriter, r *http.Request, renderer views.Renderer, name string, data any) {
	if err := renderer.Render(w, http.StatusOK, name, data); err != nil {
		respondError(w, r, fmt.Errorf("failed to render %s: %w", name, err))
	}
}

func redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusFound)
}

// pathID parses the numeric {id} route variable. Out of range ids are
// reported as not found.
func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %w", forum.ErrNotFound)
	}
	return uint(id), nil
}
