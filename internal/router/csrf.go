package router

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/studybud/backend/internal/cctx"
)

const (
	CSRFCookieName = "csrftoken"
	CSRFFieldName  = "csrfmiddlewaretoken"

	csrfKeyLength = 32
)

// LoadCSRFKey decodes a base64 encoded 32 byte key. An empty value yields a
// random key, so tokens do not survive restarts.
func LoadCSRFKey(encoded string) (key []byte, err error) {
	if encoded == "" {
		zap.L().Warn("no csrf key configured, using random key")
		key = make([]byte, csrfKeyLength)
		_, err = rand.Read(key)
		return
	}

	if key, err = base64.StdEncoding.DecodeString(encoded); err != nil {
		return nil, err
	}
	if len(key) != csrfKeyLength {
		return nil, fmt.Errorf("csrf key must be %d bytes, got %d", csrfKeyLength, len(key))
	}
	return
}

// CSRF rejects unsafe requests that lack a valid token. Pages embed the token
// with csrf.TemplateField.
func CSRF(key []byte, secure bool) mux.MiddlewareFunc {
	return csrf.Protect(key,
		csrf.CookieName(CSRFCookieName),
		csrf.FieldName(CSRFFieldName),
		csrf.Path("/"),
		csrf.Secure(secure),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	cctx.Logger(r.Context()).Info("csrf verification failed",
		zap.String("path", r.URL.Path),
		zap.Error(csrf.FailureReason(r)),
	)
	http.Error(w, "CSRF verification failed. Request aborted.", http.StatusForbidden)
}
