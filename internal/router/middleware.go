package router

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/studybud/backend/internal/cctx"
)

const RequestIDHeader = "X-Request-ID"

// RequestContext tags every request with a request id, reusing one supplied
// by an upstream proxy.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(RequestIDHeader)
		if rid == "" {
			rid = strings.ReplaceAll(uuid.New().String(), "-", "")
		}

		w.Header().Set(RequestIDHeader, rid)
		next.ServeHTTP(w, r.WithContext(cctx.WithValues(r.Context(), cctx.RequestID, rid)))
	})
}
