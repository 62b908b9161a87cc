package router

import (
	"net/http"

	"github.com/gorilla/mux"
)

type Controller interface {
	Register(router *mux.Router)
}

// New builds the routing table from the given controllers.
func New(controllers ...Controller) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestContext)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	for _, c := range controllers {
		c.Register(router)
	}
	return router
}
