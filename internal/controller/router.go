package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (c controller) Mux() http.Handler {
	r := chi.NewRouter()

	r.Use(c.requestIdMw, c.requestLoggingMw)

	r.Post("/api/session", c.createSession)
	r.HandleFunc("/ws/{session-id}", c.attachSession)

	return r
}
