package main

import (
	"net/http"

	"KarmaTally/api"

	"github.com/go-chi/chi/v5"
)

func SetupRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", api.HandleHealthCheck)
	r.Post("/telegram/webhook", api.HandleWebhook)

	return r
}
