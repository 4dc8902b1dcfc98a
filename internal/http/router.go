package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dparodi/hacienda/internal/http/collections"
	"github.com/dparodi/hacienda/internal/http/exportxlsx"
	"github.com/dparodi/hacienda/internal/http/syncreports"
)

func New(
	syncV1 *syncreports.Handler,
	exportV1 *exportxlsx.Handler,
	collectionsV1 *collections.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/sync", syncV1.Routes)
		r.Route("/export", exportV1.Routes)
		r.Route("/collections", collectionsV1.Routes)
	})

	return router
}
