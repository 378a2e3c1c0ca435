package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func setupPublicRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Get("/health", handlers.healthHandler.health())

		r.With(authMiddleware.identify).Get("/auth/state", handlers.authHandler.state())

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
		})
	})
}

// setupAppRoutes sets up all routes behind the sign-in gate
func setupAppRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		r.Get("/me", handlers.authHandler.me())
		r.Get("/dashboard", handlers.dashboardHandler.dashboard())

		r.Route("/import", func(r chi.Router) {
			r.Post("/upload", handlers.importHandler.uploadFile())
			r.Get("/uploads/{uploadID}/progress", handlers.importHandler.uploadProgress())
			r.Post("/s3", handlers.importHandler.connectS3())
		})

		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Patch("/projects/{projectID}/status", handlers.projectHandler.updateStatus())

		r.Get("/mapping", handlers.stageHandler.notImplemented("/mapping"))
		r.Get("/transform", handlers.stageHandler.notImplemented("/transform"))
		r.Get("/editor", handlers.stageHandler.notImplemented("/editor"))
	})
}
