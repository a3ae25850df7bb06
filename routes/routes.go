package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lennartwolf/tippliga/handlers"
	"github.com/lennartwolf/tippliga/middleware"
	"github.com/lennartwolf/tippliga/models"
)

// SetupRoutes mounts all HTTP routes on the given router.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	groupHandler *handlers.GroupHandler,
	tipHandler *handlers.TipHandler,
	matchHandler *handlers.MatchHandler,
	adminHandler *handlers.AdminHandler,
	contactHandler *handlers.ContactHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)

	router.Post("/auth/signup", authHandler.SignUp)
	router.Post("/auth/signin", authHandler.SignIn)
	router.Post("/contact", contactHandler.Submit)

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", matchHandler.List)
		r.Get("/{matchID}", matchHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.Authorize(string(models.RoleAdmin)))
			r.Post("/", matchHandler.Create)
			r.Post("/{matchID}/start", matchHandler.MarkStarted)
			r.Put("/{matchID}/result", matchHandler.RecordResult)
		})
	})

	router.Route("/groups", func(r chi.Router) {
		r.Get("/", groupHandler.List)
		r.Get("/{groupID}", groupHandler.Get)
		r.Get("/by-slug/{slug}", groupHandler.GetBySlug)
		r.Get("/{groupID}/leaderboard", groupHandler.Leaderboard)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/", groupHandler.Create)
			r.Post("/{groupID}/join", groupHandler.Join)
			r.Delete("/{groupID}/leave", groupHandler.Leave)
			r.Post("/{groupID}/matches/{matchID}/tips", tipHandler.Place)
		})
	})

	router.Route("/users/me", func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/", userHandler.GetProfile)
		r.Get("/tips", userHandler.ListTips)
		r.Put("/avatar", userHandler.UploadAvatar)
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Put("/tips/{tipID}", tipHandler.Update)
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.Authorize(string(models.RoleAdmin)))
		r.Post("/admin/recompute", adminHandler.TriggerRecompute)
	})
}
