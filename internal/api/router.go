package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okellen/contactbook-be/internal/api/handlers"
	"github.com/okellen/contactbook-be/internal/auth"
	"github.com/okellen/contactbook-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(tokens *auth.Manager, userService services.UserServiceProvider, contactService services.ContactServiceProvider, avatarDir, tempDir string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	userHandler := handlers.NewUserHandler(userService, avatarDir, tempDir)
	contactHandler := handlers.NewContactHandler(contactService)

	authGate := tokens.Middleware(userService)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/signup", userHandler.Signup)
			r.Get("/verify/{token}", userHandler.VerifyToken)
			r.Post("/verify", userHandler.ResendVerify)
			r.Post("/login", userHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(authGate)
				r.Get("/logout", userHandler.Logout)
				r.Get("/current", userHandler.Current)
				r.Patch("/avatars", userHandler.UpdateAvatar)
			})
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Use(authGate)
			r.Get("/", contactHandler.GetAll)
			r.Post("/", contactHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", contactHandler.Get)
				r.Put("/", contactHandler.Update)
				r.Delete("/", contactHandler.Delete)
			})
		})
	})

	// Serve normalized avatar images
	r.Handle("/avatars/*", http.StripPrefix("/avatars/", http.FileServer(http.Dir(avatarDir))))

	return r
}
