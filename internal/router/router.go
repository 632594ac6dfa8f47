package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"lexipic-backend/internal/handlers"
	"lexipic-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	flashcardHandler *handlers.FlashcardHandler,
	userHandler *handlers.UserHandler,
	imageHandler *handlers.ImageHandler,
	frontendURL string,
	storagePath string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Uploaded images (flashcard pictures, avatars)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(storagePath))))

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Get("/me", authHandler.Me)
			})
		})

		// ──── Flashcard Routes ────
		r.Route("/flashcards", func(r chi.Router) {
			// Practice works anonymously; a token adds recency-aware selection
			r.With(jwtAuth.OptionalMiddleware).Get("/practice", flashcardHandler.Practice)
			r.Get("/", flashcardHandler.List)
			r.Get("/languages", flashcardHandler.Languages)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/answer", flashcardHandler.SubmitAnswer)
				r.Post("/", flashcardHandler.Create)
				r.Get("/history", flashcardHandler.History)
				r.Post("/generate", flashcardHandler.Generate)
			})
		})

		// ──── Job Routes ────
		r.Route("/jobs", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/{id}", flashcardHandler.GetJob)
		})

		// ──── User Routes ────
		r.Route("/user", func(r chi.Router) {
			r.Get("/leaderboard", userHandler.Leaderboard) // Public

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Get("/profile", userHandler.GetProfile)
				r.Put("/profile", userHandler.UpdateProfile)
				r.Get("/stats", userHandler.Stats)
				r.Post("/avatar", imageHandler.UpdateAvatar)
				r.Delete("/account", userHandler.DeleteAccount)
			})
		})

		// ──── Image Routes ────
		r.Route("/image", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/upload", imageHandler.Upload)
			r.Post("/analyze", imageHandler.Analyze)
		})
	})

	return r
}
