package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aljannat-dev/aljannat/backend/internal/service"
	"github.com/aljannat-dev/aljannat/backend/internal/setup"
	mw "github.com/aljannat-dev/aljannat/shared/middleware"
	"github.com/aljannat-dev/aljannat/shared/middleware/metrics"
	rl "github.com/aljannat-dev/aljannat/shared/middleware/ratelimiter"
)

// New creates the chi router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints combined in that group
func New(deps *setup.Dependencies) http.Handler {
	cfg := deps.Config.Public
	h := deps.Handler
	authMw := deps.AuthMiddleware

	r := chi.NewRouter()
	r.Use(chi_middleware.RequestID)
	r.Use(chi_middleware.RealIP)
	r.Use(chi_middleware.Recoverer)
	r.Use(mw.RequestLogger)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.SecurityHeaders(cfg.SecureCookies))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	if deps.MediaRoot != "" {
		prefix := strings.TrimRight(cfg.MediaBaseURL, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(deps.MediaRoot))))
	}

	r.Route(cfg.ApiPrefix, func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			// Endpoints that send email
			auth.Group(func(g chi.Router) {
				g.Use(mw.RateLimit(rl.New(1.0/10, 1, 1*time.Hour), mw.GetEmailFromBody)) // 1 per 10 sec by email
				g.Use(mw.RateLimit(rl.New(1.0/10, 1, 1*time.Hour), mw.GetIP))            // 1 per 10 sec by IP
				g.Use(mw.GlobalRateLimit(rl.Rps100()))                                   // 100 global RPS
				g.Post("/register", h.Register)
				g.Post("/resend-otp", h.ResendOtp)
			})

			// Code verification (stricter limits to prevent brute force)
			auth.Group(func(g chi.Router) {
				g.Use(mw.RateLimit(rl.New(5.0/600.0, 5, 1*time.Hour), mw.GetEmailFromBody)) // 5 attempts per 10 minutes by email
				g.Use(mw.RateLimit(rl.OnceInSecond(), mw.GetIP))                            // 1 per second by IP (backup)
				g.Use(mw.GlobalRateLimit(rl.Rps100()))
				g.Post("/verify-otp", h.VerifyOtp)
			})

			auth.Group(func(g chi.Router) {
				g.Use(mw.RateLimit(rl.OnceInSecond(), mw.GetIP)) // 1 per second by IP
				g.Use(mw.GlobalRateLimit(rl.Rps1000()))
				g.Post("/login", h.Login)
			})

			auth.Post("/logout", h.Logout)
			auth.With(authMw.NeedAuth()).Get("/me", h.Me)
		})

		// Public reads
		api.Get("/categories", h.GetCategories)
		api.Get("/dishes", h.GetDishes)
		api.Get("/menu/list", h.GetMenu)
		api.Get("/posters", h.GetPosters)
		api.Get("/images", h.GetImages)
		api.Get("/images/random", h.GetRandomImages)
		api.Get("/images/category/{category}", h.GetImagesByCategory)
		api.Get("/services", h.Document(service.DocumentServices))
		api.Get("/gallery", h.Document(service.DocumentGallery))
		api.Get("/pricing", h.Document(service.DocumentPricing))
		api.With(
			mw.RateLimit(rl.New(1.0/10, 3, 1*time.Hour), mw.GetIP),
		).Post("/contact", h.Contact)

		// Admin writes
		api.Group(func(admin chi.Router) {
			admin.Use(authMw.AdminOnly())

			admin.Put("/users/{email}/role", h.UpdateRole)

			admin.Post("/categories/add", h.CreateCategory)
			admin.Delete("/categories/{id}", h.DeleteCategory)

			admin.Post("/dishes/add", h.CreateDish)
			admin.Put("/dishes/{id}", h.UpdateDish)
			admin.Delete("/dishes/{id}", h.DeleteDish)

			admin.Post("/menu/add", h.CreateMenuItem)
			admin.Put("/menu/edit/{id}", h.UpdateMenuItem)
			admin.Delete("/menu/delete/{id}", h.DeleteMenuItem)

			admin.Post("/posters/add", h.CreatePoster)
			admin.Put("/posters/{id}", h.UpdatePoster)
			admin.Delete("/posters/{id}", h.DeletePoster)

			admin.Post("/images/add", h.UploadImage)
			admin.Delete("/images/{id}", h.DeleteImage)
		})
	})

	return r
}
