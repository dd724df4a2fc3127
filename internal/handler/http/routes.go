package http

import (
	"github.com/MKhiriev/go-tours/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withClientIP)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withMetrics)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	if h.cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(h.cfg.RequestTimeout))
	}

	router.NotFound(h.notFound)
	router.MethodNotAllowed(h.notFound)

	router.Handle("/metrics", h.metrics.handler())
	router.Get("/healthz", h.healthz)
	router.Get("/version", h.getServerVersion)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(h.withRateLimit)
		r.NotFound(h.notFound)
		r.MethodNotAllowed(h.notFound)

		r.Route("/auth", h.authRoutes)
		r.Route("/tours", h.tourRoutes)
		r.Route("/reviews", h.reviewRoutes)
		r.Route("/users", h.userRoutes)
	})

	return router
}

func (h *Handler) authRoutes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Post("/forgot-password", h.forgotPassword)
	r.Patch("/reset-password/{token}", h.resetPassword)

	r.With(h.protect).Patch("/update-password", withIdentity(h.updatePassword))
}

func (h *Handler) tourRoutes(r chi.Router) {
	tours := newResourceHandler(h, h.services.Tours)
	staff := h.restrictTo(models.RoleAdmin, models.RoleLeadGuide)

	r.Get("/", tours.list)
	r.With(aliasTopTours).Get("/top-5-cheap", tours.list)
	r.Get("/tour-stats", h.tourStats)
	r.With(h.protect, h.restrictTo(models.RoleAdmin, models.RoleLeadGuide, models.RoleGuide)).
		Get("/monthly-plans/{year}", h.monthlyPlan)
	r.Get("/{id}", tours.get)

	r.Group(func(r chi.Router) {
		r.Use(h.protect, staff)
		r.Post("/", tours.create)
		r.Patch("/{id}", tours.update)
		r.Delete("/{id}", tours.delete)
	})

	// reviews of one tour; {id} is the tour id
	reviews := h.newReviewHandler()
	r.Group(func(r chi.Router) {
		r.Use(h.protect)
		r.Get("/{id}/reviews", reviews.list)
		r.With(h.restrictTo(models.RoleUser)).Post("/{id}/reviews", reviews.create)
	})
}

func (h *Handler) reviewRoutes(r chi.Router) {
	reviews := h.newReviewHandler()

	r.Use(h.protect)
	r.Get("/", reviews.list)
	r.With(h.restrictTo(models.RoleUser)).Post("/", reviews.create)
	r.Get("/{id}", reviews.get)

	r.Group(func(r chi.Router) {
		r.Use(h.restrictTo(models.RoleUser, models.RoleAdmin))
		r.Patch("/{id}", reviews.update)
		r.Delete("/{id}", reviews.delete)
	})
}

func (h *Handler) userRoutes(r chi.Router) {
	users := newResourceHandler(h, h.services.Users)

	r.Use(h.protect)
	r.Get("/me", withIdentity(h.getMe))
	r.Patch("/update-me", withIdentity(h.updateMe))
	r.Delete("/delete-me", withIdentity(h.deleteMe))

	r.Group(func(r chi.Router) {
		r.Use(h.restrictTo(models.RoleAdmin))
		r.Get("/", users.list)
		r.Get("/{id}", users.get)
		r.Patch("/{id}", users.update)
		r.Delete("/{id}", users.delete)
	})
}
