package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/digimarket/backend/internal/metrics"
	"github.com/digimarket/backend/internal/service"
)

func NewRouter(h *Handler, auth *service.AuthService, m *metrics.ServerMetrics, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(RequestLogger(logger))
	if m != nil {
		r.Use(Metrics(m))
	}

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(Authenticator(auth))
			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Get("/{id}", h.GetCategory)

		r.Group(func(r chi.Router) {
			r.Use(Authenticator(auth))
			r.Post("/", h.CreateCategory)
			r.Put("/{id}", h.UpdateCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(Authenticator(auth))

		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Get("/{id}/items", h.GetOrderItems)
		r.Patch("/{id}", h.UpdateOrderStatus)
		r.Delete("/{id}", h.DeleteOrder)
	})

	return r
}
