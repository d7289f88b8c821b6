package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"mon-panier-local/internal/config"
	"mon-panier-local/internal/transport/httpserver/handler"
	authmw "mon-panier-local/internal/transport/httpserver/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORS.AllowedOrigins))

	auth := authmw.NewJWTAuth(cfg.JWT.Secret)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Me)
			r.Patch("/auth/me", handlers.UpdateMe)
			r.Post("/auth/change-password", handlers.ChangePassword)
			r.Post("/auth/delete-account", handlers.DeleteAccount)
		})

		// Public catalogue reads, all backed by the response cache.
		r.Get("/producers/", handlers.ListProducers)
		r.Get("/producers/nearby/", handlers.NearbyProducers)
		r.Get("/producers/{id}/", handlers.GetProducer)
		r.Get("/producers/{id}/sale-modes/", handlers.ListSaleModes)
		r.Get("/producers/{id}/products/", handlers.ListProducerProducts)
		r.Get("/products/categories/", handlers.ListCategories)
		r.Get("/products/{id}/", handlers.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Post("/producers/", handlers.CreateProducer)
			r.Put("/producers/{id}/", handlers.UpdateProducer)
			r.Delete("/producers/{id}/", handlers.DeleteProducer)
			r.Post("/producers/{id}/photos/", handlers.AddProducerPhoto)
			r.Delete("/photos/{id}/", handlers.DeleteProducerPhoto)

			r.Post("/producers/{id}/sale-modes/", handlers.CreateSaleMode)
			r.Put("/sale-modes/{id}/", handlers.UpdateSaleMode)
			r.Delete("/sale-modes/{id}/", handlers.DeleteSaleMode)

			r.Post("/producers/{id}/products/", handlers.CreateProduct)
			r.Put("/products/{id}/", handlers.UpdateProduct)
			r.Delete("/products/{id}/", handlers.DeleteProduct)
			r.Post("/products/{id}/photos/", handlers.AddProductPhoto)
			r.Delete("/product-photos/{id}/", handlers.DeleteProductPhoto)
		})

		r.Get("/cache/stats/", handlers.CacheStats)
		r.Post("/cache/clear/", handlers.CacheClear)
	})

	return r
}
