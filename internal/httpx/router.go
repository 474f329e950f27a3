package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ironwala/ironwala-api/internal/identity"
)

func NewRouter(handler *Handler, ids identity.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/auth/signup", handler.SignUp)
	r.Post("/auth/login", handler.SignIn)

	r.Get("/catalog", handler.GetCatalog)
	r.Get("/catalog/banners", handler.GetBanners)
	r.Post("/quotes", handler.CreateQuote)
	r.Post("/addresses/resolve", handler.ResolveAddress)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(ids))

		r.Get("/addresses", handler.ListAddresses)
		r.Get("/addresses/stream", handler.StreamAddresses)
		r.Post("/addresses", handler.CreateAddress)
		r.Put("/addresses/{id}", handler.UpdateAddress)
		r.Delete("/addresses/{id}", handler.DeleteAddress)

		r.With(AttachIdempotencyKey).Post("/orders", handler.SubmitOrder)
		r.Get("/orders", handler.ListOrders)
		r.Get("/orders/stream", handler.StreamOrders)
	})

	return r
}
