package partners

import (
	"github.com/go-chi/chi/v5"

	uierrors "github.com/outpost-labs/campsites/internal/app/features/errors"
	"github.com/outpost-labs/campsites/internal/app/system/auth"
)

func Routes(r chi.Router, h *Handler, authn *auth.Authenticator) {
	r.Route("/partners", func(r chi.Router) {
		r.Get("/", h.ServeList)
		r.With(authn.RequireAdmin).Post("/", h.ServeCreate)
		r.Put("/", uierrors.MethodNotSupported)
		r.With(authn.RequireAdmin).Delete("/", h.ServeDeleteAll)

		r.Route("/{partnerID}", func(r chi.Router) {
			r.Get("/", h.ServeGet)
			r.Post("/", uierrors.MethodNotSupported)
			r.With(authn.RequireAdmin).Put("/", h.ServeUpdate)
			r.With(authn.RequireAdmin).Delete("/", h.ServeDelete)
		})
	})
}
