package favorites

import (
	"github.com/go-chi/chi/v5"

	uierrors "github.com/outpost-labs/campsites/internal/app/features/errors"
	"github.com/outpost-labs/campsites/internal/app/system/auth"
)

// Routes mounts the favorites surface. The whole subtree is gated on an
// authenticated user; admins get no special access here.
func Routes(r chi.Router, h *Handler, authn *auth.Authenticator) {
	r.Route("/favorites", func(r chi.Router) {
		r.Use(authn.RequireUser)

		r.Get("/", h.ServeGet)
		r.Post("/", h.ServeAddMany)
		r.Put("/", uierrors.MethodNotSupported)
		r.Delete("/", h.ServeClear)

		r.Route("/{campsiteID}", func(r chi.Router) {
			r.Get("/", uierrors.MethodNotSupported)
			r.Post("/", h.ServeAddOne)
			r.Put("/", uierrors.MethodNotSupported)
			r.Delete("/", h.ServeRemoveOne)
		})
	})
}
