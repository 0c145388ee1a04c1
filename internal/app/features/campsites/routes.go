package campsites

import (
	"github.com/go-chi/chi/v5"

	uierrors "github.com/outpost-labs/campsites/internal/app/features/errors"
	"github.com/outpost-labs/campsites/internal/app/system/auth"
)

// Routes mounts the campsites surface. Reads are public, comment writes
// need a user, top-level writes need an admin. Verbs that make no sense
// on a level (PUT on a collection, POST on a document) answer the
// plain-text 403 instead of a 405.
func Routes(r chi.Router, h *Handler, authn *auth.Authenticator) {
	r.Route("/campsites", func(r chi.Router) {
		r.Get("/", h.ServeList)
		r.With(authn.RequireAdmin).Post("/", h.ServeCreate)
		r.Put("/", uierrors.MethodNotSupported)
		r.With(authn.RequireAdmin).Delete("/", h.ServeDeleteAll)

		r.Route("/{campsiteID}", func(r chi.Router) {
			r.Get("/", h.ServeGet)
			r.Post("/", uierrors.MethodNotSupported)
			r.With(authn.RequireAdmin).Put("/", h.ServeUpdate)
			r.With(authn.RequireAdmin).Delete("/", h.ServeDelete)

			r.Route("/comments", func(r chi.Router) {
				r.Get("/", h.ServeListComments)
				r.With(authn.RequireUser).Post("/", h.ServeAddComment)
				r.Put("/", uierrors.MethodNotSupported)
				r.With(authn.RequireAdmin).Delete("/", h.ServeClearComments)

				r.Route("/{commentID}", func(r chi.Router) {
					r.Get("/", h.ServeGetComment)
					r.Post("/", uierrors.MethodNotSupported)
					r.With(authn.RequireUser).Put("/", h.ServeUpdateComment)
					r.With(authn.RequireUser).Delete("/", h.ServeDeleteComment)
				})
			})
		})
	})
}
