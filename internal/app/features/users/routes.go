package users

import (
	"github.com/go-chi/chi/v5"

	"github.com/outpost-labs/campsites/internal/app/system/auth"
)

func Routes(r chi.Router, h *Handler, authn *auth.Authenticator) {
	r.Route("/users", func(r chi.Router) {
		r.With(authn.RequireAdmin).Get("/", h.ServeList)
		r.Post("/signup", h.ServeSignup)
		r.Post("/login", h.ServeLogin)
		r.Get("/logout", h.ServeLogout)
	})
}
