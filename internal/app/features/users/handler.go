package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/outpost-labs/campsites/internal/app/features/errors"
	userstore "github.com/outpost-labs/campsites/internal/app/store/users"
	"github.com/outpost-labs/campsites/internal/app/system/auth"
)

// Handler serves account lifecycle: signup, login, logout, and the
// admin-only user listing. Login delegates credential issuance to the
// configured strategy so the same handler works for cookies and tokens.
type Handler struct {
	Store  *userstore.Store
	Authn  *auth.Authenticator
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, authn *auth.Authenticator, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  userstore.New(db),
		Authn:  authn,
		ErrLog: errLog,
		Log:    logger,
	}
}

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is the login/signup body. Token is present only when the
// token strategy is configured; cookie strategies answer with headers.
type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Status  string `json:"status"`
}

// ServeSignup handles POST /users/signup. New accounts are never admins;
// the flag is only ever granted out of band.
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	var p credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		uierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}
	if p.Username == "" || p.Password == "" {
		uierrors.RenderBadRequest(w, "username and password are required")
		return
	}

	u, err := h.Store.Create(r.Context(), p.Username, p.Password, false)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateUsername) {
			uierrors.RenderConflict(w, err.Error())
			return
		}
		h.ErrLog.Internal(w, r, "creating user failed", err)
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", u.ID.Hex()),
		zap.String("username", u.Username))
	writeJSON(w, loginResponse{Success: true, Status: "Registration Successful!"})
}

// ServeLogin handles POST /users/login. Credentials always come from the
// JSON body; the configured strategy decides what credential the client
// gets back to replay.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var p credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		uierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}

	u, err := h.Store.Authenticate(r.Context(), p.Username, p.Password)
	if err != nil {
		if errors.Is(err, userstore.ErrInvalidCredentials) {
			uierrors.RenderUnauthorized(w, "", err.Error())
			return
		}
		h.ErrLog.Internal(w, r, "login failed", err)
		return
	}

	id := &auth.Identity{ID: u.ID, Username: u.Username, Admin: u.Admin}
	res, err := h.Authn.Strategy().Issue(r.Context(), w, r, id)
	if err != nil {
		h.ErrLog.Internal(w, r, "issuing credential failed", err)
		return
	}

	h.Log.Info("user logged in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("strategy", h.Authn.Strategy().Name()))
	writeJSON(w, loginResponse{Success: true, Token: res.Token, Status: "You are successfully logged in!"})
}

// ServeLogout handles GET /users/logout. Clearing without any credential
// state is a 401; a cleared session redirects back to the root.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	had, err := h.Authn.Strategy().Clear(r.Context(), w, r)
	if err != nil {
		h.ErrLog.Internal(w, r, "logout failed", err)
		return
	}
	if !had {
		uierrors.RenderUnauthorized(w, "", "you are not logged in")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ServeList handles GET /users (admin). Password hashes never serialize.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.List(r.Context())
	if err != nil {
		h.ErrLog.Internal(w, r, "listing users failed", err)
		return
	}
	writeJSON(w, users)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
