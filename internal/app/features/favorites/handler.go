package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/outpost-labs/campsites/internal/app/features/errors"
	campsitestore "github.com/outpost-labs/campsites/internal/app/store/campsites"
	favoritestore "github.com/outpost-labs/campsites/internal/app/store/favorites"
	"github.com/outpost-labs/campsites/internal/app/system/auth"
	"github.com/outpost-labs/campsites/internal/domain/models"
)

// Handler serves each user's private favorites set. Every route requires
// an authenticated user; there is no cross-user access at all.
type Handler struct {
	Store     *favoritestore.Store
	Campsites *campsitestore.Store
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:     favoritestore.New(db),
		Campsites: campsitestore.New(db),
		ErrLog:    errLog,
		Log:       logger,
	}
}

// favoriteView is the response shape: the stored document with campsite
// references expanded into full documents.
type favoriteView struct {
	ID        primitive.ObjectID `json:"id"`
	User      primitive.ObjectID `json:"user"`
	Campsites []models.Campsite  `json:"campsites"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ServeGet handles GET /favorites: the caller's document with campsites
// populated. A user who never favorited anything gets a 404 naming them.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	fav, err := h.Store.Get(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, favoritestore.ErrNotFound) {
			uierrors.RenderNotFound(w, fmt.Sprintf("User %s has no favorites", user.Username))
			return
		}
		h.ErrLog.Internal(w, r, "loading favorites failed", err)
		return
	}
	h.writePopulated(w, r, fav)
}

// addManyPayload is the POST /favorites body, an array of campsite
// references in the form [{"_id": "..."}].
type addManyPayload []struct {
	ID string `json:"_id"`
}

// ServeAddMany handles POST /favorites. References already in the set
// are skipped; the whole operation is idempotent.
func (h *Handler) ServeAddMany(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	var p addManyPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		uierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}
	if len(p) == 0 {
		uierrors.RenderBadRequest(w, "no campsites given")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(p))
	for _, ref := range p {
		id, err := primitive.ObjectIDFromHex(ref.ID)
		if err != nil {
			uierrors.RenderNotFound(w, fmt.Sprintf("Campsite %s not found", ref.ID))
			return
		}
		ids = append(ids, id)
	}
	if ok := h.campsitesExist(w, r, ids); !ok {
		return
	}

	fav, err := h.Store.AddMany(r.Context(), user.ID, ids)
	if err != nil {
		h.ErrLog.Internal(w, r, "adding favorites failed", err)
		return
	}
	h.writePopulated(w, r, fav)
}

// ServeAddOne handles POST /favorites/{campsiteID}. Re-adding a campsite
// already in the set is answered with a plain-text notice, not an error.
func (h *Handler) ServeAddOne(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	id, ok := h.campsiteID(w, r)
	if !ok {
		return
	}
	if ok := h.campsitesExist(w, r, []primitive.ObjectID{id}); !ok {
		return
	}

	fav, added, err := h.Store.AddOne(r.Context(), user.ID, id)
	if err != nil {
		h.ErrLog.Internal(w, r, "adding favorite failed", err)
		return
	}
	if !added {
		writeText(w, http.StatusOK, "Campsite already in favorites")
		return
	}
	h.writePopulated(w, r, fav)
}

// ServeRemoveOne handles DELETE /favorites/{campsiteID}. Removing from
// an empty or absent set is a no-op reported in plain text.
func (h *Handler) ServeRemoveOne(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	id, ok := h.campsiteID(w, r)
	if !ok {
		return
	}

	fav, _, err := h.Store.RemoveOne(r.Context(), user.ID, id)
	if err != nil {
		h.ErrLog.Internal(w, r, "removing favorite failed", err)
		return
	}
	if fav == nil {
		writeText(w, http.StatusOK, "There are no favorites to delete.")
		return
	}
	h.writePopulated(w, r, fav)
}

// ServeClear handles DELETE /favorites: drops the caller's whole
// document. Returns the deleted document, or a plain-text no-op notice.
func (h *Handler) ServeClear(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	fav, err := h.Store.Clear(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, favoritestore.ErrNotFound) {
			writeText(w, http.StatusOK, "You do not have any favorites to delete.")
			return
		}
		h.ErrLog.Internal(w, r, "clearing favorites failed", err)
		return
	}
	h.writePopulated(w, r, fav)
}

// campsitesExist verifies every referenced campsite exists before it may
// enter a favorites set, answering 404 with the first missing id.
func (h *Handler) campsitesExist(w http.ResponseWriter, r *http.Request, ids []primitive.ObjectID) bool {
	found, err := h.Campsites.GetByIDs(r.Context(), ids)
	if err != nil {
		h.ErrLog.Internal(w, r, "verifying campsites failed", err)
		return false
	}
	have := make(map[primitive.ObjectID]bool, len(found))
	for _, cs := range found {
		have[cs.ID] = true
	}
	for _, id := range ids {
		if !have[id] {
			uierrors.RenderNotFound(w, fmt.Sprintf("Campsite %s not found", id.Hex()))
			return false
		}
	}
	return true
}

func (h *Handler) writePopulated(w http.ResponseWriter, r *http.Request, fav *models.Favorite) {
	populated, err := h.Campsites.GetByIDs(r.Context(), fav.Campsites)
	if err != nil {
		h.ErrLog.Internal(w, r, "populating favorites failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(favoriteView{
		ID:        fav.ID,
		User:      fav.User,
		Campsites: populated,
		CreatedAt: fav.CreatedAt,
		UpdatedAt: fav.UpdatedAt,
	})
}

func (h *Handler) campsiteID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	raw := chi.URLParam(r, "campsiteID")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		uierrors.RenderNotFound(w, fmt.Sprintf("Campsite %s not found", raw))
		return primitive.NilObjectID, false
	}
	return id, true
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
