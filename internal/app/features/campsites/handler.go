package campsites

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/outpost-labs/campsites/internal/app/features/errors"
	campsitestore "github.com/outpost-labs/campsites/internal/app/store/campsites"
	"github.com/outpost-labs/campsites/internal/domain/models"
)

// Handler serves the campsites collection and its nested comments.
type Handler struct {
	Store  *campsitestore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger

	sanitize *bluemonday.Policy
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:    campsitestore.New(db),
		ErrLog:   errLog,
		Log:      logger,
		sanitize: bluemonday.StrictPolicy(),
	}
}

// campsitePayload is the request body for campsite create/update.
// Comments are deliberately absent: they have their own endpoints.
type campsitePayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Elevation   float64 `json:"elevation"`
	Cost        int64   `json:"cost"`
	Featured    bool    `json:"featured"`
}

// ServeList handles GET /campsites. Reads are never gated.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	campsites, err := h.Store.List(r.Context())
	if err != nil {
		h.ErrLog.Internal(w, r, "listing campsites failed", err)
		return
	}
	writeJSON(w, campsites)
}

// ServeCreate handles POST /campsites (admin).
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var p campsitePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		uierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}
	if p.Name == "" {
		uierrors.RenderBadRequest(w, "campsite name is required")
		return
	}

	created, err := h.Store.Create(r.Context(), models.Campsite{
		Name:        p.Name,
		Description: h.sanitize.Sanitize(p.Description),
		Image:       p.Image,
		Elevation:   p.Elevation,
		Cost:        p.Cost,
		Featured:    p.Featured,
	})
	if err != nil {
		if errors.Is(err, campsitestore.ErrDuplicateName) {
			uierrors.RenderConflict(w, err.Error())
			return
		}
		h.ErrLog.Internal(w, r, "creating campsite failed", err)
		return
	}
	writeJSON(w, created)
}

// ServeGet handles GET /campsites/{campsiteID}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campsiteID(w, r)
	if !ok {
		return
	}

	cs, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		h.renderStoreErr(w, r, err, chi.URLParam(r, "campsiteID"))
		return
	}
	writeJSON(w, cs)
}

// ServeUpdate handles PUT /campsites/{campsiteID} (admin).
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campsiteID(w, r)
	if !ok {
		return
	}

	var p campsitePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		uierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}
	if p.Name == "" {
		uierrors.RenderBadRequest(w, "campsite name is required")
		return
	}

	updated, err := h.Store.UpdateByID(r.Context(), id, campsitestore.Update{
		Name:        p.Name,
		Description: h.sanitize.Sanitize(p.Description),
		Image:       p.Image,
		Elevation:   p.Elevation,
		Cost:        p.Cost,
		Featured:    p.Featured,
	})
	if err != nil {
		if errors.Is(err, campsitestore.ErrDuplicateName) {
			uierrors.RenderConflict(w, err.Error())
			return
		}
		h.renderStoreErr(w, r, err, chi.URLParam(r, "campsiteID"))
		return
	}
	writeJSON(w, updated)
}

// ServeDelete handles DELETE /campsites/{campsiteID} (admin).
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campsiteID(w, r)
	if !ok {
		return
	}

	deleted, err := h.Store.DeleteByID(r.Context(), id)
	if err != nil {
		h.renderStoreErr(w, r, err, chi.URLParam(r, "campsiteID"))
		return
	}
	writeJSON(w, deleted)
}

// ServeDeleteAll handles DELETE /campsites (admin).
func (h *Handler) ServeDeleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.Store.DeleteAll(r.Context())
	if err != nil {
		h.ErrLog.Internal(w, r, "deleting campsites failed", err)
		return
	}
	writeJSON(w, map[string]any{"deleted": n})
}

// campsiteID parses the campsite id from the URL. A malformed id is
// reported the same way as a missing campsite: 404 naming the id.
func (h *Handler) campsiteID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	raw := chi.URLParam(r, "campsiteID")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		uierrors.RenderNotFound(w, fmt.Sprintf("Campsite %s not found", raw))
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) renderStoreErr(w http.ResponseWriter, r *http.Request, err error, campsiteID string) {
	if errors.Is(err, campsitestore.ErrNotFound) {
		uierrors.RenderNotFound(w, fmt.Sprintf("Campsite %s not found", campsiteID))
		return
	}
	h.ErrLog.Internal(w, r, "campsite store operation failed", err)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
