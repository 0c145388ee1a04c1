package partners

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
	partnerstore "github.com/outpost-labs/campsites/internal/app/store/partners"
	"github.com/outpost-labs/campsites/internal/domain/models"
)

// Handler serves the partners collection: public reads, admin writes.
type Handler struct {
	Store  *partnerstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger

	sanitize *bluemonday.Policy
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:    partnerstore.New(db),
		ErrLog:   errLog,
		Log:      logger,
		sanitize: bluemonday.StrictPolicy(),
	}
}

type partnerPayload struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Featured    bool   `json:"featured"`
	Description string `json:"description"`
}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	partners, err := h.Store.List(r.Context())
	if err != nil {
		h.ErrLog.Internal(w, r, "listing partners failed", err)
		return
	}
	writeJSON(w, partners)
}

func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.decode(w, r)
	if !ok {
		return
	}

	created, err := h.Store.Create(r.Context(), models.Partner{
		Name:        p.Name,
		Image:       p.Image,
		Featured:    p.Featured,
		Description: h.sanitize.Sanitize(p.Description),
	})
	if err != nil {
		if errors.Is(err, partnerstore.ErrDuplicateName) {
			uierrors.RenderConflict(w, err.Error())
			return
		}
		h.ErrLog.Internal(w, r, "creating partner failed", err)
		return
	}
	writeJSON(w, created)
}

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.partnerID(w, r)
	if !ok {
		return
	}

	partner, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		h.renderStoreErr(w, r, err)
		return
	}
	writeJSON(w, partner)
}

func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.partnerID(w, r)
	if !ok {
		return
	}
	p, ok := h.decode(w, r)
	if !ok {
		return
	}

	updated, err := h.Store.UpdateByID(r.Context(), id, partnerstore.Update{
		Name:        p.Name,
		Image:       p.Image,
		Featured:    p.Featured,
		Description: h.sanitize.Sanitize(p.Description),
	})
	if err != nil {
		if errors.Is(err, partnerstore.ErrDuplicateName) {
			uierrors.RenderConflict(w, err.Error())
			return
		}
		h.renderStoreErr(w, r, err)
		return
	}
	writeJSON(w, updated)
}

func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.partnerID(w, r)
	if !ok {
		return
	}

	deleted, err := h.Store.DeleteByID(r.Context(), id)
	if err != nil {
		h.renderStoreErr(w, r, err)
		return
	}
	writeJSON(w, deleted)
}

func (h *Handler) ServeDeleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.Store.DeleteAll(r.Context())
	if err != nil {
		h.ErrLog.Internal(w, r, "deleting partners failed", err)
		return
	}
	writeJSON(w, map[string]any{"deleted": n})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (partnerPayload, bool) {
	var p partnerPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		uierrors.RenderBadRequest(w, "invalid JSON body")
		return p, false
	}
	if p.Name == "" {
		uierrors.RenderBadRequest(w, "partner name is required")
		return p, false
	}
	return p, true
}

func (h *Handler) partnerID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	raw := chi.URLParam(r, "partnerID")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		uierrors.RenderNotFound(w, fmt.Sprintf("Partner %s not found", raw))
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) renderStoreErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, partnerstore.ErrNotFound) {
		uierrors.RenderNotFound(w, fmt.Sprintf("Partner %s not found", chi.URLParam(r, "partnerID")))
		return
	}
	h.ErrLog.Internal(w, r, "partner store operation failed", err)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
