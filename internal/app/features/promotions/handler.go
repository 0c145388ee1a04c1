package promotions

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
	promotionstore "github.com/outpost-labs/campsites/internal/app/store/promotions"
	"github.com/outpost-labs/campsites/internal/domain/models"
)

// Handler serves the promotions collection: public reads, admin writes.
type Handler struct {
	Store  *promotionstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger

	sanitize *bluemonday.Policy
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:    promotionstore.New(db),
		ErrLog:   errLog,
		Log:      logger,
		sanitize: bluemonday.StrictPolicy(),
	}
}

type promotionPayload struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Featured    bool   `json:"featured"`
	Cost        int64  `json:"cost"`
	Description string `json:"description"`
}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.Store.List(r.Context())
	if err != nil {
		h.ErrLog.Internal(w, r, "listing promotions failed", err)
		return
	}
	writeJSON(w, promotions)
}

func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.decode(w, r)
	if !ok {
		return
	}

	created, err := h.Store.Create(r.Context(), models.Promotion{
		Name:        p.Name,
		Image:       p.Image,
		Featured:    p.Featured,
		Cost:        p.Cost,
		Description: h.sanitize.Sanitize(p.Description),
	})
	if err != nil {
		if errors.Is(err, promotionstore.ErrDuplicateName) {
			uierrors.RenderConflict(w, err.Error())
			return
		}
		h.ErrLog.Internal(w, r, "creating promotion failed", err)
		return
	}
	writeJSON(w, created)
}

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.promotionID(w, r)
	if !ok {
		return
	}

	promo, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		h.renderStoreErr(w, r, err)
		return
	}
	writeJSON(w, promo)
}

func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.promotionID(w, r)
	if !ok {
		return
	}
	p, ok := h.decode(w, r)
	if !ok {
		return
	}

	updated, err := h.Store.UpdateByID(r.Context(), id, promotionstore.Update{
		Name:        p.Name,
		Image:       p.Image,
		Featured:    p.Featured,
		Cost:        p.Cost,
		Description: h.sanitize.Sanitize(p.Description),
	})
	if err != nil {
		if errors.Is(err, promotionstore.ErrDuplicateName) {
			uierrors.RenderConflict(w, err.Error())
			return
		}
		h.renderStoreErr(w, r, err)
		return
	}
	writeJSON(w, updated)
}

func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.promotionID(w, r)
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
		h.ErrLog.Internal(w, r, "deleting promotions failed", err)
		return
	}
	writeJSON(w, map[string]any{"deleted": n})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (promotionPayload, bool) {
	var p promotionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		uierrors.RenderBadRequest(w, "invalid JSON body")
		return p, false
	}
	if p.Name == "" {
		uierrors.RenderBadRequest(w, "promotion name is required")
		return p, false
	}
	return p, true
}

func (h *Handler) promotionID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	raw := chi.URLParam(r, "promotionID")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		uierrors.RenderNotFound(w, fmt.Sprintf("Promotion %s not found", raw))
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) renderStoreErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, promotionstore.ErrNotFound) {
		uierrors.RenderNotFound(w, fmt.Sprintf("Promotion %s not found", chi.URLParam(r, "promotionID")))
		return
	}
	h.ErrLog.Internal(w, r, "promotion store operation failed", err)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
