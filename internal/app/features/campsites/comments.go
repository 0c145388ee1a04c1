package campsites

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/outpost-labs/campsites/internal/app/features/errors"
	campsitestore "github.com/outpost-labs/campsites/internal/app/store/campsites"
	"github.com/outpost-labs/campsites/internal/app/system/auth"
	"github.com/outpost-labs/campsites/internal/app/system/authz"
	"github.com/outpost-labs/campsites/internal/domain/models"
)

// commentPayload is the request body for comment create/update. An
// author field in the body is ignored on create and rejected on update;
// authorship always comes from the verified identity.
type commentPayload struct {
	Rating *int    `json:"rating"`
	Text   *string `json:"text"`
	Author *string `json:"author"`
}

// ServeListComments handles GET /campsites/{campsiteID}/comments.
func (h *Handler) ServeListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campsiteID(w, r)
	if !ok {
		return
	}

	cs, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		h.renderStoreErr(w, r, err, chi.URLParam(r, "campsiteID"))
		return
	}
	writeJSON(w, cs.Comments)
}

// ServeAddComment handles POST /campsites/{campsiteID}/comments. Any
// authenticated user may comment; the author reference is stamped from
// the verified identity, never from the body.
func (h *Handler) ServeAddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campsiteID(w, r)
	if !ok {
		return
	}
	user, _ := auth.CurrentUser(r)

	var p commentPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		uierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}
	if p.Rating == nil || p.Text == nil {
		uierrors.RenderBadRequest(w, "rating and text are required")
		return
	}
	if *p.Rating < 1 || *p.Rating > 5 {
		uierrors.RenderBadRequest(w, "rating must be between 1 and 5")
		return
	}

	cs, err := h.Store.AddComment(r.Context(), id, models.Comment{
		Rating: *p.Rating,
		Text:   h.sanitize.Sanitize(*p.Text),
		Author: user.ID,
	})
	if err != nil {
		h.renderStoreErr(w, r, err, chi.URLParam(r, "campsiteID"))
		return
	}
	writeJSON(w, cs)
}

// ServeClearComments handles DELETE /campsites/{campsiteID}/comments
// (admin). Empties the whole comment sequence.
func (h *Handler) ServeClearComments(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campsiteID(w, r)
	if !ok {
		return
	}

	cs, err := h.Store.ClearComments(r.Context(), id)
	if err != nil {
		h.renderStoreErr(w, r, err, chi.URLParam(r, "campsiteID"))
		return
	}
	writeJSON(w, cs)
}

// ServeGetComment handles GET /campsites/{campsiteID}/comments/{commentID}.
func (h *Handler) ServeGetComment(w http.ResponseWriter, r *http.Request) {
	campsiteID, commentID, ok := h.commentIDs(w, r)
	if !ok {
		return
	}

	c, err := h.Store.GetComment(r.Context(), campsiteID, commentID)
	if err != nil {
		h.renderCommentErr(w, r, err)
		return
	}
	writeJSON(w, c)
}

// ServeUpdateComment handles PUT /campsites/{campsiteID}/comments/{commentID}.
// Only the comment's author may change it, and only rating and text.
func (h *Handler) ServeUpdateComment(w http.ResponseWriter, r *http.Request) {
	campsiteID, commentID, ok := h.commentIDs(w, r)
	if !ok {
		return
	}
	user, _ := auth.CurrentUser(r)

	var p commentPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		uierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}
	if p.Author != nil {
		uierrors.RenderBadRequest(w, "comment author cannot be changed")
		return
	}
	if p.Rating == nil && p.Text == nil {
		uierrors.RenderBadRequest(w, "nothing to update")
		return
	}
	if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
		uierrors.RenderBadRequest(w, "rating must be between 1 and 5")
		return
	}

	// Existence before ownership: a missing campsite or comment must
	// answer 404 even to a non-owner.
	existing, err := h.Store.GetComment(r.Context(), campsiteID, commentID)
	if err != nil {
		h.renderCommentErr(w, r, err)
		return
	}
	if !authz.OwnsComment(user, existing) {
		uierrors.RenderForbidden(w, notYourComment(user))
		return
	}

	upd := campsitestore.CommentUpdate{Rating: p.Rating}
	if p.Text != nil {
		clean := h.sanitize.Sanitize(*p.Text)
		upd.Text = &clean
	}

	cs, matched, err := h.Store.UpdateComment(r.Context(), campsiteID, commentID, user.ID, upd)
	if err != nil {
		h.ErrLog.Internal(w, r, "updating comment failed", err)
		return
	}
	if !matched {
		// Lost a race with a concurrent delete, or the stored author
		// changed underneath us. Re-diagnose in the same order.
		h.rediagnoseComment(w, r, campsiteID, commentID, user)
		return
	}
	writeJSON(w, cs)
}

// ServeDeleteComment handles DELETE /campsites/{campsiteID}/comments/{commentID}.
func (h *Handler) ServeDeleteComment(w http.ResponseWriter, r *http.Request) {
	campsiteID, commentID, ok := h.commentIDs(w, r)
	if !ok {
		return
	}
	user, _ := auth.CurrentUser(r)

	existing, err := h.Store.GetComment(r.Context(), campsiteID, commentID)
	if err != nil {
		h.renderCommentErr(w, r, err)
		return
	}
	if !authz.OwnsComment(user, existing) {
		uierrors.RenderForbidden(w, notYourComment(user))
		return
	}

	cs, matched, err := h.Store.RemoveComment(r.Context(), campsiteID, commentID, user.ID)
	if err != nil {
		h.ErrLog.Internal(w, r, "deleting comment failed", err)
		return
	}
	if !matched {
		h.rediagnoseComment(w, r, campsiteID, commentID, user)
		return
	}
	writeJSON(w, cs)
}

// rediagnoseComment re-runs the ordered existence/ownership checks after
// an atomic write matched nothing, so the client sees the same error it
// would have seen without the race.
func (h *Handler) rediagnoseComment(w http.ResponseWriter, r *http.Request, campsiteID, commentID primitive.ObjectID, user *auth.Identity) {
	existing, err := h.Store.GetComment(r.Context(), campsiteID, commentID)
	if err != nil {
		h.renderCommentErr(w, r, err)
		return
	}
	if !authz.OwnsComment(user, existing) {
		uierrors.RenderForbidden(w, notYourComment(user))
		return
	}
	h.ErrLog.Internal(w, r, "comment write matched no document", nil)
}

// commentIDs parses both path ids. Malformed ids get the same 404s as
// missing documents, campsite first.
func (h *Handler) commentIDs(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, primitive.ObjectID, bool) {
	campsiteID, ok := h.campsiteID(w, r)
	if !ok {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	raw := chi.URLParam(r, "commentID")
	commentID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		uierrors.RenderNotFound(w, fmt.Sprintf("Comment %s not found", raw))
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return campsiteID, commentID, true
}

// notYourComment names the requester in the 403 body so the refusal is
// attributable to the verified identity, not a generic denial.
func notYourComment(user *auth.Identity) string {
	return fmt.Sprintf("user %s is not the author of this comment", user.Username)
}

func (h *Handler) renderCommentErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, campsitestore.ErrNotFound):
		uierrors.RenderNotFound(w, fmt.Sprintf("Campsite %s not found", chi.URLParam(r, "campsiteID")))
	case errors.Is(err, campsitestore.ErrCommentNotFound):
		uierrors.RenderNotFound(w, fmt.Sprintf("Comment %s not found", chi.URLParam(r, "commentID")))
	default:
		h.ErrLog.Internal(w, r, "loading comment failed", err)
	}
}
