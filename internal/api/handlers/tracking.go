package handlers

import (
	"errors"
	"net/http"

	"github.com/dom/media-tracker/internal/api/middleware"
	"github.com/dom/media-tracker/internal/domain"
	"github.com/dom/media-tracker/internal/service"
	"github.com/go-chi/chi/v5"
)

// TrackingHandler serves the tracked-item routes of one variant.
type TrackingHandler struct {
	tracking *service.TrackingService
	variant  domain.Variant
}

func NewTrackingHandler(tracking *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{tracking: tracking, variant: tracking.Variant()}
}

// itemResponse renders an item under the variant's key names. Unset details
// are left out.
func (h *TrackingHandler) itemResponse(item *domain.TrackedItem) map[string]any {
	out := map[string]any{
		"_id":                    item.ID,
		h.variant.CatalogIDKey(): item.CatalogID,
		"createdAt":              item.CreatedAt,
		"updatedAt":              item.UpdatedAt,
	}
	if item.Rating != nil {
		out["rating"] = *item.Rating
	}
	if item.Status != nil {
		out["status"] = *item.Status
	}
	if item.Notes != nil {
		out["notes"] = *item.Notes
	}
	return out
}

func (h *TrackingHandler) identity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized access. (No token)")
	}
	return identity, ok
}

func (h *TrackingHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	page, err := service.ParsePagination(query.Get("limit"), query.Get("page"))
	if err != nil {
		h.writeError(w, r, err, "list")
		return
	}

	items, err := h.tracking.List(r.Context(), identity, page)
	if err != nil {
		h.writeError(w, r, err, "list")
		return
	}

	rendered := make([]map[string]any, 0, len(items))
	for _, item := range items {
		rendered = append(rendered, h.itemResponse(item))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":           h.variant.PluralDisplayName() + " retrieved successfully.",
		h.variant.ListKey(): rendered,
	})
}

// Get returns one tracked item. With checkingTracking=true it only reports
// whether the item is tracked.
func (h *TrackingHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	catalogID := chi.URLParam(r, "id")

	if r.URL.Query().Get("checkingTracking") == "true" {
		tracking, err := h.tracking.IsTracking(r.Context(), identity, catalogID)
		if err != nil {
			h.writeError(w, r, err, "check tracking")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"tracking": tracking})
		return
	}

	item, err := h.tracking.Get(r.Context(), identity, catalogID)
	if err != nil {
		h.writeError(w, r, err, "get")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":           h.variant.DisplayName() + " retrieved successfully.",
		h.variant.ItemKey(): h.itemResponse(item),
	})
}

func (h *TrackingHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	item, err := h.tracking.Add(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err, "add")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":           h.variant.DisplayName() + " added successfully.",
		h.variant.ItemKey(): h.itemResponse(item),
	})
}

func (h *TrackingHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req service.UpdateInput
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	item, err := h.tracking.Update(r.Context(), identity, chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, r, err, "update")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":           h.variant.DisplayName() + " updated successfully.",
		h.variant.ItemKey(): h.itemResponse(item),
	})
}

func (h *TrackingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	if err := h.tracking.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err, "delete")
		return
	}

	writeMessage(w, http.StatusOK, h.variant.DisplayName()+" deleted successfully.")
}

func (h *TrackingHandler) writeError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, service.ErrItemExists):
		writeMessage(w, http.StatusBadRequest, h.variant.DisplayName()+" already exists.")
	case errors.Is(err, service.ErrItemNotFound):
		writeMessage(w, http.StatusBadRequest, h.variant.DisplayName()+" does not exist.")
	case errors.Is(err, service.ErrInvalidPagination):
		writeMessage(w, http.StatusBadRequest, "Invalid pagination parameters.")
	case errors.Is(err, service.ErrInvalidStatus):
		writeMessage(w, http.StatusBadRequest, "Invalid status.")
	case errors.Is(err, service.ErrUserNotFound):
		writeMessage(w, http.StatusBadRequest, "User not found.")
	default:
		internalError(r.Context(), w, err, op+" "+h.variant.String())
	}
}
