package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-vidtube/internal/service"
)

type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats reports on the requester's channel, or on {channelId} when given.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	channelID := user.ID
	if chi.URLParam(r, "channelId") != "" {
		channelID, err = idParam(r, "channelId")
		if err != nil {
			writeError(w, err)
			return
		}
	}

	stats, err := h.dashboard.Stats(r.Context(), channelID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, stats, "channel stats fetched successfully")
}

func (h *DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := h.dashboard.Videos(r.Context(), user.ID, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page, "channel videos fetched successfully")
}
