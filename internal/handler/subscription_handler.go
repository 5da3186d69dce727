package handler

import (
	"net/http"

	"go-vidtube/internal/service"
)

type SubscriptionHandler struct {
	subscriptions *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	channelID, err := idParam(r, "channelId")
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.subscriptions.Toggle(r.Context(), user.ID, channelID)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "unsubscribed successfully"
	if result.Subscribed {
		message = "subscribed successfully"
	}
	writeSuccess(w, http.StatusOK, result, message)
}

func (h *SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	channelID, err := idParam(r, "channelId")
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := h.subscriptions.Subscribers(r.Context(), channelID, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page, "subscribers fetched successfully")
}

func (h *SubscriptionHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	subscriberID, err := idParam(r, "subscriberId")
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := h.subscriptions.SubscribedChannels(r.Context(), subscriberID, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page, "subscribed channels fetched successfully")
}
