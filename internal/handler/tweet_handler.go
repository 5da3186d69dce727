package handler

import (
	"net/http"

	"go-vidtube/internal/service"
)

type TweetHandler struct {
	tweets *service.TweetService
}

func NewTweetHandler(tweets *service.TweetService) *TweetHandler {
	return &TweetHandler{tweets: tweets}
}

func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	fields, err := readFields(r)
	if err != nil {
		writeError(w, err)
		return
	}

	tweet, err := h.tweets.Create(r.Context(), user.ID, fields.get("content"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, tweet, "tweet created successfully")
}

func (h *TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := h.tweets.ListByUser(r.Context(), userID, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page, "tweets fetched successfully")
}

func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	tweetID, err := idParam(r, "tweetId")
	if err != nil {
		writeError(w, err)
		return
	}

	fields, err := readFields(r)
	if err != nil {
		writeError(w, err)
		return
	}

	tweet, err := h.tweets.Update(r.Context(), tweetID, user.ID, fields.get("content"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tweet, "tweet updated successfully")
}

func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	tweetID, err := idParam(r, "tweetId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.tweets.Delete(r.Context(), tweetID, user.ID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{}, "tweet deleted successfully")
}
