package handler

import (
	"net/http"

	"go-vidtube/internal/model"
	"go-vidtube/internal/service"
)

type LikeHandler struct {
	likes *service.LikeService
}

func NewLikeHandler(likes *service.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

func (h *LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, model.LikeTargetVideo, "videoId")
}

func (h *LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, model.LikeTargetComment, "commentId")
}

func (h *LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, model.LikeTargetTweet, "tweetId")
}

func (h *LikeHandler) toggle(w http.ResponseWriter, r *http.Request, target model.LikeTarget, param string) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	targetID, err := idParam(r, param)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.likes.Toggle(r.Context(), user.ID, target, targetID)
	if err != nil {
		writeError(w, err)
		return
	}

	message := string(target) + " unliked"
	if result.IsLiked {
		message = string(target) + " liked"
	}
	writeSuccess(w, http.StatusOK, result, message)
}

func (h *LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := h.likes.LikedVideos(r.Context(), user.ID, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page, "liked videos fetched successfully")
}
