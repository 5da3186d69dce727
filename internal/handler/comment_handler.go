package handler

import (
	"net/http"

	"go-vidtube/internal/service"
)

type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	videoID, err := idParam(r, "videoId")
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := h.comments.List(r.Context(), videoID, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page, "comments fetched successfully")
}

func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	videoID, err := idParam(r, "videoId")
	if err != nil {
		writeError(w, err)
		return
	}

	fields, err := readFields(r)
	if err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.comments.Add(r.Context(), videoID, user.ID, fields.get("content"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, comment, "comment added successfully")
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	commentID, err := idParam(r, "commentId")
	if err != nil {
		writeError(w, err)
		return
	}

	fields, err := readFields(r)
	if err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.comments.Update(r.Context(), commentID, user.ID, fields.get("content"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, comment, "comment updated successfully")
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	commentID, err := idParam(r, "commentId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.comments.Delete(r.Context(), commentID, user.ID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{}, "comment deleted successfully")
}
