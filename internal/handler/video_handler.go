package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"go-vidtube/internal/model"
	"go-vidtube/internal/service"
	"go-vidtube/pkg/apierror"
)

type VideoHandler struct {
	videos  *service.VideoService
	uploads *Uploads
}

func NewVideoHandler(videos *service.VideoService, uploads *Uploads) *VideoHandler {
	return &VideoHandler{videos: videos, uploads: uploads}
}

func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if ownerID != "" {
		if _, err := uuid.Parse(ownerID); err != nil {
			writeError(w, apierror.BadRequest("invalid userId", ownerID))
			return
		}
	}

	page, err := h.videos.List(r.Context(), listQuery(r), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page, "videos fetched successfully")
}

func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	form, err := h.uploads.read(w, r, "videoFile", "thumbnail")
	if err != nil {
		writeError(w, err)
		return
	}
	defer form.remove()

	video, err := h.videos.Publish(r.Context(), user.ID, model.PublishVideoInput{
		Title:         form.fields.get("title"),
		Description:   form.fields.get("description"),
		VideoPath:     form.file("videoFile"),
		ThumbnailPath: form.file("thumbnail"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, video, "video published successfully")
}

func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	video, err := h.videos.Watch(r.Context(), videoID, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, video, "video fetched successfully")
}

func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	form, err := h.uploads.readAny(w, r, "thumbnail")
	if err != nil {
		writeError(w, err)
		return
	}
	defer form.remove()

	video, err := h.videos.Update(r.Context(), videoID, user.ID, model.UpdateVideoInput{
		Title:         form.fields.optional("title"),
		Description:   form.fields.optional("description"),
		ThumbnailPath: form.file("thumbnail"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, video, "video updated successfully")
}

func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.videos.Delete(r.Context(), videoID, user.ID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{}, "video deleted successfully")
}

func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
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

	video, err := h.videos.TogglePublish(r.Context(), videoID, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, video, "publish status toggled successfully")
}
