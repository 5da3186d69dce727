package handler

import (
	"context"
	"net/http"

	"go-vidtube/internal/model"
	"go-vidtube/internal/service"
)

type PlaylistHandler struct {
	playlists *service.PlaylistService
	uploads   *Uploads
}

func NewPlaylistHandler(playlists *service.PlaylistService, uploads *Uploads) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists, uploads: uploads}
}

func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
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

	playlist, err := h.playlists.Create(r.Context(), user.ID, model.CreatePlaylistInput{
		Name:          form.fields.get("name"),
		Description:   form.fields.get("description"),
		ThumbnailPath: form.file("thumbnail"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, playlist, "playlist created successfully")
}

func (h *PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := h.playlists.ListByUser(r.Context(), userID, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page, "playlists fetched successfully")
}

func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	playlistID, err := idParam(r, "playlistId")
	if err != nil {
		writeError(w, err)
		return
	}

	playlist, err := h.playlists.Get(r.Context(), playlistID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, playlist, "playlist fetched successfully")
}

func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	playlistID, err := idParam(r, "playlistId")
	if err != nil {
		writeError(w, err)
		return
	}

	fields, err := readFields(r)
	if err != nil {
		writeError(w, err)
		return
	}

	playlist, err := h.playlists.Update(r.Context(), playlistID, user.ID, model.UpdatePlaylistInput{
		Name:        fields.optional("name"),
		Description: fields.optional("description"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, playlist, "playlist updated successfully")
}

func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	playlistID, err := idParam(r, "playlistId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.playlists.Delete(r.Context(), playlistID, user.ID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{}, "playlist deleted successfully")
}

func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	h.changeVideos(w, r, h.playlists.AddVideo, "video added to playlist")
}

func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	h.changeVideos(w, r, h.playlists.RemoveVideo, "video removed from playlist")
}

type playlistVideoChange func(ctx context.Context, playlistID string, videoID string, requesterID string) (model.Playlist, error)

func (h *PlaylistHandler) changeVideos(w http.ResponseWriter, r *http.Request, change playlistVideoChange, message string) {
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

	playlistID, err := idParam(r, "playlistId")
	if err != nil {
		writeError(w, err)
		return
	}

	playlist, err := change(r.Context(), playlistID, videoID, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, playlist, message)
}
