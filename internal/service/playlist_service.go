package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-vidtube/internal/media"
	"go-vidtube/internal/model"
	"go-vidtube/internal/util"
	"go-vidtube/pkg/apierror"
)

type PlaylistService struct {
	playlists PlaylistStore
	videos    VideoStore
	users     UserStore
	uploader  MediaUploader
}

func NewPlaylistService(playlists PlaylistStore, videos VideoStore, users UserStore, uploader MediaUploader) *PlaylistService {
	return &PlaylistService{playlists: playlists, videos: videos, users: users, uploader: uploader}
}

// Create needs only a name; description and thumbnail may be omitted.
func (s *PlaylistService) Create(ctx context.Context, ownerID string, in model.CreatePlaylistInput) (model.Playlist, error) {
	name := util.SanitizeText(in.Name)
	if name == "" {
		return model.Playlist{}, apierror.BadRequest("name is required", "")
	}

	var uploaded []media.Asset
	thumbnail := ""
	if strings.TrimSpace(in.ThumbnailPath) != "" {
		asset, err := s.uploader.Upload(ctx, in.ThumbnailPath, media.KindImage)
		if err != nil {
			return model.Playlist{}, err
		}
		thumbnail = asset.URL
		uploaded = append(uploaded, asset)
	}

	now := time.Now().UTC()
	playlist := model.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Description: util.SanitizeText(in.Description),
		Thumbnail:   thumbnail,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		discardAssets(ctx, s.uploader, uploaded...)
		return model.Playlist{}, err
	}
	return s.playlists.FindByID(ctx, playlist.ID)
}

func (s *PlaylistService) ListByUser(ctx context.Context, userID string, q model.ListQuery) (model.Page[model.Playlist], error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return model.Page[model.Playlist]{}, err
	}

	playlists, total, err := s.playlists.ListByOwner(ctx, userID, q)
	if err != nil {
		return model.Page[model.Playlist]{}, err
	}
	return model.NewPage(playlists, total, q), nil
}

// Get returns the playlist with its videos in insertion order.
func (s *PlaylistService) Get(ctx context.Context, playlistID string) (model.Playlist, error) {
	playlist, err := s.playlists.FindByID(ctx, playlistID)
	if err != nil {
		return model.Playlist{}, err
	}

	videos, err := s.playlists.Videos(ctx, playlistID)
	if err != nil {
		return model.Playlist{}, err
	}
	if videos == nil {
		videos = []model.Video{}
	}
	playlist.Videos = videos
	return playlist, nil
}

func (s *PlaylistService) Update(ctx context.Context, playlistID string, requesterID string, in model.UpdatePlaylistInput) (model.Playlist, error) {
	if in.Name == nil && in.Description == nil {
		return model.Playlist{}, apierror.BadRequest("nothing to update", "")
	}

	playlist, err := s.ownedPlaylist(ctx, playlistID, requesterID)
	if err != nil {
		return model.Playlist{}, err
	}

	if in.Name != nil {
		name := util.SanitizeText(*in.Name)
		if name == "" {
			return model.Playlist{}, apierror.BadRequest("name cannot be empty", "")
		}
		playlist.Name = name
	}
	if in.Description != nil {
		playlist.Description = util.SanitizeText(*in.Description)
	}

	if err := s.playlists.Update(ctx, playlist); err != nil {
		return model.Playlist{}, err
	}
	return s.playlists.FindByID(ctx, playlistID)
}

func (s *PlaylistService) Delete(ctx context.Context, playlistID string, requesterID string) error {
	if _, err := s.ownedPlaylist(ctx, playlistID, requesterID); err != nil {
		return err
	}
	return s.playlists.Delete(ctx, playlistID)
}

func (s *PlaylistService) AddVideo(ctx context.Context, playlistID string, videoID string, requesterID string) (model.Playlist, error) {
	if _, err := s.ownedPlaylist(ctx, playlistID, requesterID); err != nil {
		return model.Playlist{}, err
	}
	if _, err := visibleVideo(ctx, s.videos, videoID, requesterID); err != nil {
		return model.Playlist{}, err
	}

	if err := s.playlists.AddVideo(ctx, playlistID, videoID); err != nil {
		return model.Playlist{}, err
	}
	return s.Get(ctx, playlistID)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID string, videoID string, requesterID string) (model.Playlist, error) {
	if _, err := s.ownedPlaylist(ctx, playlistID, requesterID); err != nil {
		return model.Playlist{}, err
	}

	if err := s.playlists.RemoveVideo(ctx, playlistID, videoID); err != nil {
		return model.Playlist{}, err
	}
	return s.Get(ctx, playlistID)
}

func (s *PlaylistService) ownedPlaylist(ctx context.Context, playlistID string, requesterID string) (model.Playlist, error) {
	playlist, err := s.playlists.FindByID(ctx, playlistID)
	if err != nil {
		return model.Playlist{}, err
	}
	if err := requireOwner(playlist, requesterID, "playlist not found", playlistID); err != nil {
		return model.Playlist{}, err
	}
	return playlist, nil
}
