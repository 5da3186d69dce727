package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-vidtube/internal/media"
	"go-vidtube/internal/model"
	"go-vidtube/internal/util"
	"go-vidtube/pkg/apierror"
)

type VideoService struct {
	videos   VideoStore
	users    UserStore
	uploader MediaUploader
}

func NewVideoService(videos VideoStore, users UserStore, uploader MediaUploader) *VideoService {
	return &VideoService{videos: videos, users: users, uploader: uploader}
}

// List returns published videos, optionally limited to one owner.
func (s *VideoService) List(ctx context.Context, q model.ListQuery, ownerID string) (model.Page[model.Video], error) {
	if ownerID != "" {
		if _, err := s.users.FindByID(ctx, ownerID); err != nil {
			return model.Page[model.Video]{}, err
		}
	}

	videos, total, err := s.videos.List(ctx, model.VideoFilter{ListQuery: q, OwnerID: ownerID})
	if err != nil {
		return model.Page[model.Video]{}, err
	}
	return model.NewPage(videos, total, q), nil
}

// Publish requires a title and a video file. Description and thumbnail are optional.
func (s *VideoService) Publish(ctx context.Context, ownerID string, in model.PublishVideoInput) (model.Video, error) {
	title := util.SanitizeText(in.Title)
	if title == "" {
		return model.Video{}, apierror.BadRequest("title is required", "")
	}
	if strings.TrimSpace(in.VideoPath) == "" {
		return model.Video{}, apierror.BadRequest("video file is required", "")
	}

	videoAsset, err := s.uploader.Upload(ctx, in.VideoPath, media.KindVideo)
	if err != nil {
		return model.Video{}, err
	}
	uploaded := []media.Asset{videoAsset}

	thumbnailURL := ""
	if strings.TrimSpace(in.ThumbnailPath) != "" {
		thumbnail, err := s.uploader.Upload(ctx, in.ThumbnailPath, media.KindImage)
		if err != nil {
			discardAssets(ctx, s.uploader, uploaded...)
			return model.Video{}, err
		}
		thumbnailURL = thumbnail.URL
		uploaded = append(uploaded, thumbnail)
	}

	now := time.Now().UTC()
	video := model.Video{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: util.SanitizeText(in.Description),
		VideoURL:    videoAsset.URL,
		Thumbnail:   thumbnailURL,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.videos.Create(ctx, video); err != nil {
		discardAssets(ctx, s.uploader, uploaded...)
		return model.Video{}, err
	}

	slog.Info("video published", "video_id", video.ID, "owner_id", ownerID)
	return s.videos.FindByID(ctx, video.ID)
}

// Watch returns a video for playback, counting the view and recording it in
// the viewer's history. Unpublished videos are visible to their owner only.
func (s *VideoService) Watch(ctx context.Context, videoID string, viewerID string) (model.Video, error) {
	video, err := visibleVideo(ctx, s.videos, videoID, viewerID)
	if err != nil {
		return model.Video{}, err
	}

	if err := s.videos.IncrementViews(ctx, videoID); err != nil {
		return model.Video{}, err
	}
	video.Views++

	if viewerID != "" {
		if err := s.videos.RecordWatch(ctx, viewerID, videoID); err != nil {
			return model.Video{}, err
		}
	}

	return video, nil
}

func (s *VideoService) Update(ctx context.Context, videoID string, requesterID string, in model.UpdateVideoInput) (model.Video, error) {
	video, err := s.ownedVideo(ctx, videoID, requesterID)
	if err != nil {
		return model.Video{}, err
	}

	if in.Title == nil && in.Description == nil && strings.TrimSpace(in.ThumbnailPath) == "" {
		return model.Video{}, apierror.BadRequest("nothing to update", "")
	}

	if in.Title != nil {
		title := util.SanitizeText(*in.Title)
		if title == "" {
			return model.Video{}, apierror.BadRequest("title cannot be empty", "")
		}
		video.Title = title
	}
	if in.Description != nil {
		video.Description = util.SanitizeText(*in.Description)
	}
	var uploaded []media.Asset
	if strings.TrimSpace(in.ThumbnailPath) != "" {
		thumbnail, err := s.uploader.Upload(ctx, in.ThumbnailPath, media.KindImage)
		if err != nil {
			return model.Video{}, err
		}
		video.Thumbnail = thumbnail.URL
		uploaded = append(uploaded, thumbnail)
	}

	if err := s.videos.Update(ctx, video); err != nil {
		discardAssets(ctx, s.uploader, uploaded...)
		return model.Video{}, err
	}
	return s.videos.FindByID(ctx, videoID)
}

func (s *VideoService) Delete(ctx context.Context, videoID string, requesterID string) error {
	if _, err := s.ownedVideo(ctx, videoID, requesterID); err != nil {
		return err
	}

	if err := s.videos.Delete(ctx, videoID); err != nil {
		return err
	}

	slog.Info("video deleted", "video_id", videoID, "owner_id", requesterID)
	return nil
}

func (s *VideoService) TogglePublish(ctx context.Context, videoID string, requesterID string) (model.Video, error) {
	video, err := s.ownedVideo(ctx, videoID, requesterID)
	if err != nil {
		return model.Video{}, err
	}

	video.IsPublished = !video.IsPublished
	if err := s.videos.Update(ctx, video); err != nil {
		return model.Video{}, err
	}
	return video, nil
}

func (s *VideoService) ownedVideo(ctx context.Context, videoID string, requesterID string) (model.Video, error) {
	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return model.Video{}, err
	}
	if err := requireOwner(video, requesterID, "video not found", videoID); err != nil {
		return model.Video{}, err
	}
	return video, nil
}
