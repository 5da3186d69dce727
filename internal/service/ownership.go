package service

import (
	"context"
	"log/slog"

	"go-vidtube/internal/media"
	"go-vidtube/internal/model"
	"go-vidtube/pkg/apierror"
)

type ownedResource interface {
	OwnedBy() string
}

// IsOwner is the single ownership predicate applied before every mutation.
func IsOwner(resource ownedResource, requesterID string) bool {
	return requesterID != "" && resource.OwnedBy() == requesterID
}

// requireOwner hides foreign resources behind the same NotFound a missing one gets.
func requireOwner(resource ownedResource, requesterID string, message string, id string) error {
	if !IsOwner(resource, requesterID) {
		return apierror.NotFound(message, id)
	}
	return nil
}

// visibleVideo loads a video the viewer may interact with. Unpublished videos
// exist only for their owner.
func visibleVideo(ctx context.Context, videos VideoStore, videoID string, viewerID string) (model.Video, error) {
	video, err := videos.FindByID(ctx, videoID)
	if err != nil {
		return model.Video{}, err
	}
	if !video.IsPublished && !IsOwner(video, viewerID) {
		return model.Video{}, apierror.NotFound("video not found", videoID)
	}
	return video, nil
}

// assetDiscarder is implemented by uploaders that can delete what they stored.
type assetDiscarder interface {
	Discard(ctx context.Context, asset media.Asset) error
}

// discardAssets removes assets whose owning record was never written. Failures
// only log, with the key, so the object can be removed by hand.
func discardAssets(ctx context.Context, uploader MediaUploader, assets ...media.Asset) {
	discarder, ok := uploader.(assetDiscarder)
	for _, asset := range assets {
		if !ok {
			slog.Warn("orphaned media asset", "key", asset.Key, "url", asset.URL)
			continue
		}
		if err := discarder.Discard(context.WithoutCancel(ctx), asset); err != nil {
			slog.Warn("orphaned media asset", "key", asset.Key, "url", asset.URL, "error", err)
		}
	}
}
