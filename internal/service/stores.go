package service

import (
	"context"
	"time"

	"go-vidtube/internal/media"
	"go-vidtube/internal/model"
)

// The store interfaces below are the slices of the repositories each service
// needs. The postgres repositories satisfy them; tests use in-memory fakes.

type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByLogin(ctx context.Context, username string, email string) (model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username string, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
	SetRefreshToken(ctx context.Context, userID string, token *string) error
	RotateRefreshToken(ctx context.Context, userID string, current string, next string) (bool, error)
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	UpdateAccount(ctx context.Context, userID string, fullName string, email string) (model.User, error)
	UpdateAvatar(ctx context.Context, userID string, url string) (model.User, error)
	UpdateCoverImage(ctx context.Context, userID string, url string) (model.User, error)
}

type VideoStore interface {
	Create(ctx context.Context, v model.Video) error
	FindByID(ctx context.Context, id string) (model.Video, error)
	List(ctx context.Context, filter model.VideoFilter) ([]model.Video, int, error)
	Update(ctx context.Context, v model.Video) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	RecordWatch(ctx context.Context, userID string, videoID string) error
	WatchHistory(ctx context.Context, userID string, q model.ListQuery) ([]model.WatchHistoryEntry, int, error)
}

type CommentStore interface {
	Create(ctx context.Context, c model.Comment) error
	FindByID(ctx context.Context, id string) (model.Comment, error)
	ListByVideo(ctx context.Context, videoID string, q model.ListQuery) ([]model.Comment, int, error)
	UpdateContent(ctx context.Context, id string, content string) error
	Delete(ctx context.Context, id string) error
}

type TweetStore interface {
	Create(ctx context.Context, t model.Tweet) error
	FindByID(ctx context.Context, id string) (model.Tweet, error)
	ListByOwner(ctx context.Context, ownerID string, q model.ListQuery) ([]model.Tweet, int, error)
	UpdateContent(ctx context.Context, id string, content string) error
	Delete(ctx context.Context, id string) error
}

type LikeStore interface {
	Toggle(ctx context.Context, userID string, target model.LikeTarget, targetID string) (bool, error)
	LikedVideos(ctx context.Context, userID string, q model.ListQuery) ([]model.Video, int, error)
}

type PlaylistStore interface {
	Create(ctx context.Context, p model.Playlist) error
	FindByID(ctx context.Context, id string) (model.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string, q model.ListQuery) ([]model.Playlist, int, error)
	Videos(ctx context.Context, playlistID string) ([]model.Video, error)
	Update(ctx context.Context, p model.Playlist) error
	Delete(ctx context.Context, id string) error
	AddVideo(ctx context.Context, playlistID string, videoID string) error
	RemoveVideo(ctx context.Context, playlistID string, videoID string) error
}

type SubscriptionStore interface {
	Toggle(ctx context.Context, subscriberID string, channelID string) (bool, error)
	IsSubscribed(ctx context.Context, subscriberID string, channelID string) (bool, error)
	CountSubscribers(ctx context.Context, channelID string) (int, error)
	CountSubscribedTo(ctx context.Context, subscriberID string) (int, error)
	CountSubscribersSince(ctx context.Context, channelID string, since time.Time) (int, error)
	ListSubscribers(ctx context.Context, channelID string, q model.ListQuery) ([]model.SubscriptionEntry, int, error)
	ListSubscribedChannels(ctx context.Context, subscriberID string, q model.ListQuery) ([]model.SubscriptionEntry, int, error)
}

type DashboardStore interface {
	VideoTotals(ctx context.Context, channelID string) (int, int64, error)
	CountVideoLikes(ctx context.Context, channelID string) (int, error)
}

// MediaUploader pushes a staged local file to the media backend.
type MediaUploader interface {
	Upload(ctx context.Context, localPath string, kind media.Kind) (media.Asset, error)
}
