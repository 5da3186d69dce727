package service

import (
	"context"
	"net/mail"
	"strings"

	"go-vidtube/internal/media"
	"go-vidtube/internal/model"
	"go-vidtube/pkg/apierror"
)

type UserService struct {
	users         UserStore
	videos        VideoStore
	subscriptions SubscriptionStore
	uploader      MediaUploader
}

func NewUserService(users UserStore, videos VideoStore, subscriptions SubscriptionStore, uploader MediaUploader) *UserService {
	return &UserService{users: users, videos: videos, subscriptions: subscriptions, uploader: uploader}
}

func (s *UserService) CurrentUser(ctx context.Context, userID string) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *UserService) UpdateAccount(ctx context.Context, userID string, req model.UpdateAccountRequest) (model.PublicUser, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" || email == "" {
		return model.PublicUser{}, apierror.BadRequest("all fields are required", "")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.PublicUser{}, apierror.BadRequest("email is invalid", email)
	}

	user, err := s.users.UpdateAccount(ctx, userID, fullName, email)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID string, localPath string) (model.PublicUser, error) {
	if strings.TrimSpace(localPath) == "" {
		return model.PublicUser{}, apierror.BadRequest("avatar file is missing", "")
	}

	asset, err := s.uploader.Upload(ctx, localPath, media.KindImage)
	if err != nil {
		return model.PublicUser{}, err
	}

	user, err := s.users.UpdateAvatar(ctx, userID, asset.URL)
	if err != nil {
		discardAssets(ctx, s.uploader, asset)
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID string, localPath string) (model.PublicUser, error) {
	if strings.TrimSpace(localPath) == "" {
		return model.PublicUser{}, apierror.BadRequest("cover image file is missing", "")
	}

	asset, err := s.uploader.Upload(ctx, localPath, media.KindImage)
	if err != nil {
		return model.PublicUser{}, err
	}

	user, err := s.users.UpdateCoverImage(ctx, userID, asset.URL)
	if err != nil {
		discardAssets(ctx, s.uploader, asset)
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

// ChannelProfile assembles the public channel page: profile, subscriber and
// subscription counts, and whether the viewer is subscribed.
func (s *UserService) ChannelProfile(ctx context.Context, username string, viewerID string) (model.ChannelProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return model.ChannelProfile{}, apierror.BadRequest("username is missing", "")
	}

	channel, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return model.ChannelProfile{}, err
	}

	subscribers, err := s.subscriptions.CountSubscribers(ctx, channel.ID)
	if err != nil {
		return model.ChannelProfile{}, err
	}

	subscribedTo, err := s.subscriptions.CountSubscribedTo(ctx, channel.ID)
	if err != nil {
		return model.ChannelProfile{}, err
	}

	isSubscribed := false
	if viewerID != "" && viewerID != channel.ID {
		isSubscribed, err = s.subscriptions.IsSubscribed(ctx, viewerID, channel.ID)
		if err != nil {
			return model.ChannelProfile{}, err
		}
	}

	return model.ChannelProfile{
		PublicUser:                channel.Public(),
		SubscribersCount:          subscribers,
		ChannelsSubscribedToCount: subscribedTo,
		IsSubscribed:              isSubscribed,
	}, nil
}

func (s *UserService) WatchHistory(ctx context.Context, userID string, q model.ListQuery) (model.Page[model.WatchHistoryEntry], error) {
	entries, total, err := s.videos.WatchHistory(ctx, userID, q)
	if err != nil {
		return model.Page[model.WatchHistoryEntry]{}, err
	}
	return model.NewPage(entries, total, q), nil
}
