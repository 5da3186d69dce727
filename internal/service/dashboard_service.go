package service

import (
	"context"
	"math"
	"time"

	"go-vidtube/internal/model"
)

type DashboardService struct {
	dashboard     DashboardStore
	subscriptions SubscriptionStore
	videos        VideoStore
	users         UserStore
	now           func() time.Time
}

func NewDashboardService(dashboard DashboardStore, subscriptions SubscriptionStore, videos VideoStore, users UserStore) *DashboardService {
	return &DashboardService{
		dashboard:     dashboard,
		subscriptions: subscriptions,
		videos:        videos,
		users:         users,
		now:           time.Now,
	}
}

// Stats reduces the channel's counters in a few independent reads. The
// numbers are not taken from one snapshot and may drift under concurrent writes.
func (s *DashboardService) Stats(ctx context.Context, channelID string) (model.ChannelStats, error) {
	if _, err := s.users.FindByID(ctx, channelID); err != nil {
		return model.ChannelStats{}, err
	}

	videoCount, views, err := s.dashboard.VideoTotals(ctx, channelID)
	if err != nil {
		return model.ChannelStats{}, err
	}

	likes, err := s.dashboard.CountVideoLikes(ctx, channelID)
	if err != nil {
		return model.ChannelStats{}, err
	}

	subscribers, err := s.subscriptions.CountSubscribers(ctx, channelID)
	if err != nil {
		return model.ChannelStats{}, err
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	newSubscribers, err := s.subscriptions.CountSubscribersSince(ctx, channelID, monthStart)
	if err != nil {
		return model.ChannelStats{}, err
	}

	average := 0.0
	if videoCount > 0 {
		average = math.Round(float64(views)/float64(videoCount)*100) / 100
	}

	return model.ChannelStats{
		TotalSubscribers:        subscribers,
		TotalVideos:             videoCount,
		TotalViews:              views,
		TotalLikes:              likes,
		NewSubscribersThisMonth: newSubscribers,
		AverageViewsPerVideo:    average,
	}, nil
}

// Videos lists every video of the channel, unpublished ones included.
func (s *DashboardService) Videos(ctx context.Context, channelID string, q model.ListQuery) (model.Page[model.Video], error) {
	videos, total, err := s.videos.List(ctx, model.VideoFilter{
		ListQuery:          q,
		OwnerID:            channelID,
		IncludeUnpublished: true,
	})
	if err != nil {
		return model.Page[model.Video]{}, err
	}
	return model.NewPage(videos, total, q), nil
}
