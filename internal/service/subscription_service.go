package service

import (
	"context"

	"go-vidtube/internal/model"
	"go-vidtube/pkg/apierror"
)

type SubscriptionService struct {
	subscriptions SubscriptionStore
	users         UserStore
}

func NewSubscriptionService(subscriptions SubscriptionStore, users UserStore) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, users: users}
}

func (s *SubscriptionService) Toggle(ctx context.Context, subscriberID string, channelID string) (model.SubscriptionToggleResult, error) {
	if subscriberID == channelID {
		return model.SubscriptionToggleResult{}, apierror.BadRequest("cannot subscribe to your own channel", channelID)
	}
	if _, err := s.users.FindByID(ctx, channelID); err != nil {
		return model.SubscriptionToggleResult{}, err
	}

	subscribed, err := s.subscriptions.Toggle(ctx, subscriberID, channelID)
	if err != nil {
		return model.SubscriptionToggleResult{}, err
	}
	return model.SubscriptionToggleResult{Subscribed: subscribed}, nil
}

func (s *SubscriptionService) Subscribers(ctx context.Context, channelID string, q model.ListQuery) (model.Page[model.SubscriptionEntry], error) {
	if _, err := s.users.FindByID(ctx, channelID); err != nil {
		return model.Page[model.SubscriptionEntry]{}, err
	}

	entries, total, err := s.subscriptions.ListSubscribers(ctx, channelID, q)
	if err != nil {
		return model.Page[model.SubscriptionEntry]{}, err
	}
	return model.NewPage(entries, total, q), nil
}

func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID string, q model.ListQuery) (model.Page[model.SubscriptionEntry], error) {
	if _, err := s.users.FindByID(ctx, subscriberID); err != nil {
		return model.Page[model.SubscriptionEntry]{}, err
	}

	entries, total, err := s.subscriptions.ListSubscribedChannels(ctx, subscriberID, q)
	if err != nil {
		return model.Page[model.SubscriptionEntry]{}, err
	}
	return model.NewPage(entries, total, q), nil
}
