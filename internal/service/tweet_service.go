package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-vidtube/internal/model"
	"go-vidtube/internal/util"
	"go-vidtube/pkg/apierror"
)

type TweetService struct {
	tweets TweetStore
	users  UserStore
}

func NewTweetService(tweets TweetStore, users UserStore) *TweetService {
	return &TweetService{tweets: tweets, users: users}
}

func (s *TweetService) Create(ctx context.Context, ownerID string, content string) (model.Tweet, error) {
	content = util.SanitizeText(content)
	if content == "" {
		return model.Tweet{}, apierror.BadRequest("content is required", "")
	}

	now := time.Now().UTC()
	tweet := model.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tweets.Create(ctx, tweet); err != nil {
		return model.Tweet{}, err
	}
	return s.tweets.FindByID(ctx, tweet.ID)
}

func (s *TweetService) ListByUser(ctx context.Context, userID string, q model.ListQuery) (model.Page[model.Tweet], error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return model.Page[model.Tweet]{}, err
	}

	tweets, total, err := s.tweets.ListByOwner(ctx, userID, q)
	if err != nil {
		return model.Page[model.Tweet]{}, err
	}
	return model.NewPage(tweets, total, q), nil
}

func (s *TweetService) Update(ctx context.Context, tweetID string, requesterID string, content string) (model.Tweet, error) {
	content = util.SanitizeText(content)
	if content == "" {
		return model.Tweet{}, apierror.BadRequest("content is required", "")
	}

	if err := s.checkOwner(ctx, tweetID, requesterID); err != nil {
		return model.Tweet{}, err
	}

	if err := s.tweets.UpdateContent(ctx, tweetID, content); err != nil {
		return model.Tweet{}, err
	}
	return s.tweets.FindByID(ctx, tweetID)
}

func (s *TweetService) Delete(ctx context.Context, tweetID string, requesterID string) error {
	if err := s.checkOwner(ctx, tweetID, requesterID); err != nil {
		return err
	}
	return s.tweets.Delete(ctx, tweetID)
}

func (s *TweetService) checkOwner(ctx context.Context, tweetID string, requesterID string) error {
	tweet, err := s.tweets.FindByID(ctx, tweetID)
	if err != nil {
		return err
	}
	return requireOwner(tweet, requesterID, "tweet not found", tweetID)
}
