package service

import (
	"context"

	"go-vidtube/internal/model"
	"go-vidtube/pkg/apierror"
)

type LikeService struct {
	likes    LikeStore
	videos   VideoStore
	comments CommentStore
	tweets   TweetStore
}

func NewLikeService(likes LikeStore, videos VideoStore, comments CommentStore, tweets TweetStore) *LikeService {
	return &LikeService{likes: likes, videos: videos, comments: comments, tweets: tweets}
}

// Toggle flips the user's like on a video, comment or tweet after checking the target exists.
func (s *LikeService) Toggle(ctx context.Context, userID string, target model.LikeTarget, targetID string) (model.LikeToggleResult, error) {
	var err error
	switch target {
	case model.LikeTargetVideo:
		_, err = visibleVideo(ctx, s.videos, targetID, userID)
	case model.LikeTargetComment:
		_, err = s.comments.FindByID(ctx, targetID)
	case model.LikeTargetTweet:
		_, err = s.tweets.FindByID(ctx, targetID)
	default:
		err = apierror.BadRequest("unknown like target", string(target))
	}
	if err != nil {
		return model.LikeToggleResult{}, err
	}

	liked, err := s.likes.Toggle(ctx, userID, target, targetID)
	if err != nil {
		return model.LikeToggleResult{}, err
	}
	return model.LikeToggleResult{IsLiked: liked}, nil
}

func (s *LikeService) LikedVideos(ctx context.Context, userID string, q model.ListQuery) (model.Page[model.Video], error) {
	videos, total, err := s.likes.LikedVideos(ctx, userID, q)
	if err != nil {
		return model.Page[model.Video]{}, err
	}
	return model.NewPage(videos, total, q), nil
}
