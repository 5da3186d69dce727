package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-vidtube/internal/model"
	"go-vidtube/internal/util"
	"go-vidtube/pkg/apierror"
)

type CommentService struct {
	comments CommentStore
	videos   VideoStore
}

func NewCommentService(comments CommentStore, videos VideoStore) *CommentService {
	return &CommentService{comments: comments, videos: videos}
}

func (s *CommentService) List(ctx context.Context, videoID string, q model.ListQuery) (model.Page[model.Comment], error) {
	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		return model.Page[model.Comment]{}, err
	}

	comments, total, err := s.comments.ListByVideo(ctx, videoID, q)
	if err != nil {
		return model.Page[model.Comment]{}, err
	}
	return model.NewPage(comments, total, q), nil
}

func (s *CommentService) Add(ctx context.Context, videoID string, ownerID string, content string) (model.Comment, error) {
	content = util.SanitizeText(content)
	if content == "" {
		return model.Comment{}, apierror.BadRequest("content is required", "")
	}

	if _, err := visibleVideo(ctx, s.videos, videoID, ownerID); err != nil {
		return model.Comment{}, err
	}

	now := time.Now().UTC()
	comment := model.Comment{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return model.Comment{}, err
	}
	return s.comments.FindByID(ctx, comment.ID)
}

func (s *CommentService) Update(ctx context.Context, commentID string, requesterID string, content string) (model.Comment, error) {
	content = util.SanitizeText(content)
	if content == "" {
		return model.Comment{}, apierror.BadRequest("content is required", "")
	}

	if _, err := s.ownedComment(ctx, commentID, requesterID); err != nil {
		return model.Comment{}, err
	}

	if err := s.comments.UpdateContent(ctx, commentID, content); err != nil {
		return model.Comment{}, err
	}
	return s.comments.FindByID(ctx, commentID)
}

func (s *CommentService) Delete(ctx context.Context, commentID string, requesterID string) error {
	if _, err := s.ownedComment(ctx, commentID, requesterID); err != nil {
		return err
	}
	return s.comments.Delete(ctx, commentID)
}

func (s *CommentService) ownedComment(ctx context.Context, commentID string, requesterID string) (model.Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return model.Comment{}, err
	}
	if err := requireOwner(comment, requesterID, "comment not found", commentID); err != nil {
		return model.Comment{}, err
	}
	return comment, nil
}
