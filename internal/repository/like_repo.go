package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-vidtube/internal/model"
	"go-vidtube/pkg/apierror"
)

var likeTargetColumns = map[model.LikeTarget]string{
	model.LikeTargetVideo:   "video_id",
	model.LikeTargetComment: "comment_id",
	model.LikeTargetTweet:   "tweet_id",
}

type LikeRepository struct {
	pool *pgxpool.Pool
}

func NewLikeRepository(pool *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{pool: pool}
}

// Toggle removes the user's like on the target if present, otherwise adds one.
// It reports whether the target is liked afterwards.
func (r *LikeRepository) Toggle(ctx context.Context, userID string, target model.LikeTarget, targetID string) (bool, error) {
	column, ok := likeTargetColumns[target]
	if !ok {
		return false, apierror.BadRequest("unknown like target", string(target))
	}

	tag, err := r.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM likes WHERE user_id = $1 AND %s = $2`, column), userID, targetID)
	if err != nil {
		return false, fmt.Errorf("remove like: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = r.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO likes (id, user_id, %s, created_at) VALUES ($1, $2, $3, $4)
		             ON CONFLICT DO NOTHING`, column),
		uuid.NewString(), userID, targetID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("add like: %w", err)
	}
	return true, nil
}

func (r *LikeRepository) LikedVideos(ctx context.Context, userID string, q model.ListQuery) ([]model.Video, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM likes l JOIN videos v ON v.id = l.video_id
		 WHERE l.user_id = $1 AND v.is_published`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count liked videos: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail,
		        v.view_count, v.is_published, v.created_at, v.updated_at,
		        u.username, u.full_name, u.avatar
		 FROM likes l
		 JOIN videos v ON v.id = l.video_id
		 JOIN users u ON u.id = v.owner_id
		 WHERE l.user_id = $1 AND v.is_published
		 ORDER BY l.created_at DESC
		 LIMIT $2 OFFSET $3`, userID, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list liked videos: %w", err)
	}
	videos, err := collectVideos(rows)
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}
