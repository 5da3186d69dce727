package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-vidtube/internal/model"
	"go-vidtube/pkg/apierror"
)

const tweetSelect = `SELECT t.id, t.owner_id, t.content, t.created_at, t.updated_at,
	u.username, u.full_name, u.avatar
	FROM tweets t JOIN users u ON u.id = t.owner_id`

type TweetRepository struct {
	pool *pgxpool.Pool
}

func NewTweetRepository(pool *pgxpool.Pool) *TweetRepository {
	return &TweetRepository{pool: pool}
}

func scanTweet(row pgx.Row) (model.Tweet, error) {
	var t model.Tweet
	owner := &model.OwnerSummary{}
	err := row.Scan(&t.ID, &t.OwnerID, &t.Content, &t.CreatedAt, &t.UpdatedAt,
		&owner.Username, &owner.FullName, &owner.Avatar)
	owner.ID = t.OwnerID
	t.Owner = owner
	return t, err
}

func (r *TweetRepository) Create(ctx context.Context, t model.Tweet) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tweets (id, owner_id, content, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.OwnerID, t.Content, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create tweet: %w", err)
	}
	return nil
}

func (r *TweetRepository) FindByID(ctx context.Context, id string) (model.Tweet, error) {
	t, err := scanTweet(r.pool.QueryRow(ctx, tweetSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return model.Tweet{}, notFoundOr(err, "tweet not found", id, "find tweet")
	}
	return t, nil
}

func (r *TweetRepository) ListByOwner(ctx context.Context, ownerID string, q model.ListQuery) ([]model.Tweet, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tweets WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tweets: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		tweetSelect+` WHERE t.owner_id = $1 ORDER BY t.created_at DESC, t.id DESC LIMIT $2 OFFSET $3`,
		ownerID, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list tweets: %w", err)
	}
	defer rows.Close()

	tweets := make([]model.Tweet, 0)
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tweet: %w", err)
		}
		tweets = append(tweets, t)
	}
	return tweets, total, rows.Err()
}

func (r *TweetRepository) UpdateContent(ctx context.Context, id string, content string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tweets SET content = $2, updated_at = $3 WHERE id = $1`, id, content, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update tweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("tweet not found", id)
	}
	return nil
}

func (r *TweetRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("tweet not found", id)
	}
	return nil
}
