package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-vidtube/internal/model"
)

type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

// Toggle unsubscribes when a subscription exists and subscribes otherwise.
// It reports whether the subscriber follows the channel afterwards.
func (r *SubscriptionRepository) Toggle(ctx context.Context, subscriberID string, channelID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("unsubscribe: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (subscriber_id, channel_id) DO NOTHING`,
		uuid.NewString(), subscriberID, channelID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("subscribe: %w", err)
	}
	return true, nil
}

func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID string, channelID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2)`,
		subscriberID, channelID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check subscription: %w", err)
	}
	return exists, nil
}

func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID string) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID string) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`, subscriberID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count subscriptions: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepository) CountSubscribersSince(ctx context.Context, channelID string, since time.Time) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1 AND created_at >= $2`,
		channelID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count new subscribers: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepository) ListSubscribers(ctx context.Context, channelID string, q model.ListQuery) ([]model.SubscriptionEntry, int, error) {
	return r.list(ctx, "channel_id", "subscriber_id", channelID, q)
}

func (r *SubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID string, q model.ListQuery) ([]model.SubscriptionEntry, int, error) {
	return r.list(ctx, "subscriber_id", "channel_id", subscriberID, q)
}

// list pages over subscriptions matching filterColumn and joins the user on the other side.
func (r *SubscriptionRepository) list(ctx context.Context, filterColumn string, joinColumn string, id string, q model.ListQuery) ([]model.SubscriptionEntry, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM subscriptions WHERE %s = $1`, filterColumn), id).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count subscriptions: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT u.id, u.username, u.full_name, u.avatar, s.created_at
		             FROM subscriptions s JOIN users u ON u.id = s.%s
		             WHERE s.%s = $1
		             ORDER BY s.created_at DESC
		             LIMIT $2 OFFSET $3`, joinColumn, filterColumn),
		id, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	entries := make([]model.SubscriptionEntry, 0)
	for rows.Next() {
		var e model.SubscriptionEntry
		if err := rows.Scan(&e.User.ID, &e.User.Username, &e.User.FullName, &e.User.Avatar, &e.SubscribedAt); err != nil {
			return nil, 0, fmt.Errorf("scan subscription: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
