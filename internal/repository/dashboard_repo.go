package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepository answers the per-channel counters the dashboard reduces into stats.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// VideoTotals returns the number of videos a channel owns and their summed view count.
func (r *DashboardRepository) VideoTotals(ctx context.Context, channelID string) (int, int64, error) {
	var count int
	var views int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(view_count), 0)::bigint FROM videos WHERE owner_id = $1`,
		channelID).Scan(&count, &views)
	if err != nil {
		return 0, 0, fmt.Errorf("video totals: %w", err)
	}
	return count, views, nil
}

func (r *DashboardRepository) CountVideoLikes(ctx context.Context, channelID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM likes l JOIN videos v ON v.id = l.video_id WHERE v.owner_id = $1`,
		channelID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count channel likes: %w", err)
	}
	return count, nil
}
