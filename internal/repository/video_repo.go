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

const videoSelect = `SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail,
	v.view_count, v.is_published, v.created_at, v.updated_at,
	u.username, u.full_name, u.avatar
	FROM videos v JOIN users u ON u.id = v.owner_id`

var videoSortColumns = map[string]string{
	"createdAt": "v.created_at",
	"updatedAt": "v.updated_at",
	"title":     "v.title",
	"views":     "v.view_count",
}

type VideoRepository struct {
	pool *pgxpool.Pool
}

func NewVideoRepository(pool *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{pool: pool}
}

func scanVideo(row pgx.Row) (model.Video, error) {
	var v model.Video
	owner := &model.OwnerSummary{}
	err := row.Scan(&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoURL, &v.Thumbnail,
		&v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
		&owner.Username, &owner.FullName, &owner.Avatar)
	owner.ID = v.OwnerID
	v.Owner = owner
	return v, err
}

func collectVideos(rows pgx.Rows) ([]model.Video, error) {
	defer rows.Close()

	videos := make([]model.Video, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *VideoRepository) Create(ctx context.Context, v model.Video) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO videos (id, owner_id, title, description, video_url, thumbnail,
		                     is_published, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		v.ID, v.OwnerID, v.Title, v.Description, v.VideoURL, v.Thumbnail,
		v.IsPublished, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create video: %w", err)
	}
	return nil
}

func (r *VideoRepository) FindByID(ctx context.Context, id string) (model.Video, error) {
	v, err := scanVideo(r.pool.QueryRow(ctx, videoSelect+` WHERE v.id = $1`, id))
	if err != nil {
		return model.Video{}, notFoundOr(err, "video not found", id, "find video")
	}
	return v, nil
}

func (r *VideoRepository) List(ctx context.Context, filter model.VideoFilter) ([]model.Video, int, error) {
	var where whereBuilder
	if !filter.IncludeUnpublished {
		where.addRaw("v.is_published")
	}
	if filter.OwnerID != "" {
		where.add("v.owner_id = $%d", filter.OwnerID)
	}
	if filter.Query != "" {
		n := where.next()
		where.args = append(where.args, likePattern(filter.Query))
		where.addRaw(fmt.Sprintf("(v.title ILIKE $%d OR v.description ILIKE $%d)", n, n))
	}

	var total int
	countSQL := `SELECT COUNT(*) FROM videos v ` + where.sql()
	if err := r.pool.QueryRow(ctx, countSQL, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	n := where.next()
	dataSQL := fmt.Sprintf(`%s %s %s LIMIT $%d OFFSET $%d`,
		videoSelect, where.sql(),
		orderBy(filter.SortBy, filter.Desc, videoSortColumns, "v.created_at"),
		n, n+1)
	args := append(where.args, filter.Limit, filter.Offset())

	rows, err := r.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list videos: %w", err)
	}
	videos, err := collectVideos(rows)
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

func (r *VideoRepository) Update(ctx context.Context, v model.Video) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE videos SET title = $2, description = $3, thumbnail = $4, is_published = $5, updated_at = $6
		 WHERE id = $1`,
		v.ID, v.Title, v.Description, v.Thumbnail, v.IsPublished, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("video not found", v.ID)
	}
	return nil
}

func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("video not found", id)
	}
	return nil
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE videos SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// RecordWatch upserts the viewer's history entry so a video appears once, at its latest watch time.
func (r *VideoRepository) RecordWatch(ctx context.Context, userID string, videoID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO watch_history (user_id, video_id, watched_at) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = EXCLUDED.watched_at`,
		userID, videoID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record watch: %w", err)
	}
	return nil
}

func (r *VideoRepository) WatchHistory(ctx context.Context, userID string, q model.ListQuery) ([]model.WatchHistoryEntry, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM watch_history WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count watch history: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail,
		        v.view_count, v.is_published, v.created_at, v.updated_at,
		        u.username, u.full_name, u.avatar, h.watched_at
		 FROM watch_history h
		 JOIN videos v ON v.id = h.video_id
		 JOIN users u ON u.id = v.owner_id
		 WHERE h.user_id = $1
		 ORDER BY h.watched_at DESC
		 LIMIT $2 OFFSET $3`, userID, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list watch history: %w", err)
	}
	defer rows.Close()

	entries := make([]model.WatchHistoryEntry, 0)
	for rows.Next() {
		var e model.WatchHistoryEntry
		owner := &model.OwnerSummary{}
		if err := rows.Scan(&e.Video.ID, &e.Video.OwnerID, &e.Video.Title, &e.Video.Description,
			&e.Video.VideoURL, &e.Video.Thumbnail, &e.Video.Views,
			&e.Video.IsPublished, &e.Video.CreatedAt, &e.Video.UpdatedAt,
			&owner.Username, &owner.FullName, &owner.Avatar, &e.WatchedAt); err != nil {
			return nil, 0, fmt.Errorf("scan watch history: %w", err)
		}
		owner.ID = e.Video.OwnerID
		e.Video.Owner = owner
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
