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

const playlistSelect = `SELECT p.id, p.owner_id, p.name, p.description, p.thumbnail, p.created_at, p.updated_at,
	u.username, u.full_name, u.avatar,
	(SELECT COUNT(*) FROM playlist_videos pv WHERE pv.playlist_id = p.id)
	FROM playlists p JOIN users u ON u.id = p.owner_id`

type PlaylistRepository struct {
	pool *pgxpool.Pool
}

func NewPlaylistRepository(pool *pgxpool.Pool) *PlaylistRepository {
	return &PlaylistRepository{pool: pool}
}

func scanPlaylist(row pgx.Row) (model.Playlist, error) {
	var p model.Playlist
	owner := &model.OwnerSummary{}
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Thumbnail, &p.CreatedAt, &p.UpdatedAt,
		&owner.Username, &owner.FullName, &owner.Avatar, &p.VideoCount)
	owner.ID = p.OwnerID
	p.Owner = owner
	return p, err
}

func (r *PlaylistRepository) Create(ctx context.Context, p model.Playlist) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO playlists (id, owner_id, name, description, thumbnail, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.OwnerID, p.Name, p.Description, p.Thumbnail, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create playlist: %w", err)
	}
	return nil
}

func (r *PlaylistRepository) FindByID(ctx context.Context, id string) (model.Playlist, error) {
	p, err := scanPlaylist(r.pool.QueryRow(ctx, playlistSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return model.Playlist{}, notFoundOr(err, "playlist not found", id, "find playlist")
	}
	return p, nil
}

func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID string, q model.ListQuery) ([]model.Playlist, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM playlists WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count playlists: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		playlistSelect+` WHERE p.owner_id = $1 ORDER BY p.updated_at DESC, p.id DESC LIMIT $2 OFFSET $3`,
		ownerID, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]model.Playlist, 0)
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	return playlists, total, rows.Err()
}

func (r *PlaylistRepository) Videos(ctx context.Context, playlistID string) ([]model.Video, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail,
		        v.view_count, v.is_published, v.created_at, v.updated_at,
		        u.username, u.full_name, u.avatar
		 FROM playlist_videos pv
		 JOIN videos v ON v.id = pv.video_id
		 JOIN users u ON u.id = v.owner_id
		 WHERE pv.playlist_id = $1
		 ORDER BY pv.added_at`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list playlist videos: %w", err)
	}
	return collectVideos(rows)
}

func (r *PlaylistRepository) Update(ctx context.Context, p model.Playlist) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE playlists SET name = $2, description = $3, updated_at = $4 WHERE id = $1`,
		p.ID, p.Name, p.Description, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("playlist not found", p.ID)
	}
	return nil
}

func (r *PlaylistRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("playlist not found", id)
	}
	return nil
}

func (r *PlaylistRepository) AddVideo(ctx context.Context, playlistID string, videoID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO playlist_videos (playlist_id, video_id, added_at) VALUES ($1, $2, $3)`,
		playlistID, videoID, time.Now().UTC())
	if isUniqueViolation(err) {
		return apierror.Conflict("video already exists in the playlist", videoID)
	}
	if err != nil {
		return fmt.Errorf("add playlist video: %w", err)
	}
	return r.touch(ctx, playlistID)
}

func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID string, videoID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`, playlistID, videoID)
	if err != nil {
		return fmt.Errorf("remove playlist video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("video is not in the playlist", videoID)
	}
	return r.touch(ctx, playlistID)
}

func (r *PlaylistRepository) touch(ctx context.Context, playlistID string) error {
	if _, err := r.pool.Exec(ctx, `UPDATE playlists SET updated_at = $2 WHERE id = $1`, playlistID, time.Now().UTC()); err != nil {
		return fmt.Errorf("touch playlist: %w", err)
	}
	return nil
}
