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

const commentSelect = `SELECT c.id, c.video_id, c.owner_id, c.content, c.created_at, c.updated_at,
	u.username, u.full_name, u.avatar
	FROM comments c JOIN users u ON u.id = c.owner_id`

var commentSortColumns = map[string]string{
	"createdAt": "c.created_at",
	"updatedAt": "c.updated_at",
}

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func scanComment(row pgx.Row) (model.Comment, error) {
	var c model.Comment
	owner := &model.OwnerSummary{}
	err := row.Scan(&c.ID, &c.VideoID, &c.OwnerID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
		&owner.Username, &owner.FullName, &owner.Avatar)
	owner.ID = c.OwnerID
	c.Owner = owner
	return c, err
}

func (r *CommentRepository) Create(ctx context.Context, c model.Comment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO comments (id, video_id, owner_id, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.VideoID, c.OwnerID, c.Content, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (model.Comment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id))
	if err != nil {
		return model.Comment{}, notFoundOr(err, "comment not found", id, "find comment")
	}
	return c, nil
}

func (r *CommentRepository) ListByVideo(ctx context.Context, videoID string, q model.ListQuery) ([]model.Comment, int, error) {
	var where whereBuilder
	where.add("c.video_id = $%d", videoID)
	if q.Query != "" {
		where.add("c.content ILIKE $%d", likePattern(q.Query))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments c `+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	n := where.next()
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`%s %s %s LIMIT $%d OFFSET $%d`, commentSelect, where.sql(),
			orderBy(q.SortBy, q.Desc, commentSortColumns, "c.created_at"), n, n+1),
		append(where.args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, total, rows.Err()
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id string, content string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE comments SET content = $2, updated_at = $3 WHERE id = $1`,
		id, content, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("comment not found", id)
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("comment not found", id)
	}
	return nil
}
