package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-vidtube/internal/model"
	"go-vidtube/pkg/apierror"
)

const userColumns = `id, username, email, full_name, avatar, cover_image,
	password_hash, refresh_token, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Avatar, &u.CoverImage,
		&u.PasswordHash, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return model.User{}, notFoundOr(err, "user not found", id, "find user by id")
	}
	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.TrimSpace(username)
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`, username))
	if err != nil {
		return model.User{}, notFoundOr(err, "user not found", username, "find user by username")
	}
	return u, nil
}

// FindByLogin matches on username or email, whichever is supplied.
func (r *UserRepository) FindByLogin(ctx context.Context, username string, email string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE ($1 <> '' AND lower(username) = lower($1))
		    OR ($2 <> '' AND lower(email) = lower($2))
		 LIMIT 1`, strings.TrimSpace(username), strings.TrimSpace(email)))
	if err != nil {
		return model.User{}, notFoundOr(err, "user does not exist", "", "find user by login")
	}
	return u, nil
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username string, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(username) = lower($1) OR lower(email) = lower($2))`,
		strings.TrimSpace(username), strings.TrimSpace(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, username, email, full_name, avatar, cover_image, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Username, u.Email, u.FullName, u.Avatar, u.CoverImage, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return apierror.Conflict("user with email or username already exists", u.Username)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// SetRefreshToken overwrites the single refresh-token slot. A nil token clears it.
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID string, token *string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET refresh_token = $2, updated_at = $3 WHERE id = $1`,
		userID, token, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("user not found", userID)
	}
	return nil
}

// RotateRefreshToken replaces the stored refresh token only while it still equals current,
// so two concurrent refreshes presenting the same token cannot both succeed.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, userID string, current string, next string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET refresh_token = $3, updated_at = $4 WHERE id = $1 AND refresh_token = $2`,
		userID, current, next, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("rotate refresh token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		userID, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("user not found", userID)
	}
	return nil
}

func (r *UserRepository) UpdateAccount(ctx context.Context, userID string, fullName string, email string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET full_name = $2, email = $3, updated_at = $4 WHERE id = $1
		 RETURNING `+userColumns,
		userID, fullName, email, time.Now().UTC()))
	if isUniqueViolation(err) {
		return model.User{}, apierror.Conflict("email is already in use", email)
	}
	if err != nil {
		return model.User{}, notFoundOr(err, "user not found", userID, "update account")
	}
	return u, nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, userID string, url string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET avatar = $2, updated_at = $3 WHERE id = $1 RETURNING `+userColumns,
		userID, url, time.Now().UTC()))
	if err != nil {
		return model.User{}, notFoundOr(err, "user not found", userID, "update avatar")
	}
	return u, nil
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, userID string, url string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET cover_image = $2, updated_at = $3 WHERE id = $1 RETURNING `+userColumns,
		userID, url, time.Now().UTC()))
	if err != nil {
		return model.User{}, notFoundOr(err, "user not found", userID, "update cover image")
	}
	return u, nil
}
