package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-vidtube/internal/media"
	"go-vidtube/internal/model"
	"go-vidtube/pkg/apierror"
)

const defaultBcryptCost = 12

// AuthService owns the credential and session lifecycle: register, login,
// refresh rotation, logout and password changes. A user holds at most one
// refresh token, so the latest login or refresh invalidates earlier ones.
type AuthService struct {
	users      UserStore
	tokens     *TokenService
	uploader   MediaUploader
	bcryptCost int
}

func NewAuthService(users UserStore, tokens *TokenService, uploader MediaUploader) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		uploader:   uploader,
		bcryptCost: defaultBcryptCost,
	}
}

func (s *AuthService) Register(ctx context.Context, in model.RegisterInput) (model.PublicUser, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.ToLower(strings.TrimSpace(in.Username))
	password := in.Password

	if fullName == "" || email == "" || username == "" || strings.TrimSpace(password) == "" {
		return model.PublicUser{}, apierror.BadRequest("all fields are required", "")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.PublicUser{}, apierror.BadRequest("email is invalid", email)
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return model.PublicUser{}, err
	}
	if exists {
		return model.PublicUser{}, apierror.Conflict("user with email or username already exists", username)
	}

	if strings.TrimSpace(in.AvatarPath) == "" {
		return model.PublicUser{}, apierror.BadRequest("avatar file is required", "")
	}

	avatar, err := s.uploader.Upload(ctx, in.AvatarPath, media.KindImage)
	if err != nil {
		return model.PublicUser{}, err
	}
	uploaded := []media.Asset{avatar}

	coverURL := ""
	if strings.TrimSpace(in.CoverImagePath) != "" {
		cover, err := s.uploader.Upload(ctx, in.CoverImagePath, media.KindImage)
		if err != nil {
			discardAssets(ctx, s.uploader, uploaded...)
			return model.PublicUser{}, err
		}
		coverURL = cover.URL
		uploaded = append(uploaded, cover)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		discardAssets(ctx, s.uploader, uploaded...)
		return model.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Avatar:       avatar.URL,
		CoverImage:   coverURL,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		discardAssets(ctx, s.uploader, uploaded...)
		return model.PublicUser{}, err
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user.Public(), nil
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" && email == "" {
		return model.LoginResult{}, apierror.BadRequest("username or email is required", "")
	}

	user, err := s.users.FindByLogin(ctx, username, email)
	if err != nil {
		return model.LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.LoginResult{}, apierror.Unauthorized("invalid user credentials")
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return model.LoginResult{}, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return model.LoginResult{}, err
	}

	slog.Info("user logged in", "user_id", user.ID)
	return model.LoginResult{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Refresh accepts a refresh token only if it verifies and still equals the
// stored one, then rotates it. A previously rotated token is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return model.TokenPair{}, apierror.Unauthorized("unauthorized request")
	}

	claims, err := s.tokens.Verify(refreshToken, RefreshToken)
	if err != nil {
		return model.TokenPair{}, apierror.Unauthorized("invalid refresh token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if apierror.StatusOf(err) == http.StatusNotFound {
			return model.TokenPair{}, apierror.Unauthorized("invalid refresh token")
		}
		return model.TokenPair{}, err
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		slog.Warn("refresh token reuse rejected", "user_id", user.ID)
		return model.TokenPair{}, apierror.Unauthorized("refresh token is expired or used")
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return model.TokenPair{}, err
	}

	rotated, err := s.users.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}
	if !rotated {
		return model.TokenPair{}, apierror.Unauthorized("refresh token is expired or used")
	}

	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshToken(ctx, userID, nil); err != nil {
		return err
	}

	slog.Info("user logged out", "user_id", userID)
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, req model.ChangePasswordRequest) error {
	if req.OldPassword == "" || strings.TrimSpace(req.NewPassword) == "" {
		return apierror.BadRequest("old and new password are required", "")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apierror.BadRequest("invalid old password", "")
		}
		return fmt.Errorf("compare password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, userID, string(hash))
}

// Authenticate resolves an access token to its user. It backs the session middleware.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (model.User, error) {
	claims, err := s.tokens.Verify(accessToken, AccessToken)
	if err != nil {
		return model.User{}, apierror.Unauthorized("invalid access token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if apierror.StatusOf(err) == http.StatusNotFound {
			return model.User{}, apierror.Unauthorized("invalid access token")
		}
		return model.User{}, err
	}

	return user, nil
}
