package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-vidtube/internal/media"
	"go-vidtube/internal/model"
	"go-vidtube/internal/service/servicetest"
	"go-vidtube/pkg/apierror"
)

type authFixture struct {
	mem      *servicetest.Memory
	uploader *servicetest.MockUploader
	tokens   *TokenService
	auth     *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mem := servicetest.NewMemory()
	uploader := new(servicetest.MockUploader)
	tokens := newTestTokenService()
	auth := NewAuthService(mem.Users(), tokens, uploader)
	auth.bcryptCost = bcrypt.MinCost

	return &authFixture{mem: mem, uploader: uploader, tokens: tokens, auth: auth}
}

func (f *authFixture) register(t *testing.T, username string, password string) model.PublicUser {
	t.Helper()

	f.uploader.On("Upload", mock.Anything, "/tmp/"+username+".png", media.KindImage).
		Return(media.Asset{URL: "http://media.test/" + username + ".png"}, nil).Once()

	user, err := f.auth.Register(context.Background(), model.RegisterInput{
		FullName:   "Test " + username,
		Email:      username + "@example.com",
		Username:   username,
		Password:   password,
		AvatarPath: "/tmp/" + username + ".png",
	})
	require.NoError(t, err)
	return user
}

func TestAuthServiceRegister(t *testing.T) {
	t.Parallel()

	t.Run("normalizes and stores the user", func(t *testing.T) {
		f := newAuthFixture(t)
		f.uploader.On("Upload", mock.Anything, "/tmp/a.png", media.KindImage).
			Return(media.Asset{URL: "http://media.test/a.png"}, nil).Once()
		f.uploader.On("Upload", mock.Anything, "/tmp/c.png", media.KindImage).
			Return(media.Asset{URL: "http://media.test/c.png"}, nil).Once()

		user, err := f.auth.Register(context.Background(), model.RegisterInput{
			FullName:       " Alice Doe ",
			Email:          "Alice@Example.com",
			Username:       " Alice ",
			Password:       "pw",
			AvatarPath:     "/tmp/a.png",
			CoverImagePath: "/tmp/c.png",
		})
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "Alice Doe", user.FullName)
		assert.Equal(t, "http://media.test/a.png", user.Avatar)
		assert.Equal(t, "http://media.test/c.png", user.CoverImage)

		stored, err := f.mem.Users().FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "pw", stored.PasswordHash)
		assert.Nil(t, stored.RefreshToken)
		f.uploader.AssertExpectations(t)
	})

	t.Run("duplicate username or email conflicts", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "alice", "pw")

		_, err := f.auth.Register(context.Background(), model.RegisterInput{
			FullName: "Other", Email: "ALICE@example.com", Username: "someone", Password: "pw", AvatarPath: "/tmp/x.png",
		})
		assert.Equal(t, http.StatusConflict, apierror.StatusOf(err))
	})

	t.Run("blank field is a bad request", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.auth.Register(context.Background(), model.RegisterInput{
			FullName: "  ", Email: "a@example.com", Username: "a", Password: "pw", AvatarPath: "/tmp/a.png",
		})
		assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))
		f.uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing avatar is a bad request", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.auth.Register(context.Background(), model.RegisterInput{
			FullName: "A", Email: "a@example.com", Username: "a", Password: "pw",
		})
		assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))
	})

	t.Run("upload failure aborts registration", func(t *testing.T) {
		f := newAuthFixture(t)
		f.uploader.On("Upload", mock.Anything, "/tmp/a.png", media.KindImage).
			Return(media.Asset{}, errors.New("bucket unavailable")).Once()

		_, err := f.auth.Register(context.Background(), model.RegisterInput{
			FullName: "A", Email: "a@example.com", Username: "a", Password: "pw", AvatarPath: "/tmp/a.png",
		})
		require.Error(t, err)

		exists, _ := f.mem.Users().ExistsByUsernameOrEmail(context.Background(), "a", "a@example.com")
		assert.False(t, exists)
	})
}

func TestAuthServiceRegisterDiscardsUploadsOnFailure(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	avatar := media.Asset{URL: "http://media.test/a.png", Key: "images/a.png"}
	f.uploader.On("Upload", mock.Anything, "/tmp/a.png", media.KindImage).Return(avatar, nil).Once()
	f.uploader.On("Upload", mock.Anything, "/tmp/c.png", media.KindImage).
		Return(media.Asset{}, errors.New("bucket unavailable")).Once()
	f.uploader.On("Discard", mock.Anything, avatar).Return(nil).Once()

	_, err := f.auth.Register(context.Background(), model.RegisterInput{
		FullName: "A", Email: "a@example.com", Username: "a", Password: "pw",
		AvatarPath: "/tmp/a.png", CoverImagePath: "/tmp/c.png",
	})
	require.Error(t, err)
	f.uploader.AssertExpectations(t)
}

func TestAuthServiceLogin(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	registered := f.register(t, "alice", "pw")
	ctx := context.Background()

	t.Run("by username", func(t *testing.T) {
		result, err := f.auth.Login(ctx, model.LoginRequest{Username: "ALICE", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, registered.ID, result.User.ID)

		claims, err := f.tokens.Verify(result.AccessToken, AccessToken)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, claims.UserID)

		stored, _ := f.mem.Users().FindByID(ctx, registered.ID)
		require.NotNil(t, stored.RefreshToken)
		assert.Equal(t, result.RefreshToken, *stored.RefreshToken)
	})

	t.Run("by email", func(t *testing.T) {
		_, err := f.auth.Login(ctx, model.LoginRequest{Email: "alice@example.com", Password: "pw"})
		require.NoError(t, err)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, err := f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "nope"})
		assert.Equal(t, http.StatusUnauthorized, apierror.StatusOf(err))
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		_, err := f.auth.Login(ctx, model.LoginRequest{Username: "bob", Password: "pw"})
		assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err))
	})

	t.Run("no identifier is a bad request", func(t *testing.T) {
		_, err := f.auth.Login(ctx, model.LoginRequest{Password: "pw"})
		assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))
	})
}

func TestAuthServiceRefreshRotation(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	f.register(t, "alice", "pw")
	ctx := context.Background()

	login, err := f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	rotated, err := f.auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

	_, err = f.auth.Refresh(ctx, login.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, apierror.StatusOf(err), "a rotated token must not be reusable")

	again, err := f.auth.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)

	_, err = f.auth.Refresh(ctx, again.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, apierror.StatusOf(err), "an access token is not a refresh token")

	_, err = f.auth.Refresh(ctx, "")
	assert.Equal(t, http.StatusUnauthorized, apierror.StatusOf(err))
}

func TestAuthServiceLastLoginWins(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	f.register(t, "alice", "pw")
	ctx := context.Background()

	first, err := f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	second, err := f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	_, err = f.auth.Refresh(ctx, first.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, apierror.StatusOf(err))

	_, err = f.auth.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthServiceLogout(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	user := f.register(t, "alice", "pw")
	ctx := context.Background()

	login, err := f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, user.ID))

	stored, _ := f.mem.Users().FindByID(ctx, user.ID)
	assert.Nil(t, stored.RefreshToken)

	_, err = f.auth.Refresh(ctx, login.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, apierror.StatusOf(err))
}

func TestAuthServiceChangePassword(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	user := f.register(t, "alice", "old")
	ctx := context.Background()

	err := f.auth.ChangePassword(ctx, user.ID, model.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "new"})
	assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))

	require.NoError(t, f.auth.ChangePassword(ctx, user.ID, model.ChangePasswordRequest{OldPassword: "old", NewPassword: "new"}))

	_, err = f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "old"})
	assert.Equal(t, http.StatusUnauthorized, apierror.StatusOf(err))
	_, err = f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "new"})
	assert.NoError(t, err)
}

func TestAuthServiceAuthenticate(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	user := f.register(t, "alice", "pw")
	ctx := context.Background()

	login, err := f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	got, err := f.auth.Authenticate(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = f.auth.Authenticate(ctx, login.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, apierror.StatusOf(err))

	ghost, err := f.tokens.IssueAccessToken("00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	_, err = f.auth.Authenticate(ctx, ghost)
	assert.Equal(t, http.StatusUnauthorized, apierror.StatusOf(err))
}
