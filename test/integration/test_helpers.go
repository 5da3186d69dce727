//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-vidtube/internal/config"
	"go-vidtube/internal/database"
	"go-vidtube/internal/handler"
	"go-vidtube/internal/media"
	"go-vidtube/internal/middleware"
	"go-vidtube/internal/repository"
	"go-vidtube/internal/router"
	"go-vidtube/internal/service"
)

// mp4Header is enough for content sniffing to report video/mp4.
var mp4Header = []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'm', 'p', '4', '2', 0, 0, 0, 0, 'm', 'p', '4', '2', 'i', 's', 'o', 'm'}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Error      []string        `json:"error"`
}

type tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// newServer starts the full stack against TEST_DATABASE_URL with a clean schema
// and a local media store served by the same server.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, databaseURL, database.PoolSettings{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))

	_, err = db.Pool.Exec(ctx, `TRUNCATE users, videos, comments, tweets, likes, playlists,
		playlist_videos, subscriptions, watch_history CASCADE`)
	require.NoError(t, err)

	server := httptest.NewUnstartedServer(nil)
	server.Start()
	t.Cleanup(server.Close)

	store, err := media.NewLocalStore(t.TempDir(), server.URL+"/media")
	require.NoError(t, err)
	uploader := media.NewUploader(store)

	cfg := &config.Config{
		RequestTimeout:     10 * time.Second,
		ServerWriteTimeout: time.Minute,
		MediaIdleTimeout:   30 * time.Second,
		CORSOrigins:        []string{"*"},
		RateLimitRPM:       1000,
		AuthRateLimitRPM:   1000,
	}

	pool := db.Pool
	users := repository.NewUserRepository(pool)
	videos := repository.NewVideoRepository(pool)
	comments := repository.NewCommentRepository(pool)
	tweets := repository.NewTweetRepository(pool)
	likes := repository.NewLikeRepository(pool)
	playlists := repository.NewPlaylistRepository(pool)
	subscriptions := repository.NewSubscriptionRepository(pool)

	tokenService := service.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	authService := service.NewAuthService(users, tokenService, uploader)
	uploads := handler.NewUploads(t.TempDir(), 10<<20)

	server.Config.Handler = router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		User: handler.NewUserHandler(authService, service.NewUserService(users, videos, subscriptions, uploader), uploads,
			handler.NewSessionCookies(false, tokenService.AccessTTL(), tokenService.RefreshTTL())),
		Video:        handler.NewVideoHandler(service.NewVideoService(videos, users, uploader), uploads),
		Comment:      handler.NewCommentHandler(service.NewCommentService(comments, videos)),
		Like:         handler.NewLikeHandler(service.NewLikeService(likes, videos, comments, tweets)),
		Tweet:        handler.NewTweetHandler(service.NewTweetService(tweets, users)),
		Playlist:     handler.NewPlaylistHandler(service.NewPlaylistService(playlists, videos, users, uploader), uploads),
		Subscription: handler.NewSubscriptionHandler(service.NewSubscriptionService(subscriptions, users)),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(
			repository.NewDashboardRepository(pool), subscriptions, videos, users)),
		Health: handler.NewHealthHandler(db),
	}, router.Options{MediaRoot: store.Root()})

	return server
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func doJSON(t *testing.T, method string, url string, accessToken string, payload any) (*http.Response, envelope) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return send(t, req)
}

func doMultipart(t *testing.T, method string, url string, accessToken string, fields map[string]string, files map[string][]byte) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for field, content := range files {
		part, err := writer.CreateFormFile(field, field+".bin")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return send(t, req)
}

func send(t *testing.T, req *http.Request) (*http.Response, envelope) {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

// registerAndLogin creates a user with a real PNG avatar and returns its id and tokens.
func registerAndLogin(t *testing.T, baseURL string, username string) (string, tokens) {
	t.Helper()

	resp, env := doMultipart(t, http.MethodPost, baseURL+"/api/v1/users/register", "", map[string]string{
		"fullName": "User " + username,
		"email":    username + "@example.com",
		"username": username,
		"password": "pw-" + username,
	}, map[string][]byte{"avatar": pngBytes(t)})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	userID := decode[struct {
		ID string `json:"_id"`
	}](t, env.Data).ID

	resp, env = doJSON(t, http.MethodPost, baseURL+"/api/v1/users/login", "", map[string]string{
		"username": username,
		"password": "pw-" + username,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	return userID, decode[tokens](t, env.Data)
}
