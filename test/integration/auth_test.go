//go:build integration

package integration

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthFlowAgainstPostgres(t *testing.T) {
	server := newServer(t)
	_, session := registerAndLogin(t, server.URL, "alice")

	resp, env := doJSON(t, http.MethodGet, server.URL+"/api/v1/users/current-user", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decode[struct {
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	}](t, env.Data)
	assert.Equal(t, "alice", profile.Username)
	require.True(t, strings.HasPrefix(profile.Avatar, server.URL+"/media/images/"))

	// The uploaded avatar is served back from the local media store.
	avatar, err := http.Get(profile.Avatar)
	require.NoError(t, err)
	t.Cleanup(func() { _ = avatar.Body.Close() })
	require.Equal(t, http.StatusOK, avatar.StatusCode)
	body, err := io.ReadAll(avatar.Body)
	require.NoError(t, err)
	assert.Equal(t, pngBytes(t), body)

	resp, _ = doMultipart(t, http.MethodPost, server.URL+"/api/v1/users/register", "", map[string]string{
		"fullName": "Impostor",
		"email":    "ALICE@example.com",
		"username": "impostor",
		"password": "pw",
	}, map[string][]byte{"avatar": pngBytes(t)})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, env = doJSON(t, http.MethodPost, server.URL+"/api/v1/users/refresh-token", "", map[string]string{"refreshToken": session.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rotated := decode[tokens](t, env.Data)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/users/refresh-token", "", map[string]string{"refreshToken": session.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/users/logout", rotated.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/users/refresh-token", "", map[string]string{"refreshToken": rotated.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConcurrentRefreshRotatesOnce(t *testing.T) {
	server := newServer(t)
	_, session := registerAndLogin(t, server.URL, "bob")

	const attempts = 8
	statuses := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/users/refresh-token", "", map[string]string{"refreshToken": session.RefreshToken})
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, status := range statuses {
		if status == http.StatusOK {
			succeeded++
		} else {
			assert.Equal(t, http.StatusUnauthorized, status)
		}
	}
	assert.Equal(t, 1, succeeded)
}
