package handler

import (
	"net/http"
	"time"

	"go-vidtube/internal/middleware"
	"go-vidtube/internal/model"
)

const refreshTokenCookie = "refreshToken"

// SessionCookies writes the token pair as httpOnly cookies so browsers never
// expose the tokens to scripts.
type SessionCookies struct {
	secure     bool
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewSessionCookies(secure bool, accessTTL time.Duration, refreshTTL time.Duration) SessionCookies {
	return SessionCookies{secure: secure, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (c SessionCookies) set(w http.ResponseWriter, pair model.TokenPair) {
	http.SetCookie(w, c.cookie(middleware.AccessTokenCookie, pair.AccessToken, c.accessTTL))
	http.SetCookie(w, c.cookie(refreshTokenCookie, pair.RefreshToken, c.refreshTTL))
}

func (c SessionCookies) clear(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, refreshTokenCookie} {
		cookie := c.cookie(name, "", 0)
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		http.SetCookie(w, cookie)
	}
}

func (c SessionCookies) cookie(name string, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
