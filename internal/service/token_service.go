package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-vidtube/internal/model"
)

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

type sessionClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens. Access and refresh tokens use
// separate secrets so one can never be presented as the other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(accessSecret string, refreshSecret string, accessTTL time.Duration, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (s *TokenService) IssueAccessToken(userID string) (string, error) {
	return s.sign(userID, AccessToken)
}

func (s *TokenService) IssueRefreshToken(userID string) (string, error) {
	return s.sign(userID, RefreshToken)
}

func (s *TokenService) IssuePair(userID string) (model.TokenPair, error) {
	access, err := s.IssueAccessToken(userID)
	if err != nil {
		return model.TokenPair{}, err
	}

	refresh, err := s.IssueRefreshToken(userID)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// Verify checks signature, expiry and kind. Any failure is reported as
// model.ErrTokenExpired or model.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string, kind TokenKind) (model.TokenClaims, error) {
	secret, _, err := s.keyFor(kind)
	if err != nil {
		return model.TokenClaims{}, err
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.TokenClaims{}, model.ErrTokenExpired
		}
		return model.TokenClaims{}, fmt.Errorf("%w: %v", model.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Type != string(kind) || claims.Subject == "" {
		return model.TokenClaims{}, model.ErrInvalidToken
	}

	return model.TokenClaims{UserID: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *TokenService) sign(userID string, kind TokenKind) (string, error) {
	secret, ttl, err := s.keyFor(kind)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Type: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

func (s *TokenService) keyFor(kind TokenKind) ([]byte, time.Duration, error) {
	switch kind {
	case AccessToken:
		return s.accessSecret, s.accessTTL, nil
	case RefreshToken:
		return s.refreshSecret, s.refreshTTL, nil
	default:
		return nil, 0, fmt.Errorf("%w: unknown token kind %q", model.ErrInvalidToken, kind)
	}
}
