package utils

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"inkwell/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie is the cookie the login endpoint sets and the resolver reads.
const TokenCookie = "token"

var (
	ErrMissingToken = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	UserID uint        `json:"id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *TokenManager) TTL() time.Duration { return m.ttl }

func (m *TokenManager) Generate(user *models.User) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate checks signature, algorithm and expiry. Every failure is reported
// as ErrInvalidToken so callers cannot leak the underlying cause.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Resolve extracts and validates the request credential. The token cookie is
// tried first; a cookie that fails validation falls back to the Authorization
// header when one is present.
func (m *TokenManager) Resolve(r *http.Request) (*Claims, error) {
	cookie := cookieToken(r)
	bearer := bearerToken(r)
	if cookie == "" && bearer == "" {
		return nil, ErrMissingToken
	}

	if cookie != "" {
		claims, err := m.Validate(cookie)
		if err == nil || bearer == "" {
			return claims, err
		}
	}
	return m.Validate(bearer)
}

// TokenFromRequest reads the bearer credential from the token cookie or the
// Authorization header, in that order.
func TokenFromRequest(r *http.Request) string {
	if token := cookieToken(r); token != "" {
		return token
	}
	return bearerToken(r)
}

func cookieToken(r *http.Request) string {
	if cookie, err := r.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func bearerToken(r *http.Request) string {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
