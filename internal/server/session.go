// Package server implements cookie-backed sessions for the showcase page.
// Each browser gets a random session ID carried in an HS256-signed JWT cookie.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionCookie = "showcase_session"
	// ctxSessionKey is where SessionMiddleware stores the session ID.
	ctxSessionKey = "session_id"
)

// Sessions issues and validates session tokens.
type Sessions struct {
	secret []byte
	ttl    time.Duration
}

// NewSessions creates a token issuer; ttl also bounds the cookie lifetime.
func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token whose subject is sessionID.
func (s *Sessions) Issue(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    "showcase",
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates a token and returns its session ID.
func (s *Sessions) Parse(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errors.New("session token has no valid subject")
	}
	return claims.Subject, nil
}

// SessionMiddleware resolves the caller's session, starting a fresh one when
// the cookie is missing, expired or forged.
func SessionMiddleware(s *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(sessionCookie); err == nil {
			if id, err := s.Parse(raw); err == nil {
				c.Set(ctxSessionKey, id)
				c.Next()
				return
			}
		}

		id := uuid.NewString()
		token, err := s.Issue(id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "failed to start session",
			})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, token, int(s.ttl.Seconds()), "/", "", false, true)
		c.Set(ctxSessionKey, id)
		c.Next()
	}
}

// sessionID returns the ID set by SessionMiddleware.
func sessionID(c *gin.Context) string {
	return c.GetString(ctxSessionKey)
}
