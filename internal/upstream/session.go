package upstream

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrSessionExpired = errors.New("upstream session token expired")

const defaultTokenType = "Bearer"

// Session carries the credentials the agency API expects on every request.
// It is passed to the client explicitly; nothing here is process-global.
type Session struct {
	Token     string
	TokenType string
	// UserID is the account the token was issued to, as returned by the
	// API's login endpoint. Zero when unknown.
	UserID int64
}

// Principal identifies the account requests are made as, for logs and
// spans: the configured user id, else the token's subject claim.
func (s Session) Principal() string {
	if s.UserID != 0 {
		return strconv.FormatInt(s.UserID, 10)
	}
	if s.Token == "" {
		return ""
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return ""
	}
	return claims.Subject
}

// Authorization renders the value of the Authorization header, or "" for
// an anonymous session.
func (s Session) Authorization() string {
	if s.Token == "" {
		return ""
	}
	tokenType := s.TokenType
	if tokenType == "" {
		tokenType = defaultTokenType
	}
	return tokenType + " " + s.Token
}

// Expired reports whether the token is a JWT whose exp claim lies before
// now. The signature is not checked; the API remains the authority and
// this only avoids sending requests that are certain to be rejected.
// Opaque tokens never expire from this side.
func (s Session) Expired(now time.Time) bool {
	if s.Token == "" {
		return false
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Before(now)
}
