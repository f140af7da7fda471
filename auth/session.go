package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cinema-booking-cli/model"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the locally stored login. Its claims are read without
// verifying the signature: the API stays authoritative and answers 401 when
// the token is no longer good.
type Session struct {
	Access    string    `json:"access"`
	Refresh   string    `json:"refresh,omitempty"`
	Username  string    `json:"username,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	IsStaff   bool      `json:"is_staff,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

var ErrNoToken = errors.New("no access token")

// NewSession builds a session from a login response.
func NewSession(pair model.TokenPair) (Session, error) {
	access := strings.TrimSpace(pair.Access)
	if access == "" {
		return Session{}, ErrNoToken
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return Session{}, fmt.Errorf("read access token: %w", err)
	}

	session := Session{Access: access, Refresh: pair.Refresh}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time
	}
	session.Username = stringClaim(claims, "username", "name", "email")
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		session.UserID = sub
	} else {
		session.UserID = stringClaim(claims, "user_id")
	}
	if session.Username == "" {
		session.Username = session.UserID
	}
	if staff, ok := claims["is_staff"].(bool); ok {
		session.IsStaff = staff
	}
	return session, nil
}

// Valid reports whether the session has a token that has not expired yet.
// A token without an expiry is considered valid.
func (s Session) Valid(now time.Time) bool {
	if s.Access == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

func stringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
