package helpers

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager signs and verifies the two token kinds the portal uses:
// session tokens carried in the login cookie, and one-shot password-reset
// tokens delivered by email. The kinds are signed with separate secrets so
// a reset link can never be replayed as a session.
type TokenManager struct {
	SessionSecret []byte
	ResetSecret   []byte
	ResetTTL      time.Duration
}

func NewTokenManager(sessionSecret, resetSecret string, resetTTL time.Duration) *TokenManager {
	return &TokenManager{
		SessionSecret: []byte(sessionSecret),
		ResetSecret:   []byte(resetSecret),
		ResetTTL:      resetTTL,
	}
}

type sessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

type resetClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// IssueSession signs a session token binding the account id and session id.
func (m *TokenManager) IssueSession(accountID int64, sid string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := &sessionClaims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.SessionSecret)
	return s, exp, err
}

// ParseSession validates a session token and returns the account id and
// session id it binds.
func (m *TokenManager) ParseSession(token string) (int64, string, error) {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.SessionSecret, nil
	})
	if err != nil {
		return 0, "", err
	}
	if !tkn.Valid {
		return 0, "", errors.New("invalid token")
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", err
	}
	return id, claims.SID, nil
}

// IssueReset signs a time-limited reset token for the account. A ttl of
// zero falls back to the configured default (1800s out of the box).
func (m *TokenManager) IssueReset(accountID int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = m.ResetTTL
	}
	claims := &resetClaims{
		UserID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.ResetSecret)
}

// VerifyReset returns the account id bound to a reset token, or zero when
// the token is malformed, tampered with, or expired. An invalid reset link
// is an expected user path, so failure is a zero result rather than an
// error the caller has to branch on.
func (m *TokenManager) VerifyReset(token string) int64 {
	claims := &resetClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.ResetSecret, nil
	})
	if err != nil || !tkn.Valid {
		return 0
	}
	return claims.UserID
}
