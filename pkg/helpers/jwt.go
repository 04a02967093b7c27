package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager handles generation and validation of session tokens
type JWTManager struct {
	Secret      []byte
	TTL         time.Duration
	RememberTTL time.Duration
}

var defaultManager *JWTManager

func NewJWTManager(secret string, ttl, rememberTTL time.Duration) *JWTManager {
	m := &JWTManager{
		Secret:      []byte(secret),
		TTL:         ttl,
		RememberTTL: rememberTTL,
	}
	defaultManager = m
	return m
}

// DefaultJWT returns the last constructed JWTManager (used for auto-wiring routes)
func DefaultJWT() *JWTManager { return defaultManager }

type Claims struct {
	UserID    int64  `json:"uid"`
	Role      string `json:"role"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed session token. Every call gets a fresh
// session id so no two logins share a token.
func (m *JWTManager) GenerateToken(userID int64, role string, remember bool) (string, time.Time, error) {
	ttl := m.TTL
	if remember && m.RememberTTL > 0 {
		ttl = m.RememberTTL
	}
	now := time.Now()
	exp := now.Add(ttl)
	sid := uuid.NewString()
	claims := &Claims{
		UserID:    userID,
		Role:      role,
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

func (m *JWTManager) ParseToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.Secret)
}

func parseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
