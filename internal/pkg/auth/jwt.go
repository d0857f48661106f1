package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session token errors
var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("session token expired")
)

// SessionConfig defines session token settings
type SessionConfig struct {
	SecretKey string
	TTL       time.Duration
	Issuer    string
}

// SessionTokens signs and verifies the tokens stored in the session cookie
type SessionTokens struct {
	config SessionConfig
	now    func() time.Time
}

// NewSessionTokens creates a new token service
func NewSessionTokens(config SessionConfig) *SessionTokens {
	return &SessionTokens{
		config: config,
		now:    time.Now,
	}
}

// Claims defines the session token content. The token ID (jti) names the
// server-side session row so a token can be revoked before it expires.
type Claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"usr"`
	jwt.RegisteredClaims
}

// IssuedToken is a freshly signed token together with its session id
type IssuedToken struct {
	Token     string
	SessionID string
	ExpiresAt time.Time
}

// Issue creates a signed token for the given user
func (s *SessionTokens) Issue(userID int64, username string) (*IssuedToken, error) {
	now := s.now()
	expiresAt := now.Add(s.config.TTL)
	sessionID := uuid.New().String()

	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ID:        sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &IssuedToken{Token: signed, SessionID: sessionID, ExpiresAt: expiresAt}, nil
}

// Validate parses a token and returns its claims
func (s *SessionTokens) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	},
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// TTL returns the configured session lifetime
func (s *SessionTokens) TTL() time.Duration {
	return s.config.TTL
}
