package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultSessionTTL = 12 * time.Hour

// Domain errors for session flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid token")
)

// SessionService authenticates the web operator and the polling device.
// There is a single operator identity; its bcrypt password hash and the
// device's shared API key come from configuration.
type SessionService struct {
	cfg AuthConfig
}

func NewSessionService(cfg AuthConfig) *SessionService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	return &SessionService{cfg: cfg}
}

var _ Session = (*SessionService)(nil)

// sessionClaims is the JWT payload of an operator session.
type sessionClaims struct {
	jwt.RegisteredClaims
}

// Login verifies the operator password and returns a signed session token.
func (s *SessionService) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator",
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	return token.SignedString(s.signingKey())
}

// VerifyToken checks a session token's signature and expiry.
func (s *SessionService) VerifyToken(accessToken string) error {
	token, err := jwt.ParseWithClaims(accessToken, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey(), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// VerifyAPIKey compares the device's shared secret in constant time.
func (s *SessionService) VerifyAPIKey(key string) bool {
	if s.cfg.APIKey == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.cfg.APIKey)) == 1
}

// signingKey derives the session signing key from the configured secrets.
// Sessions intentionally do not survive an API key rotation.
func (s *SessionService) signingKey() []byte {
	return []byte(s.cfg.APIKey + "|" + s.cfg.PasswordHash)
}
