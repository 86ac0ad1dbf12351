package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/congo-pay/cardbank/internal/account"
)

// ErrInvalidToken indicates a malformed, forged or expired session token.
var ErrInvalidToken = errors.New("invalid session token")

// Claims carried by a session token. The subject is the card number and
// SessionID keys the server-side session record.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Token is an issued session token.
type Token struct {
	Value     string
	SessionID string
	Number    string
	ExpiresAt time.Time
}

// Service issues and verifies session tokens.
type Service struct {
	accounts *account.Service
	store    SessionStore
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// DefaultTTL is the session lifetime used when none is configured.
const DefaultTTL = 15 * time.Minute

// NewService builds a session token service.
func NewService(accounts *account.Service, store SessionStore, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{accounts: accounts, store: store, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Login authenticates the card and opens a session for it.
func (s *Service) Login(ctx context.Context, number, pin string) (Token, error) {
	sess, err := s.accounts.Authenticate(ctx, number, pin)
	if err != nil {
		return Token{}, err
	}

	now := s.now()
	sid := uuid.NewString()
	exp := now.Add(s.ttl)

	if err := s.store.Save(ctx, sid, sess, s.ttl); err != nil {
		return Token{}, fmt.Errorf("save session: %w", err)
	}

	claims := Claims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.Number,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, SessionID: sid, Number: sess.Number, ExpiresAt: exp}, nil
}

// Verify checks the token signature and expiry and loads its session.
func (s *Service) Verify(ctx context.Context, token string) (account.Session, string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || claims.SessionID == "" {
		return account.Session{}, "", ErrInvalidToken
	}

	sess, err := s.store.Load(ctx, claims.SessionID)
	if err != nil {
		return account.Session{}, "", err
	}
	if sess.Number != claims.Subject {
		return account.Session{}, "", ErrInvalidToken
	}
	return sess, claims.SessionID, nil
}

// Logout ends the session.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}
