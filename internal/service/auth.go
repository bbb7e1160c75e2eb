// Package service contains application services for authentication,
// events and the user directory.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	pkgcrypto "weekplanner/internal/crypto"
	"weekplanner/internal/errs"
	"weekplanner/internal/limiter"
	"weekplanner/internal/model"
	"weekplanner/internal/repository"
)

// SessionTTL is the fixed validity window of an issued session token.
const SessionTTL = 24 * time.Hour

// Claims is the JWT claim set carried by the session cookie.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// AuthService defines account and session operations.
type AuthService interface {
	// Signup creates a user with a hashed password and returns it.
	Signup(ctx context.Context, email, password, name string) (*model.User, error)
	// Login verifies credentials with per-(email, ip) rate limiting.
	Login(ctx context.Context, email, password, ip string) (*model.User, error)
	// Me loads the account for a verified session.
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
	// IssueToken signs a 24h session token embedding id/email/name.
	IssueToken(u *model.User) (string, time.Time, error)
	// VerifyToken validates signature and expiry; any failure is ErrUnauthorized.
	VerifyToken(token string) (*model.Session, error)
}

type AuthServiceImpl struct {
	users   repository.UserRepository
	signKey []byte
	lim     limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, signKey []byte, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, signKey: signKey, lim: lim}
}

// Signup creates a new user record. A taken email surfaces as ErrAlreadyExists.
func (s *AuthServiceImpl) Signup(ctx context.Context, email, password, name string) (*model.User, error) {
	if email == "" || password == "" || name == "" {
		return nil, fmt.Errorf("%w: missing required fields", errs.ErrValidation)
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	hash, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &model.User{ID: uid, Email: email, Name: name, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login authenticates with rate limiting by (email, ip). A missing user
// and a wrong password are indistinguishable to the caller.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password, ip string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: missing required fields", errs.ErrValidation)
	}
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, errs.ErrRateLimited
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || !pkgcrypto.VerifyPassword(password, u.PasswordHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return nil, errs.ErrRateLimited
		}
		return nil, errs.ErrUnauthorized
	}

	// Best-effort counter reset.
	_ = s.lim.Success(ctx, email, ipHash)
	return u, nil
}

// Me loads the account behind a verified session.
func (s *AuthServiceImpl) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

// IssueToken creates a signed HS256 JWT with the 24h session window.
func (s *AuthServiceImpl) IssueToken(u *model.User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(SessionTTL)
	claims := Claims{
		Email: u.Email,
		Name:  u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}

// VerifyToken validates the signature and expiry and returns the session
// claims. Every failure collapses to ErrUnauthorized; the wrapped cause
// stays available for logging via errors.Unwrap.
func (s *AuthServiceImpl) VerifyToken(token string) (*model.Session, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.signKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return nil, errs.ErrUnauthorized
	}
	id, err := uuid.FromString(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", errs.ErrUnauthorized)
	}
	return &model.Session{UserID: id, Email: claims.Email, Name: claims.Name}, nil
}
