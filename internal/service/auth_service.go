package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"budget_tracker/internal/models"
	"budget_tracker/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL   = 24 * time.Hour
	minPasswordLength = 8
)

// AuthService handles registration, sign-in and session lifecycle. Tokens
// are JWTs whose ID points at a sessions row, so sign-out revokes them
// server-side.
type AuthService struct {
	users    repository.Users
	sessions repository.Sessions
	cfg      AuthConfig
}

func NewAuthService(users repository.Users, sessions repository.Sessions, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	return &AuthService{users: users, sessions: sessions, cfg: cfg}
}

// Claims defines JWT claims. RegisteredClaims.ID carries the session UUID.
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// SignUp validates the credential, hashes the password and creates the user.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) (int, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || !strings.Contains(email, "@") {
		return 0, fmt.Errorf("%w: username and email are required", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return 0, fmt.Errorf("%w: at least %d characters", ErrWeakCredential, minPasswordLength)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return 0, err
	}

	id, err := s.users.Create(ctx, username, email, hash, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, ErrDuplicateUser
		}
		return 0, err
	}
	return id, nil
}

// SignIn verifies credentials and issues a signed token backed by a session
// row. Unknown username and wrong password are indistinguishable to the
// caller.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", err
	}
	if u == nil {
		// Burn a comparison anyway so the timing matches the found case.
		_ = verifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B0xZy1PqkKHQ9y1xM5a0D0p0eO6q", password)
		return "", ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now().UTC()
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", err
	}

	return s.issueToken(session)
}

// Authenticate parses the token and resolves it to a user ID. The session
// row must still exist and be unexpired.
func (s *AuthService) Authenticate(ctx context.Context, token string) (int, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return 0, ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return 0, err
	}
	if session == nil || session.UserID != claims.UserID || time.Now().After(session.ExpiresAt) {
		return 0, ErrUnauthenticated
	}
	return claims.UserID, nil
}

// SignOut invalidates the session behind the token. Expired tokens still
// carry a parseable session ID, so sign-out works for them too.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return ErrUnauthenticated
	}
	if _, err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return err
	}
	return nil
}

// GetUser loads the account record for display.
func (s *AuthService) GetUser(ctx context.Context, userID int) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// DeleteAccount removes the user and everything they own.
func (s *AuthService) DeleteAccount(ctx context.Context, userID int) error {
	return s.users.Delete(ctx, userID)
}

func (s *AuthService) issueToken(session models.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		},
		UserID: session.UserID,
	})
	return token.SignedString([]byte(s.cfg.SigningKey))
}

func (s *AuthService) parseToken(accessToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SigningKey), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		// Keep the session ID reachable for sign-out of expired tokens.
		if errors.Is(err, jwt.ErrTokenExpired) && token != nil {
			if claims, ok := token.Claims.(*Claims); ok {
				return claims, nil
			}
		}
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
