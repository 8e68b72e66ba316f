package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ordertrack/internal/models"
	"ordertrack/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// Domain errors for auth flows. Login and change-password deliberately share
// ErrInvalidCredentials so responses never reveal which check failed.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService handles registration, login, password change and tokens.
type AuthService struct {
	users      repository.Users
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAuthService(users repository.Users, signingKey []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, signingKey: signingKey, tokenTTL: tokenTTL}
}

// TokenClaims is the identity a verified token resolves to.
type TokenClaims struct {
	UserID   string
	Username string
}

// Claims defines the JWT claim set carried by session tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Register creates a user and issues a session token for it.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, string, error) {
	if err := checkPasswordPolicy(password); err != nil {
		return nil, "", err
	}

	// Case-sensitive exact match; "Alice" and "alice" are distinct accounts.
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("look up username: %w", err)
	}
	if existing != nil {
		return nil, "", ErrUsernameTaken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC().Truncate(time.Second)
	u := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return &u, token, nil
}

// Login validates credentials and issues a fresh token. A missing user and a
// wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("look up username: %w", err)
	}
	if u == nil || verifyPassword(u.PasswordHash, password) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(*u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// ChangePassword re-verifies the current password before accepting the new
// one. No token is re-issued; the existing session stays valid until expiry.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if err := checkPasswordPolicy(newPassword); err != nil {
		return err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if u == nil || verifyPassword(u.PasswordHash, currentPassword) != nil {
		return ErrInvalidCredentials
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// GetUser returns the stored user for a verified identity, nil if it no
// longer exists.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ParseToken verifies signature and expiry and returns the embedded identity.
func (s *AuthService) ParseToken(accessToken string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &TokenClaims{UserID: claims.UserID, Username: claims.Username}, nil
}

// helper: issue a signed JWT for a user
func (s *AuthService) issueToken(u models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   u.ID,
		Username: u.Username,
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// helper: enforce the minimum password length
func checkPasswordPolicy(password string) error {
	if len(strings.TrimSpace(password)) < minPasswordLen {
		return ErrWeakPassword
	}
	return nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash; any mismatch or malformed hash is a non-match
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
