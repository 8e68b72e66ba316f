package service

import (
	"context"
	"time"

	"ordertrack/internal/models"
	"ordertrack/internal/repository"
)

type Authorization interface {
	Register(ctx context.Context, username, password string) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ParseToken(accessToken string) (*TokenClaims, error)
}

// Orders exposes the ownership-scoped order operations. The userID argument
// is the authenticated identity, never a client-supplied field.
type Orders interface {
	List(ctx context.Context, userID string) ([]models.Order, error)
	Get(ctx context.Context, userID, orderID string) (*models.Order, error)
	Create(ctx context.Context, userID string, in OrderInput) (*models.Order, error)
	Update(ctx context.Context, userID, orderID string, in OrderInput) (*models.Order, error)
	Delete(ctx context.Context, userID, orderID string) error
	Stats(ctx context.Context, userID string) (models.OrderStats, error)
}

// OrderInput carries the client-settable order fields for create and update.
type OrderInput struct {
	Content     string
	OrderNumber string
	Status      string
	Amount      float64
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Orders
}

// NewService wires the repository layer into concrete services. The signing
// key and token TTL come from configuration; rotating the key invalidates
// every outstanding token.
func NewService(repos *repository.Repository, signingKey string, tokenTTL time.Duration) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, []byte(signingKey), tokenTTL),
		Orders:        NewOrderService(repos.Orders),
	}
}
