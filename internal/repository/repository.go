package repository

import (
	"context"
	"database/sql"

	"ordertrack/internal/models"
)

type Users interface {
	Create(ctx context.Context, u models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// Orders is the ownership-scoped order store. Every method takes the owning
// user's id and never touches rows belonging to anyone else.
type Orders interface {
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	GetByID(ctx context.Context, userID, orderID string) (*models.Order, error)
	Insert(ctx context.Context, o models.Order) error
	Update(ctx context.Context, o models.Order) (bool, error)
	Delete(ctx context.Context, userID, orderID string) (bool, error)
	StatsByUser(ctx context.Context, userID string) (models.OrderStats, error)
}

type Repository struct {
	Users  Users
	Orders Orders
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:  NewUserRepository(db),
		Orders: NewOrderRepository(db),
	}
}
