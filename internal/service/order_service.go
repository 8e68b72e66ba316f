package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"ordertrack/internal/models"
	"ordertrack/internal/repository"

	"github.com/google/uuid"
)

// Domain errors for order flows. ErrOrderNotFound covers both a missing
// order and one owned by another user, so existence never leaks.
var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidOrder  = errors.New("invalid order")
)

// OrderService implements the ownership-scoped order operations on top of
// the repository.
type OrderService struct {
	orders repository.Orders
}

func NewOrderService(orders repository.Orders) *OrderService {
	return &OrderService{orders: orders}
}

var _ Orders = (*OrderService)(nil)

// List returns the user's orders, newest created first.
func (s *OrderService) List(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// Get fetches a single owned order.
func (s *OrderService) Get(ctx context.Context, userID, orderID string) (*models.Order, error) {
	o, err := s.orders.GetByID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// Create validates input, applies defaults (status=已下单, amount=0) and
// persists a new order owned by userID.
func (s *OrderService) Create(ctx context.Context, userID string, in OrderInput) (*models.Order, error) {
	status, amount, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	o := models.Order{
		ID:          uuid.NewString(),
		Content:     in.Content,
		OrderNumber: in.OrderNumber,
		Status:      status,
		Amount:      amount,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.orders.Insert(ctx, o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Update full-replaces the client-settable fields of an owned order.
func (s *OrderService) Update(ctx context.Context, userID, orderID string, in OrderInput) (*models.Order, error) {
	status, amount, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}

	// Ownership check first; a foreign order looks exactly like a missing one.
	existing, err := s.orders.GetByID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrOrderNotFound
	}

	o := models.Order{
		ID:          orderID,
		Content:     in.Content,
		OrderNumber: in.OrderNumber,
		Status:      status,
		Amount:      amount,
		UserID:      userID,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	ok, err := s.orders.Update(ctx, o)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &o, nil
}

// Delete removes an owned order; deleting it again reports not found.
func (s *OrderService) Delete(ctx context.Context, userID, orderID string) error {
	ok, err := s.orders.Delete(ctx, userID, orderID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOrderNotFound
	}
	return nil
}

// Stats aggregates the user's current order set; recomputed per call.
func (s *OrderService) Stats(ctx context.Context, userID string) (models.OrderStats, error) {
	return s.orders.StatsByUser(ctx, userID)
}

// normalizeInput validates required fields, resolves the status enum and
// rounds the amount to cents (the persisted precision).
func normalizeInput(in OrderInput) (models.OrderStatus, float64, error) {
	if in.Content == "" {
		return "", 0, fmt.Errorf("%w: content is required", ErrInvalidOrder)
	}
	if in.OrderNumber == "" {
		return "", 0, fmt.Errorf("%w: orderNumber is required", ErrInvalidOrder)
	}

	status, err := models.ParseOrderStatus(in.Status)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}

	amount := in.Amount
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	if amount < 0 {
		return "", 0, fmt.Errorf("%w: amount must not be negative", ErrInvalidOrder)
	}
	amount = math.Round(amount*100) / 100

	return status, amount, nil
}
