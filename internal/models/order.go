package models

import (
	"fmt"
	"time"
)

// OrderStatus is the closed set of order lifecycle states. The constant
// values are also the persisted form, so display and storage can't drift.
type OrderStatus string

const (
	StatusPlaced    OrderStatus = "已下单"
	StatusCompleted OrderStatus = "已完成"
	StatusSettled   OrderStatus = "已结算"
)

// ParseOrderStatus validates a raw status string. Empty input defaults to
// StatusPlaced; anything outside the three known states is an error.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case "":
		return StatusPlaced, nil
	case StatusPlaced, StatusCompleted, StatusSettled:
		return OrderStatus(s), nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

// Order is a single tracked order, always owned by exactly one user.
type Order struct {
	ID          string      `json:"id"`
	Content     string      `json:"content"`
	OrderNumber string      `json:"orderNumber"`
	Status      OrderStatus `json:"status"`
	Amount      float64     `json:"amount"`
	UserID      string      `json:"userId"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// OrderStats aggregates one user's current order set by status.
type OrderStats struct {
	Total           int     `json:"total"`
	Pending         int     `json:"pending"`
	Completed       int     `json:"completed"`
	Settled         int     `json:"settled"`
	PendingAmount   float64 `json:"pendingAmount"`
	CompletedAmount float64 `json:"completedAmount"`
	SettledAmount   float64 `json:"settledAmount"`
}
