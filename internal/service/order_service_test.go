package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ordertrack/internal/models"
)

// mockOrderStore is a lightweight in-test mock for repository.Orders.
type mockOrderStore struct {
	ListByUserFn  func(ctx context.Context, userID string) ([]models.Order, error)
	GetByIDFn     func(ctx context.Context, userID, orderID string) (*models.Order, error)
	InsertFn      func(ctx context.Context, o models.Order) error
	UpdateFn      func(ctx context.Context, o models.Order) (bool, error)
	DeleteFn      func(ctx context.Context, userID, orderID string) (bool, error)
	StatsByUserFn func(ctx context.Context, userID string) (models.OrderStats, error)

	inserted []models.Order
	updated  []models.Order
}

func (m *mockOrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockOrderStore) GetByID(ctx context.Context, userID, orderID string) (*models.Order, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, orderID)
	}
	return nil, nil
}

func (m *mockOrderStore) Insert(ctx context.Context, o models.Order) error {
	m.inserted = append(m.inserted, o)
	if m.InsertFn != nil {
		return m.InsertFn(ctx, o)
	}
	return nil
}

func (m *mockOrderStore) Update(ctx context.Context, o models.Order) (bool, error) {
	m.updated = append(m.updated, o)
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, o)
	}
	return true, nil
}

func (m *mockOrderStore) Delete(ctx context.Context, userID, orderID string) (bool, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, orderID)
	}
	return true, nil
}

func (m *mockOrderStore) StatsByUser(ctx context.Context, userID string) (models.OrderStats, error) {
	if m.StatsByUserFn != nil {
		return m.StatsByUserFn(ctx, userID)
	}
	return models.OrderStats{}, nil
}

// --- Create tests ---

func TestOrderService_Create_DefaultsAndStamps(t *testing.T) {
	store := &mockOrderStore{}
	svc := NewOrderService(store)

	o, err := svc.Create(context.Background(), "u-1", OrderInput{
		Content:     "two boxes",
		OrderNumber: "N1",
		// status and amount omitted
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if o.Status != models.StatusPlaced {
		t.Fatalf("expected default status 已下单, got %q", o.Status)
	}
	if o.Amount != 0 {
		t.Fatalf("expected default amount 0, got %v", o.Amount)
	}
	if o.ID == "" || o.UserID != "u-1" {
		t.Fatalf("id/owner not stamped: %+v", o)
	}
	if o.CreatedAt.IsZero() || !o.CreatedAt.Equal(o.UpdatedAt) {
		t.Fatalf("timestamps not stamped: %+v", o)
	}
	if len(store.inserted) != 1 || store.inserted[0].ID != o.ID {
		t.Fatalf("order not persisted: %+v", store.inserted)
	}
}

func TestOrderService_Create_UniqueIDs(t *testing.T) {
	store := &mockOrderStore{}
	svc := NewOrderService(store)

	a, _ := svc.Create(context.Background(), "u-1", OrderInput{Content: "a", OrderNumber: "N1"})
	b, _ := svc.Create(context.Background(), "u-1", OrderInput{Content: "b", OrderNumber: "N2"})
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, both %q", a.ID)
	}
}

func TestOrderService_Create_AmountRounding(t *testing.T) {
	store := &mockOrderStore{}
	svc := NewOrderService(store)

	o, err := svc.Create(context.Background(), "u-1", OrderInput{
		Content:     "c",
		OrderNumber: "N1",
		Status:      string(models.StatusCompleted),
		Amount:      10.555,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if o.Amount != 10.56 {
		t.Fatalf("expected amount rounded to cents (10.56), got %v", o.Amount)
	}
	if o.Status != models.StatusCompleted {
		t.Fatalf("explicit status dropped: %q", o.Status)
	}
}

func TestOrderService_Create_Validation(t *testing.T) {
	cases := []struct {
		name string
		in   OrderInput
	}{
		{"missing content", OrderInput{OrderNumber: "N1"}},
		{"missing order number", OrderInput{Content: "c"}},
		{"unknown status", OrderInput{Content: "c", OrderNumber: "N1", Status: "shipped"}},
		{"negative amount", OrderInput{Content: "c", OrderNumber: "N1", Amount: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &mockOrderStore{}
			svc := NewOrderService(store)

			_, err := svc.Create(context.Background(), "u-1", tc.in)
			if !errors.Is(err, ErrInvalidOrder) {
				t.Fatalf("expected ErrInvalidOrder, got %v", err)
			}
			if len(store.inserted) != 0 {
				t.Fatalf("nothing must be persisted on validation failure")
			}
		})
	}
}

// --- Get / Update / Delete tests ---

func TestOrderService_Get_NotFound(t *testing.T) {
	svc := NewOrderService(&mockOrderStore{}) // GetByID yields (nil, nil)

	_, err := svc.Get(context.Background(), "u-1", "o-404")
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_Update_ReplacesFieldsKeepsCreatedAt(t *testing.T) {
	created := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	store := &mockOrderStore{
		GetByIDFn: func(ctx context.Context, userID, orderID string) (*models.Order, error) {
			return &models.Order{
				ID: orderID, Content: "old", OrderNumber: "N1",
				Status: models.StatusPlaced, Amount: 1, UserID: userID,
				CreatedAt: created, UpdatedAt: created,
			}, nil
		},
	}
	svc := NewOrderService(store)

	o, err := svc.Update(context.Background(), "u-1", "o-1", OrderInput{
		Content:     "new",
		OrderNumber: "N2",
		Status:      string(models.StatusSettled),
		Amount:      9.99,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if o.Content != "new" || o.OrderNumber != "N2" || o.Status != models.StatusSettled || o.Amount != 9.99 {
		t.Fatalf("fields not replaced: %+v", o)
	}
	if !o.CreatedAt.Equal(created) {
		t.Fatalf("createdAt must be preserved, got %v", o.CreatedAt)
	}
	if !o.UpdatedAt.After(created) {
		t.Fatalf("updatedAt not stamped: %+v", o)
	}
	if len(store.updated) != 1 || store.updated[0].UserID != "u-1" {
		t.Fatalf("update not persisted with owner filter: %+v", store.updated)
	}
}

func TestOrderService_Update_NotFoundSkipsWrite(t *testing.T) {
	store := &mockOrderStore{} // GetByID yields (nil, nil)
	svc := NewOrderService(store)

	_, err := svc.Update(context.Background(), "u-1", "o-404", OrderInput{Content: "c", OrderNumber: "N"})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if len(store.updated) != 0 {
		t.Fatalf("no write may happen when ownership check fails")
	}
}

func TestOrderService_Delete_Idempotence(t *testing.T) {
	calls := 0
	store := &mockOrderStore{
		DeleteFn: func(ctx context.Context, userID, orderID string) (bool, error) {
			calls++
			return calls == 1, nil // first delete removes the row, second finds nothing
		},
	}
	svc := NewOrderService(store)

	if err := svc.Delete(context.Background(), "u-1", "o-1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	err := svc.Delete(context.Background(), "u-1", "o-1")
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("second delete: expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_Stats_Passthrough(t *testing.T) {
	want := models.OrderStats{Total: 2, Pending: 1, Settled: 1, PendingAmount: 10.5, SettledAmount: 3}
	store := &mockOrderStore{
		StatsByUserFn: func(ctx context.Context, userID string) (models.OrderStats, error) {
			if userID != "u-1" {
				t.Fatalf("stats queried for wrong user %q", userID)
			}
			return want, nil
		},
	}
	svc := NewOrderService(store)

	got, err := svc.Stats(context.Background(), "u-1")
	if err != nil || got != want {
		t.Fatalf("unexpected stats: %+v, err=%v", got, err)
	}
}
