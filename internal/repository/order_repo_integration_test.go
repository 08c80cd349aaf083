//go:build integration
// +build integration

package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/repository/testutil"
)

func newTestOrder(reference string) *models.Order {
	return &models.Order{
		ID:        uuid.New().String(),
		Reference: reference,
		Customer: models.Contact{
			FirstName: "John",
			LastName:  "Doe",
			Email:     "testguest@example.com",
			City:      "New York",
			Country:   "United States",
			Zone:      "New York",
		},
		Lines: []models.OrderLine{
			{ProductID: 50, Name: "Casual 3/4 Sleeve Baseball T-Shirt", Quantity: 2, UnitPrice: 1199},
			{ProductID: 53, Name: "Absolute Anti-Age Night Cream", Quantity: 1, UnitPrice: 4700},
		},
		Amount:   7098,
		Currency: "USD",
		Status:   models.OrderStatusPending,
	}
}

func TestOrderRepository_CreateOrder_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewOrderRepositoryWithDB(testDB.DB)
	order := newTestOrder("ORDER-TEST-001")

	if err := repo.CreateOrder(order); err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if order.Number == 0 {
		t.Error("Number should be assigned")
	}
	if order.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	retrieved, err := repo.GetOrderByReference(order.Reference)
	if err != nil {
		t.Fatalf("Failed to retrieve created order: %v", err)
	}
	if retrieved.ID != order.ID {
		t.Errorf("ID mismatch: got %v, want %v", retrieved.ID, order.ID)
	}
	if retrieved.Number != order.Number {
		t.Errorf("Number mismatch: got %v, want %v", retrieved.Number, order.Number)
	}
	if retrieved.Customer != order.Customer {
		t.Errorf("Customer mismatch: got %+v, want %+v", retrieved.Customer, order.Customer)
	}
	if len(retrieved.Lines) != 2 || retrieved.Lines[1].Name != "Absolute Anti-Age Night Cream" {
		t.Errorf("Lines mismatch: got %+v", retrieved.Lines)
	}
	if retrieved.Amount != order.Amount {
		t.Errorf("Amount mismatch: got %v, want %v", retrieved.Amount, order.Amount)
	}
}

func TestOrderRepository_CreateOrder_DuplicateReference_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewOrderRepositoryWithDB(testDB.DB)

	if err := repo.CreateOrder(newTestOrder("ORDER-DUP-001")); err != nil {
		t.Fatalf("Failed to create first order: %v", err)
	}

	if err := repo.CreateOrder(newTestOrder("ORDER-DUP-001")); err == nil {
		t.Error("Expected error when creating order with duplicate reference")
	}
}

func TestOrderRepository_GetOrderByReference_NotFound_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewOrderRepositoryWithDB(testDB.DB)

	_, err := repo.GetOrderByReference("ORDER-MISSING")

	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("error = %v, want ErrOrderNotFound", err)
	}
}

func TestOrderRepository_UpdateOrderStatus_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewOrderRepositoryWithDB(testDB.DB)
	order := newTestOrder("ORDER-UPD-001")
	if err := repo.CreateOrder(order); err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}

	tests := []struct {
		name      string
		reference string
		status    string
		wantErr   error
	}{
		{"confirm existing order", order.Reference, string(models.OrderStatusConfirmed), nil},
		{"missing order", "ORDER-NOPE", string(models.OrderStatusConfirmed), ErrOrderNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.UpdateOrderStatus(tt.reference, tt.status)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UpdateOrderStatus() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			retrieved, err := repo.GetOrderByReference(tt.reference)
			if err != nil {
				t.Fatal(err)
			}
			if string(retrieved.Status) != tt.status {
				t.Errorf("Status = %s, want %s", retrieved.Status, tt.status)
			}
		})
	}
}

func TestOrderRepository_ConcurrentCreates_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewOrderRepositoryWithDB(testDB.DB)

	const n = 10
	var wg sync.WaitGroup
	numbers := make(chan int64, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			order := newTestOrder(fmt.Sprintf("ORDER-CONC-%03d", i))
			if err := repo.CreateOrder(order); err != nil {
				errs <- err
				return
			}
			numbers <- order.Number
		}(i)
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		t.Errorf("concurrent create failed: %v", err)
	}
	seen := map[int64]bool{}
	for num := range numbers {
		if seen[num] {
			t.Errorf("order number %d assigned twice", num)
		}
		seen[num] = true
	}
}

func TestRunRepository_SaveAndList_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRunRepositoryWithDB(testDB.DB)
	ctx := context.Background()
	runID := uuid.NewString()
	start := time.Now().Truncate(time.Millisecond)

	runs := []models.ScenarioRun{
		{ID: uuid.NewString(), RunID: runID, Scenario: "home-loads", Tags: []string{"smoke"}, Status: models.RunStatusPassed, StartedAt: start, Duration: 1500 * time.Millisecond},
		{ID: uuid.NewString(), RunID: runID, Scenario: "guest-checkout", Tags: []string{"e2e", "checkout"}, Status: models.RunStatusFailed, Message: "confirm order button not visible", Screenshot: "screenshots/guest.png", StartedAt: start.Add(time.Second), Duration: 20 * time.Second},
	}
	for _, run := range runs {
		if err := repo.SaveScenarioRun(ctx, run); err != nil {
			t.Fatalf("SaveScenarioRun() error = %v", err)
		}
	}

	summary, err := repo.ListRun(ctx, runID)
	if err != nil {
		t.Fatalf("ListRun() error = %v", err)
	}

	if len(summary.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(summary.Results))
	}
	if summary.Results[1].Tags[1] != "checkout" {
		t.Errorf("tags = %v", summary.Results[1].Tags)
	}
	if summary.Results[1].Duration != 20*time.Second {
		t.Errorf("duration = %v", summary.Results[1].Duration)
	}
	if summary.OK() {
		t.Error("summary with a failure should not be OK")
	}
}

func TestRunRepository_FlakyScenarios_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRunRepositoryWithDB(testDB.DB)
	ctx := context.Background()
	start := time.Now()

	save := func(runID, scenario string, status models.RunStatus, offset time.Duration) {
		t.Helper()
		err := repo.SaveScenarioRun(ctx, models.ScenarioRun{
			ID: uuid.NewString(), RunID: runID, Scenario: scenario, Status: status, StartedAt: start.Add(offset),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	first, second := uuid.NewString(), uuid.NewString()
	save(first, "login", models.RunStatusPassed, 0)
	save(first, "add-to-cart", models.RunStatusPassed, 0)
	save(second, "login", models.RunStatusFailed, time.Minute)
	save(second, "add-to-cart", models.RunStatusPassed, time.Minute)

	flaky, err := repo.FlakyScenarios(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}

	if len(flaky) != 1 || flaky[0] != "login" {
		t.Errorf("FlakyScenarios() = %v, want [login]", flaky)
	}
}
