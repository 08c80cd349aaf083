package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/themizzi/storefront-e2e/internal/database"
	"github.com/themizzi/storefront-e2e/internal/models"
)

// ErrOrderNotFound is returned when no order has the requested reference.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository handles database operations for orders
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		db: database.DB,
	}
}

// NewOrderRepositoryWithDB creates a new order repository with a specific database connection
func NewOrderRepositoryWithDB(db *sql.DB) *OrderRepository {
	return &OrderRepository{
		db: db,
	}
}

// CreateOrder inserts the order and sets its number from the sequence.
func (r *OrderRepository) CreateOrder(order *models.Order) error {
	customer, err := json.Marshal(order.Customer)
	if err != nil {
		return fmt.Errorf("failed to encode customer: %w", err)
	}
	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode order lines: %w", err)
	}

	query := `
		INSERT INTO orders (id, reference, amount, currency, status, customer, lines, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING number
	`

	now := time.Now()
	err = r.db.QueryRow(query,
		order.ID,
		order.Reference,
		order.Amount,
		order.Currency,
		order.Status,
		customer,
		lines,
		now,
		now,
	).Scan(&order.Number)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	order.CreatedAt = now
	order.UpdatedAt = now

	return nil
}

// GetOrderByReference retrieves an order by its reference
func (r *OrderRepository) GetOrderByReference(reference string) (*models.Order, error) {
	query := `
		SELECT id, number, reference, amount, currency, status, customer, lines, created_at, updated_at
		FROM orders
		WHERE reference = $1
	`

	order := &models.Order{}
	var customer, lines []byte
	err := r.db.QueryRow(query, reference).Scan(
		&order.ID,
		&order.Number,
		&order.Reference,
		&order.Amount,
		&order.Currency,
		&order.Status,
		&customer,
		&lines,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := json.Unmarshal(customer, &order.Customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer: %w", err)
	}
	if err := json.Unmarshal(lines, &order.Lines); err != nil {
		return nil, fmt.Errorf("failed to decode order lines: %w", err)
	}

	return order, nil
}

// UpdateOrderStatus updates the status of an order
func (r *OrderRepository) UpdateOrderStatus(reference, status string) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE reference = $3
	`

	result, err := r.db.Exec(query, status, time.Now(), reference)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// MemoryOrderRepository keeps orders in process. It backs the stand-in
// storefront when no database is configured.
type MemoryOrderRepository struct {
	mu     sync.Mutex
	next   int64
	orders map[string]models.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{next: 1000, orders: map[string]models.Order{}}
}

func (r *MemoryOrderRepository) CreateOrder(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.orders[order.Reference]; dup {
		return fmt.Errorf("failed to create order: duplicate reference %s", order.Reference)
	}
	r.next++
	now := time.Now()
	order.Number = r.next
	order.CreatedAt = now
	order.UpdatedAt = now
	stored := *order
	stored.Lines = append([]models.OrderLine(nil), order.Lines...)
	r.orders[order.Reference] = stored
	return nil
}

func (r *MemoryOrderRepository) GetOrderByReference(reference string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[reference]
	if !ok {
		return nil, ErrOrderNotFound
	}
	o.Lines = append([]models.OrderLine(nil), o.Lines...)
	return &o, nil
}

func (r *MemoryOrderRepository) UpdateOrderStatus(reference, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[reference]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = models.OrderStatus(status)
	o.UpdatedAt = time.Now()
	r.orders[reference] = o
	return nil
}
