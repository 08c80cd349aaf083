package services

import (
	"fmt"

	"github.com/themizzi/storefront-e2e/internal/models"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	CreateOrder(order *models.Order) error
	GetOrderByReference(reference string) (*models.Order, error)
	UpdateOrderStatus(reference, status string) error
}

// OrderService handles order business logic
type OrderService interface {
	CreateOrder(customer models.Contact, lines []models.OrderLine, currency string) (*models.Order, error)
	GetOrderByReference(reference string) (*models.Order, error)
	UpdateOrderStatus(reference, status string) error
}

// OrderServiceImpl implements OrderService
type OrderServiceImpl struct {
	orderRepo OrderRepository
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo OrderRepository) OrderService {
	return &OrderServiceImpl{
		orderRepo: orderRepo,
	}
}

// CreateOrder builds a pending order and stores it. The repository assigns
// the order number.
func (s *OrderServiceImpl) CreateOrder(customer models.Contact, lines []models.OrderLine, currency string) (*models.Order, error) {
	order, err := models.NewOrder(customer, lines, currency)
	if err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}

	if err := s.orderRepo.CreateOrder(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

// GetOrderByReference retrieves an order by its reference
func (s *OrderServiceImpl) GetOrderByReference(reference string) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByReference(reference)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// UpdateOrderStatus moves an order to status through the domain
// transitions and persists the result.
func (s *OrderServiceImpl) UpdateOrderStatus(reference, status string) error {
	order, err := s.orderRepo.GetOrderByReference(reference)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}

	switch models.OrderStatus(status) {
	case models.OrderStatusConfirmed:
		if err := order.Confirm(); err != nil {
			return err
		}
	case models.OrderStatusCancelled:
		if err := order.Cancel(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid order status: %s", status)
	}

	if err := s.orderRepo.UpdateOrderStatus(reference, string(order.Status)); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}
