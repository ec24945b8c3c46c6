package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPaid              OrderStatus = "paid"
	OrderStatusPartiallyRefunded OrderStatus = "partially_refunded"
	OrderStatusRefunded          OrderStatus = "refunded"
	OrderStatusCancelled         OrderStatus = "cancelled"
	OrderStatusInPreparation     OrderStatus = "in_preparation"
	OrderStatusShipped           OrderStatus = "shipped"
	OrderStatusDelivered         OrderStatus = "delivered"
)

// ValidOrderStatuses lists every status an order can carry
var ValidOrderStatuses = []OrderStatus{
	OrderStatusPaid,
	OrderStatusPartiallyRefunded,
	OrderStatusRefunded,
	OrderStatusCancelled,
	OrderStatusInPreparation,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// LineItem represents one purchased product line within an order
type LineItem struct {
	ProductID string  `json:"product_id" db:"product_id" validate:"required"`
	Barcode   string  `json:"barcode,omitempty" db:"barcode"`
	Name      string  `json:"name" db:"name"`
	Quantity  int64   `json:"quantity" db:"quantity" validate:"required,min=1"`
	UnitPrice float64 `json:"unit_price" db:"unit_price" validate:"min=0"`
}

// Revenue returns the revenue contributed by this line item
func (li *LineItem) Revenue() float64 {
	return li.UnitPrice * float64(li.Quantity)
}

// Order represents a customer order in the system.
// Refund metadata is optional; absent values stay nil and are resolved to
// defaults where the row is scanned, not inside aggregation logic.
type Order struct {
	OrderID      string      `json:"order_id" db:"order_id" validate:"required"`
	CustomerID   string      `json:"customer_id" db:"customer_id" validate:"required"`
	Total        float64     `json:"total" db:"total"`
	Status       OrderStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	RefundAmount *float64    `json:"refund_amount,omitempty" db:"refund_amount"`
	RefundedAt   *time.Time  `json:"refunded_at,omitempty" db:"refunded_at"`
	RefundID     *string     `json:"refund_id,omitempty" db:"refund_id"`

	// Associations (stored in order_items, loaded alongside the order)
	Items []LineItem `json:"items,omitempty"`
}

// NewOrder creates a new order with generated ID and timestamp
func NewOrder(customerID string) *Order {
	return &Order{
		OrderID:    uuid.New().String(),
		CustomerID: customerID,
		Status:     OrderStatusPaid,
		CreatedAt:  time.Now().UTC(),
	}
}

// IsRefunded reports whether the order is in the terminal refunded state.
// Partially refunded orders still count toward revenue aggregates.
func (o *Order) IsRefunded() bool {
	return o.Status == OrderStatusRefunded
}

// Validate validates the order data
func (o *Order) Validate() error {
	if o.OrderID == "" {
		return fmt.Errorf("order ID is required")
	}

	if o.CustomerID == "" {
		return fmt.Errorf("customer ID is required")
	}

	if o.CreatedAt.IsZero() {
		return fmt.Errorf("creation timestamp is required")
	}

	if o.Total < 0 {
		return fmt.Errorf("total cannot be negative")
	}

	valid := false
	for _, status := range ValidOrderStatuses {
		if o.Status == status {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid order status: %s", o.Status)
	}

	for i, item := range o.Items {
		if item.ProductID == "" {
			return fmt.Errorf("line item %d: product ID is required", i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("line item %d: quantity must be positive", i)
		}
		if item.UnitPrice < 0 {
			return fmt.Errorf("line item %d: unit price cannot be negative", i)
		}
	}

	return nil
}

// SetRefund records refund metadata on the order
func (o *Order) SetRefund(refundID string, amount float64, at time.Time) {
	o.RefundID = &refundID
	o.RefundAmount = &amount
	o.RefundedAt = &at
}

// GetRefundAmount returns the refunded amount or 0 if none was recorded
func (o *Order) GetRefundAmount() float64 {
	if o.RefundAmount == nil {
		return 0
	}
	return *o.RefundAmount
}
