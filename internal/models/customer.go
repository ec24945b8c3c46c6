package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer represents a storefront user account. The reporting core only
// consumes the total count and the customer IDs referenced by orders.
type Customer struct {
	CustomerID string    `json:"customer_id" db:"customer_id" validate:"required"`
	Email      string    `json:"email" db:"email" validate:"required,email"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// NewCustomer creates a new customer with generated ID and timestamp
func NewCustomer(email string) *Customer {
	return &Customer{
		CustomerID: uuid.New().String(),
		Email:      email,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate validates the customer data
func (c *Customer) Validate() error {
	if c.CustomerID == "" {
		return fmt.Errorf("customer ID is required")
	}

	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("email is required")
	}

	return nil
}
