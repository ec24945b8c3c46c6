package models

import (
	"fmt"
	"strings"
)

// UncategorizedLabel is the category bucket used when a product has no
// category string (or no longer resolves at all).
const UncategorizedLabel = "Non catégorisé"

// Product represents a catalog product. The product ID is the barcode string
// itself, not a generated key; order line items join on this identity.
type Product struct {
	ProductID       string  `json:"product_id" db:"product_id" validate:"required"`
	Code            string  `json:"code" db:"code"`
	Name            string  `json:"name" db:"name" validate:"required,min=1,max=255"`
	Brands          string  `json:"brands" db:"brands"`
	ImageURL        string  `json:"image_url" db:"image_url"`
	Price           float64 `json:"price" db:"price" validate:"min=0"`
	NutriscoreGrade string  `json:"nutriscore_grade" db:"nutriscore_grade"`
	Categories      string  `json:"categories" db:"categories"`
	Stock           int64   `json:"stock" db:"stock"`
}

// Validate validates the product data
func (p *Product) Validate() error {
	if p.ProductID == "" {
		return fmt.Errorf("product ID is required")
	}

	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required")
	}

	if p.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}

	if p.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}

	return nil
}

// PrimaryCategory returns the first comma-delimited token of the category
// string, or UncategorizedLabel when the string is empty. Only the first
// token is used for category attribution; reported figures depend on it.
func (p *Product) PrimaryCategory() string {
	if p == nil {
		return UncategorizedLabel
	}
	first := strings.TrimSpace(strings.SplitN(p.Categories, ",", 2)[0])
	if first == "" {
		return UncategorizedLabel
	}
	return first
}
