package sqlite

import (
	"context"
	"database/sql"

	"eshop-reports-api/internal/models"
	"eshop-reports-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ProductRepository implements the read-only product catalog over SQLite
type ProductRepository struct {
	*baseRepository
}

// NewProductRepository creates a new SQLite product repository
func NewProductRepository(db *sql.DB, logger *logrus.Logger) repositories.ProductRepository {
	return &ProductRepository{
		baseRepository: newBaseRepository(db, "products", logger),
	}
}

// GetByID retrieves a product by its barcode identifier
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := `
		SELECT product_id, code, name, brands, image_url, price, nutriscore_grade, categories, stock
		FROM products
		WHERE product_id = ?`

	row := r.executeQueryRow(ctx, "get_by_id", query, id)

	product := &models.Product{}
	var code, brands, imageURL, nutriscore, categories sql.NullString

	err := row.Scan(
		&product.ProductID,
		&code,
		&product.Name,
		&brands,
		&imageURL,
		&product.Price,
		&nutriscore,
		&categories,
		&product.Stock,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("product", id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", "product", id, err)
	}

	product.Code = code.String
	product.Brands = brands.String
	product.ImageURL = imageURL.String
	product.NutriscoreGrade = nutriscore.String
	product.Categories = categories.String

	return product, nil
}

// Count returns the total number of catalog products
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	row := r.executeQueryRow(ctx, "count", "SELECT COUNT(*) FROM products")
	return r.scanCount(row, "count")
}
