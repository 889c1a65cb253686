package repository

import (
	"context"
	"errors"

	"github.com/ahmdfariiss/nilasense/internal/models"
	"github.com/ahmdfariiss/nilasense/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	insertProductQuery = `
						INSERT INTO products (user_id, name, description, price, stock, unit, image_url)
						VALUES ($1, $2, $3, $4, $5, $6, $7)
						RETURNING id, user_id, name, description, price, stock, unit, image_url, created_at, updated_at
`
	selectProductsQuery = `
						SELECT id, user_id, name, description, price, stock, unit, image_url, created_at, updated_at FROM products
						ORDER BY created_at DESC
`
	selectProductByIDQuery = `
						SELECT id, user_id, name, description, price, stock, unit, image_url, created_at, updated_at FROM products
						WHERE id = $1
`
	updateProductQuery = `
						UPDATE products
						SET name = $1, description = $2, price = $3, stock = $4, unit = $5, image_url = $6, updated_at = now()
						WHERE id = $7 AND user_id = $8
`
	deleteProductQuery = `
						DELETE FROM products
						WHERE id = $1 AND user_id = $2
`
)

// ProductRepository implements ProductRepository interface
type ProductRepository struct {
	db *postgres.DB
}

// NewProductRepository creates new ProductRepository instance
func NewProductRepository(db *postgres.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// CreateProduct inserts new product to database
func (pr *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := pr.db.QueryRow(ctx, insertProductQuery, product.UserID, product.Name, product.Description, product.Price, product.Stock, product.Unit, product.ImageURL).
		Scan(&product.ID, &product.UserID, &product.Name, &product.Description, &product.Price, &product.Stock, &product.Unit, &product.ImageURL, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return product, nil
}

// GetProducts returns catalog, newest first
func (pr *ProductRepository) GetProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := pr.db.Query(ctx, selectProductsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}

	for rows.Next() {
		product := models.Product{}
		err = rows.Scan(&product.ID, &product.UserID, &product.Name, &product.Description, &product.Price, &product.Stock, &product.Unit, &product.ImageURL, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			continue
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// GetProductByID returns product by id
func (pr *ProductRepository) GetProductByID(ctx context.Context, id uint64) (*models.Product, error) {
	product := models.Product{}
	err := pr.db.QueryRow(ctx, selectProductByIDQuery, id).
		Scan(&product.ID, &product.UserID, &product.Name, &product.Description, &product.Price, &product.Stock, &product.Unit, &product.ImageURL, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &product, nil
}

// UpdateProduct updates product owned by user
func (pr *ProductRepository) UpdateProduct(ctx context.Context, product models.Product) error {
	cmd, err := pr.db.Exec(ctx, updateProductQuery, product.Name, product.Description, product.Price, product.Stock, product.Unit, product.ImageURL, product.ID, product.UserID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// DeleteProduct deletes product owned by user
func (pr *ProductRepository) DeleteProduct(ctx context.Context, id, userID uint64) error {
	cmd, err := pr.db.Exec(ctx, deleteProductQuery, id, userID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
