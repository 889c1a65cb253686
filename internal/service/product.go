package service

import (
	"context"

	"github.com/ahmdfariiss/nilasense/internal/models"
)

// ProductRepository is interface for interacting with product-related data
type ProductRepository interface {
	// CreateProduct inserts new product to database
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	// GetProducts returns catalog, newest first
	GetProducts(ctx context.Context) ([]models.Product, error)
	// GetProductByID returns product by id
	GetProductByID(ctx context.Context, id uint64) (*models.Product, error)
	// UpdateProduct updates product owned by user
	UpdateProduct(ctx context.Context, product models.Product) error
	// DeleteProduct deletes product owned by user
	DeleteProduct(ctx context.Context, id, userID uint64) error
}

// ProductService implements ProductService interface
type ProductService struct {
	repo ProductRepository
}

// NewProductService creates new ProductService instance
func NewProductService(repo ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// Create creates new product
func (ps *ProductService) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.Unit == "" {
		product.Unit = "kg"
	}
	return ps.repo.CreateProduct(ctx, product)
}

// List returns product catalog
func (ps *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return ps.repo.GetProducts(ctx)
}

// Get returns product by id
func (ps *ProductService) Get(ctx context.Context, id uint64) (*models.Product, error) {
	return ps.repo.GetProductByID(ctx, id)
}

// Update updates product owned by user
func (ps *ProductService) Update(ctx context.Context, product models.Product) error {
	return ps.repo.UpdateProduct(ctx, product)
}

// Delete deletes product owned by user
func (ps *ProductService) Delete(ctx context.Context, id, userID uint64) error {
	return ps.repo.DeleteProduct(ctx, id, userID)
}
