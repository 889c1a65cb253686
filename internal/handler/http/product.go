package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/ahmdfariiss/nilasense/internal/models"
)

type ProductService interface {
	// Create creates new product
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	// List returns product catalog
	List(ctx context.Context) ([]models.Product, error)
	// Get returns product by id
	Get(ctx context.Context, id uint64) (*models.Product, error)
	// Update updates product owned by user
	Update(ctx context.Context, product models.Product) error
	// Delete deletes product owned by user
	Delete(ctx context.Context, id, userID uint64) error
}

// ProductHandler represents HTTP handler for product-related requests
type ProductHandler struct {
	svc ProductService
}

// NewProductHandler creates new ProductHandler instance
func NewProductHandler(svc ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type productRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Stock       int32  `json:"stock" validate:"gte=0"`
	Unit        string `json:"unit"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

type productResponse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Stock       int32  `json:"stock"`
	Unit        string `json:"unit"`
	ImageURL    string `json:"image_url,omitempty"`
}

func newProductResponse(product *models.Product) productResponse {
	return productResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		Unit:        product.Unit,
		ImageURL:    product.ImageURL,
	}
}

// CreateProduct creates new product for farmer
// 200 — product has been created
// 400 — bad request format
// 401 — user is not authenticated
// 403 — user is not a farmer
// 500 — internal server error
func (ph *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if payload.Role != models.RoleFarmer {
			respondMessage(w, http.StatusForbidden, "only farmers can manage products")
			return
		}

		var req productRequest
		if err := decodeValid(r, &req); err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		product := models.Product{
			UserID:      payload.UserID,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
			Unit:        req.Unit,
			ImageURL:    req.ImageURL,
		}

		created, err := ph.svc.Create(r.Context(), &product)
		if err != nil {
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondJSON(w, http.StatusOK, newProductResponse(created))
	}
}

// ListProducts returns product catalog
// 200 — successful request
// 500 — internal server error
func (ph *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := ph.svc.List(r.Context())
		if err != nil {
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := make([]productResponse, 0, len(products))
		for i := range products {
			resp = append(resp, newProductResponse(&products[i]))
		}

		respondJSON(w, http.StatusOK, resp)
	}
}

// GetProduct returns product by id
// 200 — successful request
// 404 — product not found
// 500 — internal server error
func (ph *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "productID")
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		product, err := ph.svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				respondMessage(w, http.StatusNotFound, "product not found")
				return
			}
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondJSON(w, http.StatusOK, newProductResponse(product))
	}
}

// UpdateProduct updates product owned by farmer
// 200 — product has been updated
// 400 — bad request format
// 401 — user is not authenticated
// 403 — user is not a farmer
// 404 — product not found
// 500 — internal server error
func (ph *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if payload.Role != models.RoleFarmer {
			respondMessage(w, http.StatusForbidden, "only farmers can manage products")
			return
		}

		id, err := idParam(r, "productID")
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		var req productRequest
		if err := decodeValid(r, &req); err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		product := models.Product{
			ID:          id,
			UserID:      payload.UserID,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
			Unit:        req.Unit,
			ImageURL:    req.ImageURL,
		}

		if err := ph.svc.Update(r.Context(), product); err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				respondMessage(w, http.StatusNotFound, "product not found")
				return
			}
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondMessage(w, http.StatusOK, "product updated")
	}
}

// DeleteProduct deletes product owned by farmer
// 200 — product has been deleted
// 401 — user is not authenticated
// 403 — user is not a farmer
// 404 — product not found
// 500 — internal server error
func (ph *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if payload.Role != models.RoleFarmer {
			respondMessage(w, http.StatusForbidden, "only farmers can manage products")
			return
		}

		id, err := idParam(r, "productID")
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		if err := ph.svc.Delete(r.Context(), id, payload.UserID); err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				respondMessage(w, http.StatusNotFound, "product not found")
				return
			}
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondMessage(w, http.StatusOK, "product deleted")
	}
}
