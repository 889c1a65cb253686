package service

import (
	"context"

	"github.com/ahmdfariiss/nilasense/internal/models"
)

// PondRepository is interface for interacting with pond-related data
type PondRepository interface {
	// CreatePond inserts new pond to database
	CreatePond(ctx context.Context, pond *models.Pond) (*models.Pond, error)
	// GetPondsByUserID gets user ponds
	GetPondsByUserID(ctx context.Context, userID uint64) ([]models.Pond, error)
	// GetPondByID returns pond by id
	GetPondByID(ctx context.Context, id uint64) (*models.Pond, error)
	// UpdatePond updates pond owned by user
	UpdatePond(ctx context.Context, pond models.Pond) error
	// DeletePond deletes pond owned by user
	DeletePond(ctx context.Context, id, userID uint64) error
}

// PondService implements PondService interface
type PondService struct {
	repo PondRepository
}

// NewPondService creates new PondService instance
func NewPondService(repo PondRepository) *PondService {
	return &PondService{repo: repo}
}

// Create creates new pond for user
func (ps *PondService) Create(ctx context.Context, pond *models.Pond) (*models.Pond, error) {
	if pond.Status == "" {
		pond.Status = models.PondStatusActive
	}
	return ps.repo.CreatePond(ctx, pond)
}

// ListUserPonds returns ponds owned by user
func (ps *PondService) ListUserPonds(ctx context.Context, userID uint64) ([]models.Pond, error) {
	return ps.repo.GetPondsByUserID(ctx, userID)
}

// GetUserPond returns pond by id. An existing pond owned by another user is
// reported as not found.
func (ps *PondService) GetUserPond(ctx context.Context, id, userID uint64) (*models.Pond, error) {
	pond, err := ps.repo.GetPondByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if pond.UserID != userID {
		return nil, models.ErrDataNotFound
	}

	return pond, nil
}

// Update updates pond owned by user
func (ps *PondService) Update(ctx context.Context, pond models.Pond) error {
	return ps.repo.UpdatePond(ctx, pond)
}

// Delete deletes pond owned by user
func (ps *PondService) Delete(ctx context.Context, id, userID uint64) error {
	return ps.repo.DeletePond(ctx, id, userID)
}
