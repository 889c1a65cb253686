package repository

import (
	"context"
	"errors"

	"github.com/ahmdfariiss/nilasense/internal/models"
	"github.com/ahmdfariiss/nilasense/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	insertPondQuery = `
						INSERT INTO ponds (user_id, name, area_m2, capacity, stocked_at, status)
						VALUES ($1, $2, $3, $4, $5, $6)
						RETURNING id, user_id, name, area_m2, capacity, stocked_at, status, created_at
`
	selectPondsByUserIDQuery = `
						SELECT id, user_id, name, area_m2, capacity, stocked_at, status, created_at FROM ponds
						WHERE user_id = $1
						ORDER BY created_at DESC
`
	selectPondByIDQuery = `
						SELECT id, user_id, name, area_m2, capacity, stocked_at, status, created_at FROM ponds
						WHERE id = $1
`
	updatePondQuery = `
						UPDATE ponds
						SET name = $1, area_m2 = $2, capacity = $3, stocked_at = $4, status = $5
						WHERE id = $6 AND user_id = $7
`
	deletePondQuery = `
						DELETE FROM ponds
						WHERE id = $1 AND user_id = $2
`
)

// PondRepository implements PondRepository interface
type PondRepository struct {
	db *postgres.DB
}

// NewPondRepository creates new PondRepository instance
func NewPondRepository(db *postgres.DB) *PondRepository {
	return &PondRepository{db: db}
}

// CreatePond inserts new pond to database
func (pr *PondRepository) CreatePond(ctx context.Context, pond *models.Pond) (*models.Pond, error) {
	err := pr.db.QueryRow(ctx, insertPondQuery, pond.UserID, pond.Name, pond.AreaM2, pond.Capacity, pond.StockedAt, pond.Status).
		Scan(&pond.ID, &pond.UserID, &pond.Name, &pond.AreaM2, &pond.Capacity, &pond.StockedAt, &pond.Status, &pond.CreatedAt)
	if err != nil {
		return nil, err
	}

	return pond, nil
}

// GetPondsByUserID gets user ponds
func (pr *PondRepository) GetPondsByUserID(ctx context.Context, userID uint64) ([]models.Pond, error) {
	rows, err := pr.db.Query(ctx, selectPondsByUserIDQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ponds := []models.Pond{}

	for rows.Next() {
		pond := models.Pond{}
		err = rows.Scan(&pond.ID, &pond.UserID, &pond.Name, &pond.AreaM2, &pond.Capacity, &pond.StockedAt, &pond.Status, &pond.CreatedAt)
		if err != nil {
			continue
		}
		ponds = append(ponds, pond)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ponds, nil
}

// GetPondByID returns pond by id
func (pr *PondRepository) GetPondByID(ctx context.Context, id uint64) (*models.Pond, error) {
	pond := models.Pond{}
	err := pr.db.QueryRow(ctx, selectPondByIDQuery, id).
		Scan(&pond.ID, &pond.UserID, &pond.Name, &pond.AreaM2, &pond.Capacity, &pond.StockedAt, &pond.Status, &pond.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &pond, nil
}

// UpdatePond updates pond owned by user
func (pr *PondRepository) UpdatePond(ctx context.Context, pond models.Pond) error {
	cmd, err := pr.db.Exec(ctx, updatePondQuery, pond.Name, pond.AreaM2, pond.Capacity, pond.StockedAt, pond.Status, pond.ID, pond.UserID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// DeletePond deletes pond owned by user
func (pr *PondRepository) DeletePond(ctx context.Context, id, userID uint64) error {
	cmd, err := pr.db.Exec(ctx, deletePondQuery, id, userID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
