package repository

import (
	"context"
	"errors"

	"github.com/ahmdfariiss/nilasense/internal/models"
	"github.com/ahmdfariiss/nilasense/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	insertFeedScheduleQuery = `
						INSERT INTO feed_schedules (pond_id, feed_type, amount_kg, feed_time, frequency, active)
						VALUES ($1, $2, $3, $4, $5, $6)
						RETURNING id, pond_id, feed_type, amount_kg, feed_time, frequency, active, created_at
`
	selectFeedSchedulesByPondIDQuery = `
						SELECT id, pond_id, feed_type, amount_kg, feed_time, frequency, active, created_at FROM feed_schedules
						WHERE pond_id = $1
						ORDER BY feed_time
`
	selectFeedScheduleByIDQuery = `
						SELECT fs.id, fs.pond_id, fs.feed_type, fs.amount_kg, fs.feed_time, fs.frequency, fs.active, fs.created_at
						FROM feed_schedules fs
						JOIN ponds p ON p.id = fs.pond_id
						WHERE fs.id = $1 AND p.user_id = $2
`
	updateFeedScheduleQuery = `
						UPDATE feed_schedules fs
						SET feed_type = $1, amount_kg = $2, feed_time = $3, frequency = $4, active = $5
						FROM ponds p
						WHERE fs.id = $6 AND p.id = fs.pond_id AND p.user_id = $7
`
	deleteFeedScheduleQuery = `
						DELETE FROM feed_schedules fs
						USING ponds p
						WHERE fs.id = $1 AND p.id = fs.pond_id AND p.user_id = $2
`
)

// FeedRepository implements FeedRepository interface
type FeedRepository struct {
	db *postgres.DB
}

// NewFeedRepository creates new FeedRepository instance
func NewFeedRepository(db *postgres.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// CreateFeedSchedule inserts new feed schedule
func (fr *FeedRepository) CreateFeedSchedule(ctx context.Context, fs *models.FeedSchedule) (*models.FeedSchedule, error) {
	err := fr.db.QueryRow(ctx, insertFeedScheduleQuery, fs.PondID, fs.FeedType, fs.AmountKg, fs.FeedTime, fs.Frequency, fs.Active).
		Scan(&fs.ID, &fs.PondID, &fs.FeedType, &fs.AmountKg, &fs.FeedTime, &fs.Frequency, &fs.Active, &fs.CreatedAt)
	if err != nil {
		return nil, err
	}

	return fs, nil
}

// GetFeedSchedulesByPondID returns feed schedules for pond ordered by feed time
func (fr *FeedRepository) GetFeedSchedulesByPondID(ctx context.Context, pondID uint64) ([]models.FeedSchedule, error) {
	rows, err := fr.db.Query(ctx, selectFeedSchedulesByPondIDQuery, pondID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := []models.FeedSchedule{}

	for rows.Next() {
		fs := models.FeedSchedule{}
		err = rows.Scan(&fs.ID, &fs.PondID, &fs.FeedType, &fs.AmountKg, &fs.FeedTime, &fs.Frequency, &fs.Active, &fs.CreatedAt)
		if err != nil {
			continue
		}
		schedules = append(schedules, fs)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// GetFeedScheduleByID returns schedule by id when its pond is owned by user
func (fr *FeedRepository) GetFeedScheduleByID(ctx context.Context, id, userID uint64) (*models.FeedSchedule, error) {
	fs := models.FeedSchedule{}
	err := fr.db.QueryRow(ctx, selectFeedScheduleByIDQuery, id, userID).
		Scan(&fs.ID, &fs.PondID, &fs.FeedType, &fs.AmountKg, &fs.FeedTime, &fs.Frequency, &fs.Active, &fs.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &fs, nil
}

// UpdateFeedSchedule updates schedule when its pond is owned by user
func (fr *FeedRepository) UpdateFeedSchedule(ctx context.Context, fs models.FeedSchedule, userID uint64) error {
	cmd, err := fr.db.Exec(ctx, updateFeedScheduleQuery, fs.FeedType, fs.AmountKg, fs.FeedTime, fs.Frequency, fs.Active, fs.ID, userID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// DeleteFeedSchedule deletes schedule when its pond is owned by user
func (fr *FeedRepository) DeleteFeedSchedule(ctx context.Context, id, userID uint64) error {
	cmd, err := fr.db.Exec(ctx, deleteFeedScheduleQuery, id, userID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
