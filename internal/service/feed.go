package service

import (
	"context"

	"github.com/ahmdfariiss/nilasense/internal/models"
)

// FeedRepository is interface for interacting with feed schedule data
type FeedRepository interface {
	// CreateFeedSchedule inserts new feed schedule
	CreateFeedSchedule(ctx context.Context, fs *models.FeedSchedule) (*models.FeedSchedule, error)
	// GetFeedSchedulesByPondID returns feed schedules for pond
	GetFeedSchedulesByPondID(ctx context.Context, pondID uint64) ([]models.FeedSchedule, error)
	// GetFeedScheduleByID returns schedule by id when its pond is owned by user
	GetFeedScheduleByID(ctx context.Context, id, userID uint64) (*models.FeedSchedule, error)
	// UpdateFeedSchedule updates schedule when its pond is owned by user
	UpdateFeedSchedule(ctx context.Context, fs models.FeedSchedule, userID uint64) error
	// DeleteFeedSchedule deletes schedule when its pond is owned by user
	DeleteFeedSchedule(ctx context.Context, id, userID uint64) error
}

// FeedService implements FeedService interface
type FeedService struct {
	repo  FeedRepository
	ponds pondGetter
}

// NewFeedService creates new FeedService instance
func NewFeedService(repo FeedRepository, ponds pondGetter) *FeedService {
	return &FeedService{
		repo:  repo,
		ponds: ponds,
	}
}

// Create creates feed schedule for pond owned by user
func (fs *FeedService) Create(ctx context.Context, schedule *models.FeedSchedule, userID uint64) (*models.FeedSchedule, error) {
	if err := checkPondOwner(ctx, fs.ponds, schedule.PondID, userID); err != nil {
		return nil, err
	}
	if schedule.Frequency == "" {
		schedule.Frequency = "daily"
	}
	return fs.repo.CreateFeedSchedule(ctx, schedule)
}

// List returns feed schedules for pond owned by user
func (fs *FeedService) List(ctx context.Context, pondID, userID uint64) ([]models.FeedSchedule, error) {
	if err := checkPondOwner(ctx, fs.ponds, pondID, userID); err != nil {
		return nil, err
	}
	return fs.repo.GetFeedSchedulesByPondID(ctx, pondID)
}

// Update updates feed schedule owned by user
func (fs *FeedService) Update(ctx context.Context, schedule models.FeedSchedule, userID uint64) error {
	return fs.repo.UpdateFeedSchedule(ctx, schedule, userID)
}

// Delete deletes feed schedule owned by user
func (fs *FeedService) Delete(ctx context.Context, id, userID uint64) error {
	return fs.repo.DeleteFeedSchedule(ctx, id, userID)
}
