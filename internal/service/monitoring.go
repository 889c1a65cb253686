package service

import (
	"context"

	"github.com/ahmdfariiss/nilasense/internal/models"
)

// MonitoringRepository is interface for interacting with water quality data
type MonitoringRepository interface {
	// CreateWaterQualityLog creates new water quality log
	CreateWaterQualityLog(ctx context.Context, log *models.WaterQualityLog) (*models.WaterQualityLog, error)
	// GetWaterQualityLogsByPondID returns water quality logs, newest first
	GetWaterQualityLogsByPondID(ctx context.Context, pondID uint64) ([]models.WaterQualityLog, error)
}

// pondGetter resolves pond ownership for monitoring and feed operations
type pondGetter interface {
	GetPondByID(ctx context.Context, id uint64) (*models.Pond, error)
}

// MonitoringService implements MonitoringService interface
type MonitoringService struct {
	repo  MonitoringRepository
	ponds pondGetter
}

// NewMonitoringService creates new MonitoringService instance
func NewMonitoringService(repo MonitoringRepository, ponds pondGetter) *MonitoringService {
	return &MonitoringService{
		repo:  repo,
		ponds: ponds,
	}
}

func checkPondOwner(ctx context.Context, ponds pondGetter, pondID, userID uint64) error {
	pond, err := ponds.GetPondByID(ctx, pondID)
	if err != nil {
		return err
	}
	if pond.UserID != userID {
		return models.ErrDataNotFound
	}
	return nil
}

// AddLog records water quality measurement for pond owned by user
func (ms *MonitoringService) AddLog(ctx context.Context, log *models.WaterQualityLog, userID uint64) (*models.WaterQualityLog, error) {
	if err := checkPondOwner(ctx, ms.ponds, log.PondID, userID); err != nil {
		return nil, err
	}
	return ms.repo.CreateWaterQualityLog(ctx, log)
}

// ListLogs returns water quality logs for pond owned by user
func (ms *MonitoringService) ListLogs(ctx context.Context, pondID, userID uint64) ([]models.WaterQualityLog, error) {
	if err := checkPondOwner(ctx, ms.ponds, pondID, userID); err != nil {
		return nil, err
	}
	return ms.repo.GetWaterQualityLogsByPondID(ctx, pondID)
}
