package repository

import (
	"context"

	"github.com/ahmdfariiss/nilasense/internal/models"
	"github.com/ahmdfariiss/nilasense/internal/repository/postgres"
)

const (
	insertWaterQualityLogQuery = `
						INSERT INTO water_quality_logs (pond_id, temperature_c, ph, dissolved_oxygen, turbidity, notes)
						VALUES ($1, $2, $3, $4, $5, $6)
						RETURNING id, pond_id, temperature_c, ph, dissolved_oxygen, turbidity, notes, recorded_at
`
	selectWaterQualityLogsByPondIDQuery = `
						SELECT id, pond_id, temperature_c, ph, dissolved_oxygen, turbidity, notes, recorded_at FROM water_quality_logs
						WHERE pond_id = $1
						ORDER BY recorded_at DESC
`
)

// MonitoringRepository implements MonitoringRepository interface
type MonitoringRepository struct {
	db *postgres.DB
}

// NewMonitoringRepository creates new monitoring repository instance
func NewMonitoringRepository(db *postgres.DB) *MonitoringRepository {
	return &MonitoringRepository{db: db}
}

// CreateWaterQualityLog creates new water quality log
func (mr *MonitoringRepository) CreateWaterQualityLog(ctx context.Context, log *models.WaterQualityLog) (*models.WaterQualityLog, error) {
	err := mr.db.QueryRow(ctx, insertWaterQualityLogQuery, log.PondID, log.TemperatureC, log.PH, log.DissolvedOxygen, log.Turbidity, log.Notes).
		Scan(&log.ID, &log.PondID, &log.TemperatureC, &log.PH, &log.DissolvedOxygen, &log.Turbidity, &log.Notes, &log.RecordedAt)
	if err != nil {
		return nil, err
	}

	return log, nil
}

// GetWaterQualityLogsByPondID returns water quality logs, newest first
func (mr *MonitoringRepository) GetWaterQualityLogsByPondID(ctx context.Context, pondID uint64) ([]models.WaterQualityLog, error) {
	rows, err := mr.db.Query(ctx, selectWaterQualityLogsByPondIDQuery, pondID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.WaterQualityLog{}

	for rows.Next() {
		log := models.WaterQualityLog{}
		err = rows.Scan(&log.ID, &log.PondID, &log.TemperatureC, &log.PH, &log.DissolvedOxygen, &log.Turbidity, &log.Notes, &log.RecordedAt)
		if err != nil {
			continue
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}
