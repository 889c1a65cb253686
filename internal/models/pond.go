package models

import "time"

// pond status
const (
	PondStatusActive      = "active"
	PondStatusMaintenance = "maintenance"
	PondStatusHarvested   = "harvested"
)

// Pond is tilapia pond entity, owned by a farmer
type Pond struct {
	ID        uint64
	UserID    uint64
	Name      string
	AreaM2    float64
	Capacity  int32
	StockedAt *time.Time
	Status    string
	CreatedAt time.Time
}

// WaterQualityLog is a single water quality measurement for a pond
type WaterQualityLog struct {
	ID              uint64
	PondID          uint64
	TemperatureC    float64
	PH              float64
	DissolvedOxygen float64
	Turbidity       float64
	Notes           string
	RecordedAt      time.Time
}

// FeedSchedule is a recurring feeding entry for a pond
type FeedSchedule struct {
	ID        uint64
	PondID    uint64
	FeedType  string
	AmountKg  float64
	FeedTime  string
	Frequency string
	Active    bool
	CreatedAt time.Time
}
