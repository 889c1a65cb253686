package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ahmdfariiss/nilasense/internal/models"
)

type MonitoringService interface {
	// AddLog records water quality measurement for pond owned by user
	AddLog(ctx context.Context, log *models.WaterQualityLog, userID uint64) (*models.WaterQualityLog, error)
	// ListLogs returns water quality logs for pond owned by user
	ListLogs(ctx context.Context, pondID, userID uint64) ([]models.WaterQualityLog, error)
}

// MonitoringHandler represents HTTP handler for water quality requests
type MonitoringHandler struct {
	svc MonitoringService
}

// NewMonitoringHandler creates new MonitoringHandler instance
func NewMonitoringHandler(svc MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{svc: svc}
}

type waterQualityRequest struct {
	TemperatureC    float64 `json:"temperature_c" validate:"required"`
	PH              float64 `json:"ph" validate:"required,gte=0,lte=14"`
	DissolvedOxygen float64 `json:"dissolved_oxygen" validate:"gte=0"`
	Turbidity       float64 `json:"turbidity" validate:"gte=0"`
	Notes           string  `json:"notes"`
}

type waterQualityResponse struct {
	ID              uint64  `json:"id"`
	PondID          uint64  `json:"pond_id"`
	TemperatureC    float64 `json:"temperature_c"`
	PH              float64 `json:"ph"`
	DissolvedOxygen float64 `json:"dissolved_oxygen"`
	Turbidity       float64 `json:"turbidity"`
	Notes           string  `json:"notes,omitempty"`
	RecordedAt      string  `json:"recorded_at"`
}

func newWaterQualityResponse(log *models.WaterQualityLog) waterQualityResponse {
	return waterQualityResponse{
		ID:              log.ID,
		PondID:          log.PondID,
		TemperatureC:    log.TemperatureC,
		PH:              log.PH,
		DissolvedOxygen: log.DissolvedOxygen,
		Turbidity:       log.Turbidity,
		Notes:           log.Notes,
		RecordedAt:      log.RecordedAt.Format(time.RFC3339),
	}
}

// AddWaterQualityLog records new water quality measurement
// 200 — measurement has been recorded
// 400 — bad request format
// 401 — user is not authenticated
// 404 — pond not found
// 500 — internal server error
func (mh *MonitoringHandler) AddWaterQualityLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		pondID, err := idParam(r, "pondID")
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		var req waterQualityRequest
		if err := decodeValid(r, &req); err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		log := models.WaterQualityLog{
			PondID:          pondID,
			TemperatureC:    req.TemperatureC,
			PH:              req.PH,
			DissolvedOxygen: req.DissolvedOxygen,
			Turbidity:       req.Turbidity,
			Notes:           req.Notes,
		}

		created, err := mh.svc.AddLog(r.Context(), &log, payload.UserID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				respondMessage(w, http.StatusNotFound, "pond not found")
				return
			}
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondJSON(w, http.StatusOK, newWaterQualityResponse(created))
	}
}

// ListWaterQualityLogs returns water quality history for pond
// 200 — successful request
// 401 — user is not authenticated
// 404 — pond not found
// 500 — internal server error
func (mh *MonitoringHandler) ListWaterQualityLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		pondID, err := idParam(r, "pondID")
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		logs, err := mh.svc.ListLogs(r.Context(), pondID, payload.UserID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				respondMessage(w, http.StatusNotFound, "pond not found")
				return
			}
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := make([]waterQualityResponse, 0, len(logs))
		for i := range logs {
			resp = append(resp, newWaterQualityResponse(&logs[i]))
		}

		respondJSON(w, http.StatusOK, resp)
	}
}
