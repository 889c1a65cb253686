package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/ahmdfariiss/nilasense/internal/models"
)

type FeedService interface {
	// Create creates feed schedule for pond owned by user
	Create(ctx context.Context, schedule *models.FeedSchedule, userID uint64) (*models.FeedSchedule, error)
	// List returns feed schedules for pond owned by user
	List(ctx context.Context, pondID, userID uint64) ([]models.FeedSchedule, error)
	// Update updates feed schedule owned by user
	Update(ctx context.Context, schedule models.FeedSchedule, userID uint64) error
	// Delete deletes feed schedule owned by user
	Delete(ctx context.Context, id, userID uint64) error
}

// FeedHandler represents HTTP handler for feed schedule requests
type FeedHandler struct {
	svc FeedService
}

// NewFeedHandler creates new FeedHandler instance
func NewFeedHandler(svc FeedService) *FeedHandler {
	return &FeedHandler{svc: svc}
}

type feedScheduleRequest struct {
	FeedType  string  `json:"feed_type" validate:"required"`
	AmountKg  float64 `json:"amount_kg" validate:"required,gt=0"`
	FeedTime  string  `json:"feed_time" validate:"required"`
	Frequency string  `json:"frequency" validate:"omitempty,oneof=daily weekly"`
	Active    bool    `json:"active"`
}

type feedScheduleResponse struct {
	ID        uint64  `json:"id"`
	PondID    uint64  `json:"pond_id"`
	FeedType  string  `json:"feed_type"`
	AmountKg  float64 `json:"amount_kg"`
	FeedTime  string  `json:"feed_time"`
	Frequency string  `json:"frequency"`
	Active    bool    `json:"active"`
}

func newFeedScheduleResponse(fs *models.FeedSchedule) feedScheduleResponse {
	return feedScheduleResponse{
		ID:        fs.ID,
		PondID:    fs.PondID,
		FeedType:  fs.FeedType,
		AmountKg:  fs.AmountKg,
		FeedTime:  fs.FeedTime,
		Frequency: fs.Frequency,
		Active:    fs.Active,
	}
}

// CreateFeedSchedule creates new feed schedule for pond
// 200 — schedule has been created
// 400 — bad request format
// 401 — user is not authenticated
// 404 — pond not found
// 500 — internal server error
func (fh *FeedHandler) CreateFeedSchedule() http.HandlerFunc {
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

		var req feedScheduleRequest
		if err := decodeValid(r, &req); err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		schedule := models.FeedSchedule{
			PondID:    pondID,
			FeedType:  req.FeedType,
			AmountKg:  req.AmountKg,
			FeedTime:  req.FeedTime,
			Frequency: req.Frequency,
			Active:    req.Active,
		}

		created, err := fh.svc.Create(r.Context(), &schedule, payload.UserID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				respondMessage(w, http.StatusNotFound, "pond not found")
				return
			}
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondJSON(w, http.StatusOK, newFeedScheduleResponse(created))
	}
}

// ListFeedSchedules returns feed schedules for pond
// 200 — successful request
// 401 — user is not authenticated
// 404 — pond not found
// 500 — internal server error
func (fh *FeedHandler) ListFeedSchedules() http.HandlerFunc {
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

		schedules, err := fh.svc.List(r.Context(), pondID, payload.UserID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				respondMessage(w, http.StatusNotFound, "pond not found")
				return
			}
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := make([]feedScheduleResponse, 0, len(schedules))
		for i := range schedules {
			resp = append(resp, newFeedScheduleResponse(&schedules[i]))
		}

		respondJSON(w, http.StatusOK, resp)
	}
}

// UpdateFeedSchedule updates feed schedule
// 200 — schedule has been updated
// 400 — bad request format
// 401 — user is not authenticated
// 404 — schedule not found
// 500 — internal server error
func (fh *FeedHandler) UpdateFeedSchedule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, err := idParam(r, "feedID")
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		var req feedScheduleRequest
		if err := decodeValid(r, &req); err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		schedule := models.FeedSchedule{
			ID:        id,
			FeedType:  req.FeedType,
			AmountKg:  req.AmountKg,
			FeedTime:  req.FeedTime,
			Frequency: req.Frequency,
			Active:    req.Active,
		}

		if err := fh.svc.Update(r.Context(), schedule, payload.UserID); err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				respondMessage(w, http.StatusNotFound, "feed schedule not found")
				return
			}
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondMessage(w, http.StatusOK, "feed schedule updated")
	}
}

// DeleteFeedSchedule deletes feed schedule
// 200 — schedule has been deleted
// 401 — user is not authenticated
// 404 — schedule not found
// 500 — internal server error
func (fh *FeedHandler) DeleteFeedSchedule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, err := idParam(r, "feedID")
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		if err := fh.svc.Delete(r.Context(), id, payload.UserID); err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				respondMessage(w, http.StatusNotFound, "feed schedule not found")
				return
			}
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondMessage(w, http.StatusOK, "feed schedule deleted")
	}
}
