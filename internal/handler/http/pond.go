package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ahmdfariiss/nilasense/internal/models"
)

type PondService interface {
	// Create creates new pond for user
	Create(ctx context.Context, pond *models.Pond) (*models.Pond, error)
	// ListUserPonds returns ponds owned by user
	ListUserPonds(ctx context.Context, userID uint64) ([]models.Pond, error)
	// GetUserPond returns pond by id when owned by user
	GetUserPond(ctx context.Context, id, userID uint64) (*models.Pond, error)
	// Update updates pond owned by user
	Update(ctx context.Context, pond models.Pond) error
	// Delete deletes pond owned by user
	Delete(ctx context.Context, id, userID uint64) error
}

// PondHandler represents HTTP handler for pond-related requests
type PondHandler struct {
	svc PondService
}

// NewPondHandler creates new PondHandler instance
func NewPondHandler(svc PondService) *PondHandler {
	return &PondHandler{svc: svc}
}

type pondRequest struct {
	Name      string     `json:"name" validate:"required"`
	AreaM2    float64    `json:"area_m2" validate:"gte=0"`
	Capacity  int32      `json:"capacity" validate:"gte=0"`
	StockedAt *time.Time `json:"stocked_at"`
	Status    string     `json:"status" validate:"omitempty,oneof=active maintenance harvested"`
}

type pondResponse struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	AreaM2    float64    `json:"area_m2"`
	Capacity  int32      `json:"capacity"`
	StockedAt *time.Time `json:"stocked_at,omitempty"`
	Status    string     `json:"status"`
	CreatedAt string     `json:"created_at"`
}

func newPondResponse(pond *models.Pond) pondResponse {
	return pondResponse{
		ID:        pond.ID,
		Name:      pond.Name,
		AreaM2:    pond.AreaM2,
		Capacity:  pond.Capacity,
		StockedAt: pond.StockedAt,
		Status:    pond.Status,
		CreatedAt: pond.CreatedAt.Format(time.RFC3339),
	}
}

// CreatePond creates new pond
// 200 — pond has been created
// 400 — bad request format
// 401 — user is not authenticated
// 500 — internal server error
func (ph *PondHandler) CreatePond() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req pondRequest
		if err := decodeValid(r, &req); err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		pond := models.Pond{
			UserID:    payload.UserID,
			Name:      req.Name,
			AreaM2:    req.AreaM2,
			Capacity:  req.Capacity,
			StockedAt: req.StockedAt,
			Status:    req.Status,
		}

		created, err := ph.svc.Create(r.Context(), &pond)
		if err != nil {
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondJSON(w, http.StatusOK, newPondResponse(created))
	}
}

// ListPonds returns ponds owned by user
// 200 — successful request
// 401 — user is not authenticated
// 500 — internal server error
func (ph *PondHandler) ListPonds() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ponds, err := ph.svc.ListUserPonds(r.Context(), payload.UserID)
		if err != nil {
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := make([]pondResponse, 0, len(ponds))
		for i := range ponds {
			resp = append(resp, newPondResponse(&ponds[i]))
		}

		respondJSON(w, http.StatusOK, resp)
	}
}

// GetPond returns single pond owned by user
// 200 — successful request
// 401 — user is not authenticated
// 404 — pond not found
// 500 — internal server error
func (ph *PondHandler) GetPond() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, err := idParam(r, "pondID")
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		pond, err := ph.svc.GetUserPond(r.Context(), id, payload.UserID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				respondMessage(w, http.StatusNotFound, "pond not found")
				return
			}
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondJSON(w, http.StatusOK, newPondResponse(pond))
	}
}

// UpdatePond updates pond owned by user
// 200 — pond has been updated
// 400 — bad request format
// 401 — user is not authenticated
// 404 — pond not found
// 500 — internal server error
func (ph *PondHandler) UpdatePond() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, err := idParam(r, "pondID")
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		var req pondRequest
		if err := decodeValid(r, &req); err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		pond := models.Pond{
			ID:        id,
			UserID:    payload.UserID,
			Name:      req.Name,
			AreaM2:    req.AreaM2,
			Capacity:  req.Capacity,
			StockedAt: req.StockedAt,
			Status:    req.Status,
		}

		if err := ph.svc.Update(r.Context(), pond); err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				respondMessage(w, http.StatusNotFound, "pond not found")
				return
			}
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondMessage(w, http.StatusOK, "pond updated")
	}
}

// DeletePond deletes pond owned by user
// 200 — pond has been deleted
// 401 — user is not authenticated
// 404 — pond not found
// 500 — internal server error
func (ph *PondHandler) DeletePond() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, err := idParam(r, "pondID")
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		if err := ph.svc.Delete(r.Context(), id, payload.UserID); err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				respondMessage(w, http.StatusNotFound, "pond not found")
				return
			}
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondMessage(w, http.StatusOK, "pond deleted")
	}
}
