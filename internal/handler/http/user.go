package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ahmdfariiss/nilasense/internal/models"
)

type UserService interface {
	// Register creates new user with hashed password
	Register(ctx context.Context, user *models.User, password string) (*models.User, error)
	// Login verifies credentials and returns signed token with user
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

// UserHandler represents HTTP handler for auth-related requests
type UserHandler struct {
	svc UserService
}

// NewUserHandler creates new UserHandler instance
func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=farmer buyer"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type userResponse struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"created_at"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Phone:     user.Phone,
		Address:   user.Address,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

// RegisterUser registers new user
// 200 — user has been registered
// 400 — bad request format
// 409 — email is already taken
// 500 — internal server error
func (uh *UserHandler) RegisterUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeValid(r, &req); err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		user := models.User{
			Name:    req.Name,
			Email:   req.Email,
			Role:    req.Role,
			Phone:   req.Phone,
			Address: req.Address,
		}

		created, err := uh.svc.Register(r.Context(), &user, req.Password)
		if err != nil {
			if errors.Is(err, models.ErrConflictData) {
				respondMessage(w, http.StatusConflict, "email is already registered")
				return
			}
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondJSON(w, http.StatusOK, newUserResponse(created))
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// LoginUser authenticates user and returns bearer token
// 200 — user has been authenticated
// 400 — bad request format
// 401 — invalid email or password
// 500 — internal server error
func (uh *UserHandler) LoginUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeValid(r, &req); err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		token, user, err := uh.svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, models.ErrInvalidCredentials) {
				respondMessage(w, http.StatusUnauthorized, "invalid email or password")
				return
			}
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondJSON(w, http.StatusOK, loginResponse{
			Token: token,
			User:  newUserResponse(user),
		})
	}
}
