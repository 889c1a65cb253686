package service

import (
	"context"
	"errors"

	"github.com/ahmdfariiss/nilasense/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is interface for interacting with user-related data
type UserRepository interface {
	// CreateUser inserts new user to database
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByEmail returns user by email
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID returns user by id
	GetUserByID(ctx context.Context, id uint64) (*models.User, error)
}

// UserService implements UserService interface
type UserService struct {
	repo  UserRepository
	token TokenService
}

// NewUserService creates new UserService instance
func NewUserService(repo UserRepository, token TokenService) *UserService {
	return &UserService{
		repo:  repo,
		token: token,
	}
}

// Register creates new user with hashed password
func (us *UserService) Register(ctx context.Context, user *models.User, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)

	if user.Role != models.RoleFarmer {
		user.Role = models.RoleBuyer
	}

	return us.repo.CreateUser(ctx, user)
}

// Login verifies credentials and returns signed token with user
func (us *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := us.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return "", nil, models.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, models.ErrInvalidCredentials
	}

	token, err := us.token.CreateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
