package service

import (
	"context"

	"github.com/ssteja698/colony-events/internal/model"
)

// UserService handles user bootstrap and profile lookups
type UserService struct {
	userRepo UserRepository
}

// UserServiceConfig holds configuration for the user service
type UserServiceConfig struct {
	UserRepo UserRepository
}

// NewUserService creates a new user service
func NewUserService(cfg UserServiceConfig) *UserService {
	return &UserService{userRepo: cfg.UserRepo}
}

// EnsureUser creates the user document on first authenticated request
// and refreshes the profile fields on later calls. The groups and
// interests sets default to empty, never absent.
func (s *UserService) EnsureUser(ctx context.Context, userID string, req *model.EnsureUserRequest) (*model.User, error) {
	user := &model.User{
		ID:    userID,
		Name:  req.Name,
		Email: req.Email,
	}
	if err := s.userRepo.Ensure(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by id
func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
