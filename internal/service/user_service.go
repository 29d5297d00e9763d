package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"teamcollab-api/internal/model"
	"teamcollab-api/internal/repository"
)

type UserService interface {
	Register(username, email, password string) (*model.User, error)
	Login(email, password string) (*model.User, error)
	GetByID(id uint) (*model.User, error)
	List() ([]model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Register creates a member account. A client-supplied role is ignored:
// self-registration never produces an admin.
func (s *userService) Register(username, email, password string) (*model.User, error) {
	exists, err := s.userRepo.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: password,
		Role:     model.RoleMember,
		Status:   model.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *userService) Login(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.Password != password {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) GetByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List() ([]model.User, error) {
	return s.userRepo.List()
}
