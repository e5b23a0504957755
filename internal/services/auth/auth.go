package auth

import (
	"errors"
	"fmt"

	"AstroTradeBot/internal/models"
	"AstroTradeBot/internal/repositories"

	"github.com/google/uuid"
)

// Service supplies {id, email, role} identities. The trading core treats
// these as opaque input; the cloud snapshot store keys rows by the user id.
type Service struct {
	users *repositories.UserRepository
}

func NewService(users *repositories.UserRepository) (*Service, error) {
	s := &Service{users: users}
	if err := s.seedAdmin(); err != nil {
		return nil, err
	}
	return s, nil
}

// seedAdmin creates the default admin account if it does not exist yet.
func (s *Service) seedAdmin() error {
	existing, err := s.users.FindByEmail("admin")
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if existing != nil {
		return nil
	}
	return s.users.Create(&models.User{
		ID:       uuid.NewString(),
		Email:    "admin",
		Password: "123456",
		Role:     models.UserRoleAdmin,
	})
}

// Login checks credentials and returns the user without its password.
func (s *Service) Login(email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password != password {
		return nil, errors.New("invalid email or password")
	}
	return sanitize(user), nil
}

// SignUp registers a new user and logs it in.
func (s *Service) SignUp(email, password string) (*models.User, error) {
	existing, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("user already exists")
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: password,
		Role:     models.UserRoleUser,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return sanitize(user), nil
}

// ChangePassword verifies the current password and stores the new one.
func (s *Service) ChangePassword(id, oldPassword, newPassword string) error {
	if newPassword == "" {
		return errors.New("new password is required")
	}
	user, err := s.users.FindByID(id)
	if err != nil {
		return err
	}
	if user == nil || user.Password != oldPassword {
		return errors.New("invalid credentials")
	}
	return s.users.UpdatePassword(id, newPassword)
}

// Users lists all accounts with passwords stripped.
func (s *Service) Users() ([]models.User, error) {
	users, err := s.users.FindAll()
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func sanitize(user *models.User) *models.User {
	safe := *user
	safe.Password = ""
	return &safe
}
