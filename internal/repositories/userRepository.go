package repositories

import (
	"errors"

	"AstroTradeBot/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create adds a new User record to the database
func (r *UserRepository) Create(user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}
	return r.db.Create(user).Error
}

// FindByEmail retrieves a User record by email, nil if none exists
func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	if email == "" {
		return nil, errors.New("invalid email")
	}
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

// FindByID retrieves a User record by its ID, nil if none exists
func (r *UserRepository) FindByID(id string) (*models.User, error) {
	if id == "" {
		return nil, errors.New("invalid id")
	}
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

// FindAll retrieves all User records
func (r *UserRepository) FindAll() ([]models.User, error) {
	var users []models.User
	err := r.db.Find(&users).Error
	return users, err
}

// UpdatePassword sets a new password for the given user
func (r *UserRepository) UpdatePassword(id, newPassword string) error {
	if id == "" {
		return errors.New("invalid id")
	}
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("password", newPassword).Error
}
