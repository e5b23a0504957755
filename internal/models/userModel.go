package models

import "time"

// User is an authenticated identity. The trading core treats it as an
// opaque input; only the cloud snapshot store keys rows by its ID.
type User struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"not null" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

const (
	UserRoleAdmin = "admin"
	UserRoleUser  = "user"
)
