// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a staff account. Only authenticated staff may edit the catalog or
// view unpublished exhibits.
type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string     `json:"email" gorm:"size:255"`
	FullName     string     `json:"full_name" gorm:"size:255"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	IsStaff      bool       `json:"is_staff" gorm:"not null"`
	IsActive     bool       `json:"is_active" gorm:"not null"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
