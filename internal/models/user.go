package models

import (
	"strings"

	"gorm.io/gorm"
)

// User is an account that can authenticate against the backend.
//
// The budget core never sees this type, it works with the opaque
// owner ID the auth middleware provides.
type User struct {
	DefaultModel
	Username     string `json:"username" gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
}

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Username = strings.TrimSpace(u.Username)

	return nil
}
