package entity

import (
	"time"
)

// User is the aggregate root for the account domain
// Passwords are stored as bcrypt hashes in PasswordHash; plaintext never
// leaves the registration or reset form handlers.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	UserTypes    []UserType
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasType reports whether the user belongs to the named user type.
func (u *User) HasType(name string) bool {
	for _, t := range u.UserTypes {
		if t.Name == name {
			return true
		}
	}
	return false
}
