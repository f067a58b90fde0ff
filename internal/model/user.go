package model

import (
	"errors"

	"github.com/iliyamo/movie-ticketing/internal/utils"
)

// ErrPasswordWriteOnly is returned by every attempt to read a password.
var ErrPasswordWriteOnly = errors.New("password hashes may not be viewed")

// User represents a row in the `users` table.  Username and email are
// globally unique; the repository pre-checks them and the unique indexes
// catch concurrent signups.  Only the bcrypt hash of the password is
// stored.
type User struct {
	ID           uint64 `gorm:"primaryKey"`
	Username     string `gorm:"size:191;not null;uniqueIndex"`
	Email        string `gorm:"size:191;not null;uniqueIndex"`
	PasswordHash string `gorm:"column:password_hash"`

	Tickets []Ticket `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Reviews []Review `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// NewUser validates the identity fields and hashes password with the
// given bcrypt cost.
func NewUser(username, email, password string, cost int) (*User, error) {
	if username == "" {
		return nil, invalid("username", "Username must be provided")
	}
	if email == "" {
		return nil, invalid("email", "Email must be provided")
	}
	u := &User{Username: username, Email: email}
	if err := u.SetPassword(password, cost); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces the stored hash with a bcrypt hash of the UTF-8
// bytes of plain.
func (u *User) SetPassword(plain string, cost int) error {
	if plain == "" {
		return invalid("password", "Password must be provided")
	}
	hash, err := utils.HashPassword(plain, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// Password always fails: the password is write-only.
func (u *User) Password() (string, error) {
	return "", ErrPasswordWriteOnly
}

// Authenticate reports whether plain matches the stored hash.
func (u *User) Authenticate(plain string) bool {
	return utils.VerifyPassword(u.PasswordHash, plain)
}
