// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a missing
// row (404 for the addressed entity, 400 for a dangling reference) and a
// conflict on a unique column (409).
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrMovieNotFound   = errors.New("movie not found")
	ErrTheatreNotFound = errors.New("theatre not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrUserNotFound    = errors.New("user not found")
)

// ErrConflict is returned when a write would violate a unique
// constraint.  ErrUsernameTaken and ErrEmailTaken wrap it.
var ErrConflict = errors.New("conflict")

var (
	ErrUsernameTaken = conflict("Username already exists")
	ErrEmailTaken    = conflict("Email already exists")
)

// ErrReference is returned when a foreign key points at no row.
var ErrReference = errors.New("referenced row does not exist")

type conflictError struct{ msg string }

func conflict(msg string) error          { return &conflictError{msg: msg} }
func (e *conflictError) Error() string   { return e.msg }
func (e *conflictError) Is(t error) bool { return t == ErrConflict }

// translate maps driver failures onto the sentinels above.  gorm already
// translates when TranslateError is set; the MySQL codes are checked as
// well for handles opened without it.
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrReference
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1062:
			return ErrConflict
		case 1451, 1452:
			return ErrReference
		}
	}
	return err
}

// notFound swaps gorm.ErrRecordNotFound for the entity sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
