package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iliyamo/movie-ticketing/internal/model"
)

// UserRepo encapsulates all database queries related to users.
type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func withUserRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Tickets", orderByID).Preload("Reviews", orderByID)
}

// Create inserts u.  Username and email are checked against the stored
// rows first (exact, case-sensitive match); a concurrent signup that slips
// past the check is caught by the unique indexes and reported the same
// way.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, u); err != nil {
			return err
		}
		return translate(tx.Omit(clause.Associations).Create(u).Error)
	})
	if errors.Is(err, ErrConflict) && !errors.Is(err, ErrUsernameTaken) && !errors.Is(err, ErrEmailTaken) {
		// Lost the race: find out which column collided.
		if uerr := checkUnique(r.db.WithContext(ctx), u); uerr != nil {
			return uerr
		}
	}
	return err
}

func checkUnique(db *gorm.DB, u *model.User) error {
	taken, err := exists(db, "username", u.Username)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}
	taken, err = exists(db, "email", u.Email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	return nil
}

func exists(db *gorm.DB, column, value string) (bool, error) {
	var n int64
	if err := db.Model(&model.User{}).Where(column+" = ?", value).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := withUserRelations(r.db.WithContext(ctx)).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &u, nil
}

// GetByID fetches a user by id with tickets and reviews.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	if err := withUserRelations(r.db.WithContext(ctx)).First(&u, id).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &u, nil
}

// Delete removes the user together with their tickets and reviews.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, id); err != nil {
			if errors.Is(err, ErrReference) {
				return ErrUserNotFound
			}
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Ticket{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		return translate(tx.Delete(&model.User{}, id).Error)
	})
}
