package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/iliyamo/movie-ticketing/internal/model"
)

// requireRow fails with ErrReference (and the entity sentinel) when no row
// of the given model has id.  It runs on tx so the check and the write
// share one transaction.
func requireRow(tx *gorm.DB, m interface{}, id uint64, sentinel error) error {
	var n int64
	if err := tx.Model(m).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %w", ErrReference, sentinel)
	}
	return nil
}

func requireUser(tx *gorm.DB, id uint64) error {
	return requireRow(tx, &model.User{}, id, ErrUserNotFound)
}

func requireMovie(tx *gorm.DB, id uint64) error {
	return requireRow(tx, &model.Movie{}, id, ErrMovieNotFound)
}

func requireTheatre(tx *gorm.DB, id uint64) error {
	return requireRow(tx, &model.Theatre{}, id, ErrTheatreNotFound)
}
