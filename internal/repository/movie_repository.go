// Package repository contains data access logic separated from HTTP handlers.
// Every mutation runs in a single transaction: either all of its writes
// commit or none do.
package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iliyamo/movie-ticketing/internal/model"
)

// MovieRepo encapsulates all database queries related to movies.
type MovieRepo struct {
	db *gorm.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *gorm.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// withRelations preloads what the movie view projects: ticket quantities
// and review ratings/comments.
func withMovieRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Tickets", orderByID).Preload("Reviews", orderByID)
}

func orderByID(db *gorm.DB) *gorm.DB { return db.Order("id") }

// List returns every movie ordered by id with its tickets and reviews.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	var out []model.Movie
	if err := withMovieRelations(r.db.WithContext(ctx)).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a movie with its relations or returns ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	return getMovie(withMovieRelations(r.db.WithContext(ctx)), id)
}

func getMovie(db *gorm.DB, id uint64) (*model.Movie, error) {
	var m model.Movie
	if err := db.First(&m, id).Error; err != nil {
		return nil, notFound(err, ErrMovieNotFound)
	}
	return &m, nil
}

// Create inserts m.  On success m.ID holds the generated key.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return translate(tx.Omit(clause.Associations).Create(m).Error)
	})
}

// Update loads the movie, applies p through the model validators and saves
// the result.  A validation failure aborts the transaction with nothing
// written.
func (r *MovieRepo) Update(ctx context.Context, id uint64, p model.MoviePatch) (*model.Movie, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := getMovie(tx, id)
		if err != nil {
			return err
		}
		if err := m.Apply(p); err != nil {
			return err
		}
		return translate(tx.Omit(clause.Associations).Save(m).Error)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the movie together with its tickets and reviews.  The
// children are deleted explicitly so the cascade holds even on stores that
// do not enforce ON DELETE CASCADE.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getMovie(tx, id); err != nil {
			return err
		}
		if err := tx.Where("movie_id = ?", id).Delete(&model.Ticket{}).Error; err != nil {
			return err
		}
		if err := tx.Where("movie_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		return translate(tx.Delete(&model.Movie{}, id).Error)
	})
}
