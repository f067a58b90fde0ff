package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iliyamo/movie-ticketing/internal/model"
)

// ReviewRepo encapsulates all database queries related to reviews.
type ReviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// withReviewRelations loads the user and movie rendered in review detail
// responses.
func withReviewRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Movie")
}

// List returns every review ordered by id with its user and movie.
func (r *ReviewRepo) List(ctx context.Context) ([]model.Review, error) {
	var out []model.Review
	if err := withReviewRelations(r.db.WithContext(ctx)).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a review with its user and movie or returns
// ErrReviewNotFound.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	return getReview(withReviewRelations(r.db.WithContext(ctx)), id)
}

func getReview(db *gorm.DB, id uint64) (*model.Review, error) {
	var rv model.Review
	if err := db.First(&rv, id).Error; err != nil {
		return nil, notFound(err, ErrReviewNotFound)
	}
	return &rv, nil
}

// Create inserts rv after checking that its user and movie exist, then
// reloads it with both relations.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, rv.UserID); err != nil {
			return err
		}
		if err := requireMovie(tx, rv.MovieID); err != nil {
			return err
		}
		return translate(tx.Omit(clause.Associations).Create(rv).Error)
	})
	if err != nil {
		return err
	}
	loaded, err := r.GetByID(ctx, rv.ID)
	if err != nil {
		return err
	}
	*rv = *loaded
	return nil
}

// Update applies p to the stored review inside one transaction.
func (r *ReviewRepo) Update(ctx context.Context, id uint64, p model.ReviewPatch) (*model.Review, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rv, err := getReview(tx, id)
		if err != nil {
			return err
		}
		if err := rv.Apply(p); err != nil {
			return err
		}
		return translate(tx.Omit(clause.Associations).Save(rv).Error)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getReview(tx, id); err != nil {
			return err
		}
		return translate(tx.Delete(&model.Review{}, id).Error)
	})
}
