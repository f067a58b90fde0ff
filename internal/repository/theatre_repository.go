package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iliyamo/movie-ticketing/internal/model"
)

// TheatreRepo encapsulates all database queries related to theatres.
type TheatreRepo struct {
	db *gorm.DB
}

func NewTheatreRepo(db *gorm.DB) *TheatreRepo {
	return &TheatreRepo{db: db}
}

func withTheatreRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Tickets", orderByID)
}

// List returns every theatre ordered by id with its tickets.
func (r *TheatreRepo) List(ctx context.Context) ([]model.Theatre, error) {
	var out []model.Theatre
	if err := withTheatreRelations(r.db.WithContext(ctx)).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a theatre or returns ErrTheatreNotFound.
func (r *TheatreRepo) GetByID(ctx context.Context, id uint64) (*model.Theatre, error) {
	return getTheatre(withTheatreRelations(r.db.WithContext(ctx)), id)
}

func getTheatre(db *gorm.DB, id uint64) (*model.Theatre, error) {
	var t model.Theatre
	if err := db.First(&t, id).Error; err != nil {
		return nil, notFound(err, ErrTheatreNotFound)
	}
	return &t, nil
}

func (r *TheatreRepo) Create(ctx context.Context, t *model.Theatre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return translate(tx.Omit(clause.Associations).Create(t).Error)
	})
}

// Update applies p to the stored theatre inside one transaction.
func (r *TheatreRepo) Update(ctx context.Context, id uint64, p model.TheatrePatch) (*model.Theatre, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := getTheatre(tx, id)
		if err != nil {
			return err
		}
		if err := t.Apply(p); err != nil {
			return err
		}
		return translate(tx.Omit(clause.Associations).Save(t).Error)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the theatre and every ticket sold for it.
func (r *TheatreRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getTheatre(tx, id); err != nil {
			return err
		}
		if err := tx.Where("theatre_id = ?", id).Delete(&model.Ticket{}).Error; err != nil {
			return err
		}
		return translate(tx.Delete(&model.Theatre{}, id).Error)
	})
}
