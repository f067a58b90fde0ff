package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iliyamo/movie-ticketing/internal/model"
)

// TicketRepo encapsulates all database queries related to tickets.
type TicketRepo struct {
	db *gorm.DB
}

func NewTicketRepo(db *gorm.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

func withTicketRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Movie").Preload("Theatre")
}

// List returns every ticket ordered by id with its user, movie and
// theatre.
func (r *TicketRepo) List(ctx context.Context) ([]model.Ticket, error) {
	var out []model.Ticket
	if err := withTicketRelations(r.db.WithContext(ctx)).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a ticket with its relations or returns ErrTicketNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	return getTicket(withTicketRelations(r.db.WithContext(ctx)), id)
}

func getTicket(db *gorm.DB, id uint64) (*model.Ticket, error) {
	var t model.Ticket
	if err := db.First(&t, id).Error; err != nil {
		return nil, notFound(err, ErrTicketNotFound)
	}
	return &t, nil
}

func requireTicketRefs(tx *gorm.DB, t *model.Ticket) error {
	if err := requireUser(tx, t.UserID); err != nil {
		return err
	}
	if err := requireMovie(tx, t.MovieID); err != nil {
		return err
	}
	return requireTheatre(tx, t.TheatreID)
}

// Create inserts t after checking its three references, then reloads it
// with its relations.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireTicketRefs(tx, t); err != nil {
			return err
		}
		return translate(tx.Omit(clause.Associations).Create(t).Error)
	})
	if err != nil {
		return err
	}
	loaded, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *loaded
	return nil
}

// Update applies p to the stored ticket.  A patch may re-point the ticket
// at another user, movie or theatre; the new references are checked in
// the same transaction.
func (r *TicketRepo) Update(ctx context.Context, id uint64, p model.TicketPatch) (*model.Ticket, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := getTicket(tx, id)
		if err != nil {
			return err
		}
		if err := t.Apply(p); err != nil {
			return err
		}
		if p.UserID != nil || p.MovieID != nil || p.TheatreID != nil {
			if err := requireTicketRefs(tx, t); err != nil {
				return err
			}
		}
		return translate(tx.Omit(clause.Associations).Save(t).Error)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getTicket(tx, id); err != nil {
			return err
		}
		return translate(tx.Delete(&model.Ticket{}, id).Error)
	})
}
