package model

// Ticket represents a row in the `tickets` table: a purchase of Quantity
// seats by a user for a movie showing at a theatre.
//
// Fields:
//
//	ID           – primary key identifier.
//	Quantity     – number of seats, always positive.
//	Price        – price paid, always positive.
//	PurchaseDate – purchase timestamp as supplied by the client.
//	Showtime     – showtime as supplied by the client.
//	Screen       – screen number inside the theatre.
//	UserID       – buyer (users.id).
//	MovieID      – movie (movies.id).
//	TheatreID    – theatre (theaters.id).
type Ticket struct {
	ID           uint64  `gorm:"primaryKey"`
	Quantity     int     `gorm:"not null"`
	Price        float64 `gorm:"not null"`
	PurchaseDate string  `gorm:"not null"`
	Showtime     string  `gorm:"not null"`
	Screen       int     `gorm:"not null"`
	UserID       uint64  `gorm:"not null;index"`
	MovieID      uint64  `gorm:"not null;index"`
	TheatreID    uint64  `gorm:"not null;index"`

	User    *User
	Movie   *Movie
	Theatre *Theatre
}

// TicketFields carries the values needed to create a ticket.
type TicketFields struct {
	Quantity     int
	Price        float64
	PurchaseDate string
	Showtime     string
	Screen       int
	UserID       uint64
	MovieID      uint64
	TheatreID    uint64
}

// TicketPatch lists the fields a partial update may overwrite.
type TicketPatch struct {
	Quantity     *int
	Price        *float64
	PurchaseDate *string
	Showtime     *string
	Screen       *int
	UserID       *uint64
	MovieID      *uint64
	TheatreID    *uint64
}

// NewTicket validates f and returns the ticket to insert.  Existence of
// the referenced rows is checked by the repository inside its transaction.
func NewTicket(f TicketFields) (*Ticket, error) {
	if err := validateQuantity(f.Quantity); err != nil {
		return nil, err
	}
	if err := validatePrice(f.Price); err != nil {
		return nil, err
	}
	return &Ticket{
		Quantity:     f.Quantity,
		Price:        f.Price,
		PurchaseDate: f.PurchaseDate,
		Showtime:     f.Showtime,
		Screen:       f.Screen,
		UserID:       f.UserID,
		MovieID:      f.MovieID,
		TheatreID:    f.TheatreID,
	}, nil
}

// Apply validates the supplied fields of p, then assigns them.
func (t *Ticket) Apply(p TicketPatch) error {
	if p.Quantity != nil {
		if err := validateQuantity(*p.Quantity); err != nil {
			return err
		}
	}
	if p.Price != nil {
		if err := validatePrice(*p.Price); err != nil {
			return err
		}
	}

	if p.Quantity != nil {
		t.Quantity = *p.Quantity
	}
	if p.Price != nil {
		t.Price = *p.Price
	}
	if p.PurchaseDate != nil {
		t.PurchaseDate = *p.PurchaseDate
	}
	if p.Showtime != nil {
		t.Showtime = *p.Showtime
	}
	if p.Screen != nil {
		t.Screen = *p.Screen
	}
	if p.UserID != nil {
		t.UserID = *p.UserID
		t.User = nil
	}
	if p.MovieID != nil {
		t.MovieID = *p.MovieID
		t.Movie = nil
	}
	if p.TheatreID != nil {
		t.TheatreID = *p.TheatreID
		t.Theatre = nil
	}
	return nil
}

func validateQuantity(q int) error {
	if q <= 0 {
		return invalid("quantity", "Quantity must be greater than zero.")
	}
	return nil
}

func validatePrice(p float64) error {
	if p <= 0 {
		return invalid("price", "Price must be greater than zero.")
	}
	return nil
}
