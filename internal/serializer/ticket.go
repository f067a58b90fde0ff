package serializer

import "github.com/iliyamo/movie-ticketing/internal/model"

// TicketView is the flat ticket document returned by POST and PATCH.
type TicketView struct {
	ID           uint64  `json:"id"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	PurchaseDate string  `json:"purchase_date"`
	Showtime     string  `json:"showtime"`
	Screen       int     `json:"screen"`
	UserID       uint64  `json:"user_id"`
	MovieID      uint64  `json:"movie_id"`
	TheatreID    uint64  `json:"theatre_id"`
}

// TicketDetail is the nested shape used by the list and detail responses.
type TicketDetail struct {
	ID           uint64     `json:"id"`
	Price        float64    `json:"price"`
	PurchaseDate string     `json:"purchase_date"`
	Screen       int        `json:"screen"`
	Quantity     int        `json:"quantity"`
	Showtime     string     `json:"showtime"`
	User         UserRef    `json:"user"`
	Movie        MovieRef   `json:"movie"`
	Theatre      TheatreRef `json:"theatre"`
}

func Ticket(t *model.Ticket) TicketView {
	return TicketView{
		ID:           t.ID,
		Quantity:     t.Quantity,
		Price:        t.Price,
		PurchaseDate: t.PurchaseDate,
		Showtime:     t.Showtime,
		Screen:       t.Screen,
		UserID:       t.UserID,
		MovieID:      t.MovieID,
		TheatreID:    t.TheatreID,
	}
}

func TicketWithRelations(t *model.Ticket) TicketDetail {
	return TicketDetail{
		ID:           t.ID,
		Price:        t.Price,
		PurchaseDate: t.PurchaseDate,
		Screen:       t.Screen,
		Quantity:     t.Quantity,
		Showtime:     t.Showtime,
		User:         userRef(t.User),
		Movie:        movieRef(t.Movie),
		Theatre:      theatreRef(t.Theatre),
	}
}

func TicketsWithRelations(ts []model.Ticket) []TicketDetail {
	out := make([]TicketDetail, 0, len(ts))
	for i := range ts {
		out = append(out, TicketWithRelations(&ts[i]))
	}
	return out
}
