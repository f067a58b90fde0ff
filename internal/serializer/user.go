package serializer

import "github.com/iliyamo/movie-ticketing/internal/model"

// UserView is the allow-listed user document.  The password hash has no
// field here on purpose.
type UserView struct {
	ID                  uint64    `json:"id"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	ReviewRatings       []int     `json:"review_ratings"`
	ReviewComments      []string  `json:"review_comments"`
	TicketQuantities    []int     `json:"ticket_quantities"`
	TicketPrices        []float64 `json:"ticket_prices"`
	TicketPurchaseDates []string  `json:"ticket_purchase_dates"`
	TicketShowtimes     []string  `json:"ticket_showtimes"`
	TicketScreens       []int     `json:"ticket_screens"`
}

// UserRef is the reduced user nested inside review and ticket details.
type UserRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func User(u *model.User) UserView {
	return UserView{
		ID:                  u.ID,
		Username:            u.Username,
		Email:               u.Email,
		ReviewRatings:       project(u.Reviews, reviewRating),
		ReviewComments:      project(u.Reviews, reviewComment),
		TicketQuantities:    project(u.Tickets, ticketQuantity),
		TicketPrices:        project(u.Tickets, ticketPrice),
		TicketPurchaseDates: project(u.Tickets, ticketPurchaseDate),
		TicketShowtimes:     project(u.Tickets, ticketShowtime),
		TicketScreens:       project(u.Tickets, ticketScreen),
	}
}

func userRef(u *model.User) UserRef {
	if u == nil {
		return UserRef{}
	}
	return UserRef{ID: u.ID, Name: u.Username}
}
