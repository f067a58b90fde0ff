package serializer

import "github.com/iliyamo/movie-ticketing/internal/model"

type TheatreView struct {
	ID              uint64   `json:"id"`
	Name            string   `json:"name"`
	Location        string   `json:"location"`
	Capacity        int      `json:"capacity"`
	TicketShowtimes []string `json:"ticket_showtimes"`
	TicketScreens   []int    `json:"ticket_screens"`
}

// TheatreRef is the reduced theatre nested inside ticket details.
type TheatreRef struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
}

func Theatre(t *model.Theatre) TheatreView {
	return TheatreView{
		ID:              t.ID,
		Name:            t.Name,
		Location:        t.Location,
		Capacity:        t.Capacity,
		TicketShowtimes: project(t.Tickets, ticketShowtime),
		TicketScreens:   project(t.Tickets, ticketScreen),
	}
}

func Theatres(ts []model.Theatre) []TheatreView {
	out := make([]TheatreView, 0, len(ts))
	for i := range ts {
		out = append(out, Theatre(&ts[i]))
	}
	return out
}

func theatreRef(t *model.Theatre) TheatreRef {
	if t == nil {
		return TheatreRef{}
	}
	return TheatreRef{ID: t.ID, Name: t.Name, Location: t.Location, Capacity: t.Capacity}
}
