package serializer

import "github.com/iliyamo/movie-ticketing/internal/model"

// MovieView is the allow-listed movie document.
type MovieView struct {
	ID              uint64   `json:"id"`
	Title           string   `json:"title"`
	Genre           string   `json:"genre"`
	Director        string   `json:"director"`
	ReleaseDate     string   `json:"release_date"`
	PosterImage     string   `json:"poster_image"`
	TrailerURL      *string  `json:"trailer_url"`
	Tag             string   `json:"tag"`
	ReviewRatings   []int    `json:"review_ratings"`
	ReviewComments  []string `json:"review_comments"`
	TicketsQuantity []int    `json:"tickets_quantity"`
}

// MovieRef is the reduced movie nested inside review and ticket details.
type MovieRef struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Director    string `json:"director"`
	ReleaseDate string `json:"release_date"`
}

// Movie renders m.  Tickets and Reviews must be preloaded for the
// projections to be populated.
func Movie(m *model.Movie) MovieView {
	return MovieView{
		ID:              m.ID,
		Title:           m.Title,
		Genre:           m.Genre,
		Director:        m.Director,
		ReleaseDate:     m.ReleaseDate,
		PosterImage:     m.PosterImage,
		TrailerURL:      m.TrailerURL,
		Tag:             m.Tag,
		ReviewRatings:   project(m.Reviews, reviewRating),
		ReviewComments:  project(m.Reviews, reviewComment),
		TicketsQuantity: project(m.Tickets, ticketQuantity),
	}
}

func Movies(ms []model.Movie) []MovieView {
	out := make([]MovieView, 0, len(ms))
	for i := range ms {
		out = append(out, Movie(&ms[i]))
	}
	return out
}

func movieRef(m *model.Movie) MovieRef {
	if m == nil {
		return MovieRef{}
	}
	return MovieRef{ID: m.ID, Title: m.Title, Genre: m.Genre, Director: m.Director, ReleaseDate: m.ReleaseDate}
}
