package serializer

import "github.com/iliyamo/movie-ticketing/internal/model"

// ReviewView is the flat review document returned by PATCH.
type ReviewView struct {
	ID             uint64 `json:"id"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment"`
	SubmissionDate string `json:"submission_date"`
	UserID         uint64 `json:"user_id"`
	MovieID        uint64 `json:"movie_id"`
}

// ReviewDetail is the nested shape used by the list, detail and create
// responses.
type ReviewDetail struct {
	ID      uint64   `json:"id"`
	Comment string   `json:"comment"`
	Rating  int      `json:"rating"`
	User    UserRef  `json:"user"`
	Movie   MovieRef `json:"movie"`
}

func Review(r *model.Review) ReviewView {
	return ReviewView{
		ID:             r.ID,
		Rating:         r.Rating,
		Comment:        r.Comment,
		SubmissionDate: r.SubmissionDate.UTC().Format(SubmissionDateLayout),
		UserID:         r.UserID,
		MovieID:        r.MovieID,
	}
}

// ReviewWithRelations renders r with its user and movie, which must be
// preloaded.
func ReviewWithRelations(r *model.Review) ReviewDetail {
	return ReviewDetail{
		ID:      r.ID,
		Comment: r.Comment,
		Rating:  r.Rating,
		User:    userRef(r.User),
		Movie:   movieRef(r.Movie),
	}
}

func ReviewsWithRelations(rs []model.Review) []ReviewDetail {
	out := make([]ReviewDetail, 0, len(rs))
	for i := range rs {
		out = append(out, ReviewWithRelations(&rs[i]))
	}
	return out
}
