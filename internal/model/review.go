package model

import "time"

// Rating bounds, inclusive.
const (
	MinRating = 0
	MaxRating = 5
)

// Review represents a row in the `reviews` table.  Every review belongs
// to exactly one user and one movie.
type Review struct {
	ID             uint64    `gorm:"primaryKey"`
	Rating         int       `gorm:"not null"`
	Comment        string    `gorm:"not null"`
	SubmissionDate time.Time `gorm:"not null"`
	UserID         uint64    `gorm:"not null;index"`
	MovieID        uint64    `gorm:"not null;index"`

	User  *User
	Movie *Movie
}

// ReviewFields carries the values needed to create a review.  A zero
// SubmittedAt defaults to the creation instant.
type ReviewFields struct {
	Rating      int
	Comment     string
	UserID      uint64
	MovieID     uint64
	SubmittedAt time.Time
}

// ReviewPatch lists the fields a partial update may overwrite.
type ReviewPatch struct {
	Rating  *int
	Comment *string
}

// NewReview validates f and returns the review to insert.  now is used
// when f carries no submission date.
func NewReview(f ReviewFields, now time.Time) (*Review, error) {
	if err := validateRating(f.Rating); err != nil {
		return nil, err
	}
	if f.UserID == 0 {
		return nil, invalid("user_id", "Review must reference a user")
	}
	if f.MovieID == 0 {
		return nil, invalid("movie_id", "Review must reference a movie")
	}
	submitted := f.SubmittedAt
	if submitted.IsZero() {
		submitted = now
	}
	return &Review{
		Rating:         f.Rating,
		Comment:        f.Comment,
		SubmissionDate: submitted.UTC(),
		UserID:         f.UserID,
		MovieID:        f.MovieID,
	}, nil
}

// Apply validates the supplied fields of p, then assigns them.
func (r *Review) Apply(p ReviewPatch) error {
	if p.Rating != nil {
		if err := validateRating(*p.Rating); err != nil {
			return err
		}
	}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	if p.Comment != nil {
		r.Comment = *p.Comment
	}
	return nil
}

func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return invalid("rating", "Rating must be a non-empty int with a positive value less than 5")
	}
	return nil
}
