package model

import (
	"net/url"
	"time"
)

// ReleaseDateLayout is the only accepted form of Movie.ReleaseDate.
const ReleaseDateLayout = "2006-01-02"

// Movie tags.  The tag is derived once at creation and never recomputed.
const (
	TagUpcoming   = "upcoming"
	TagInTheatres = "in theatres"
)

// Movie represents a row in the `movies` table.  A movie owns the
// tickets sold for it and the reviews written about it; both are removed
// together with the movie.
//
// Fields:
//
//	ID          – primary key identifier.
//	Title       – required, non-empty title.
//	Genre       – free-form genre label.
//	Director    – director name.
//	ReleaseDate – YYYY-MM-DD release date.
//	PosterImage – poster URL.
//	TrailerURL  – http(s) trailer URL, nil when absent or rejected.
//	Tag         – "upcoming" or "in theatres", fixed at creation.
type Movie struct {
	ID          uint64 `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Genre       string
	Director    string
	ReleaseDate string `gorm:"size:10"`
	PosterImage string
	TrailerURL  *string
	Tag         string `gorm:"size:32"`

	Tickets []Ticket `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	Reviews []Review `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
}

// MovieFields carries the values needed to create a movie.
type MovieFields struct {
	Title       string
	Genre       string
	Director    string
	ReleaseDate string
	PosterImage string
	TrailerURL  string
}

// MoviePatch lists the fields a partial update may overwrite.  Nil means
// "leave unchanged".  The tag is intentionally absent.
type MoviePatch struct {
	Title       *string
	Genre       *string
	Director    *string
	ReleaseDate *string
	PosterImage *string
	TrailerURL  *string
}

// NewMovie validates f and builds a movie whose tag is computed against now.
func NewMovie(f MovieFields, now time.Time) (*Movie, error) {
	if err := validateTitle(f.Title); err != nil {
		return nil, err
	}
	if f.ReleaseDate == "" {
		return nil, invalid("release_date", "Release date must be in the format YYYY-MM-DD")
	}
	release, err := parseReleaseDate(f.ReleaseDate)
	if err != nil {
		return nil, err
	}
	return &Movie{
		Title:       f.Title,
		Genre:       f.Genre,
		Director:    f.Director,
		ReleaseDate: f.ReleaseDate,
		PosterImage: f.PosterImage,
		TrailerURL:  SanitizeTrailerURL(f.TrailerURL),
		Tag:         ComputeTag(release, now),
	}, nil
}

// Apply validates every supplied field of p and only then assigns them.
// A failing field leaves m untouched.
func (m *Movie) Apply(p MoviePatch) error {
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.ReleaseDate != nil {
		if _, err := parseReleaseDate(*p.ReleaseDate); err != nil {
			return err
		}
	}

	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Genre != nil {
		m.Genre = *p.Genre
	}
	if p.Director != nil {
		m.Director = *p.Director
	}
	if p.ReleaseDate != nil {
		m.ReleaseDate = *p.ReleaseDate
	}
	if p.PosterImage != nil {
		m.PosterImage = *p.PosterImage
	}
	if p.TrailerURL != nil {
		m.TrailerURL = SanitizeTrailerURL(*p.TrailerURL)
	}
	return nil
}

// ComputeTag compares calendar dates only: a release strictly after today
// is upcoming, anything else is already in theatres.
func ComputeTag(release, now time.Time) string {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(release.Year(), release.Month(), release.Day(), 0, 0, 0, 0, time.UTC)
	if day.After(today) {
		return TagUpcoming
	}
	return TagInTheatres
}

// SanitizeTrailerURL keeps raw only when it parses with an http or https
// scheme.
func SanitizeTrailerURL(raw string) *string {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	switch u.Scheme {
	case "http", "https":
		return &raw
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return invalid("title", "Title must be a non-empty string")
	}
	return nil
}

func parseReleaseDate(s string) (time.Time, error) {
	t, err := time.Parse(ReleaseDateLayout, s)
	if err != nil {
		return time.Time{}, invalid("release_date", "Release date must be in the format YYYY-MM-DD")
	}
	return t, nil
}
