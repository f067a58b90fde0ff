package model

import (
	"go/format"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var today = time.Date(2024, 6, 15, 13, 0, 0, 0, time.UTC)

func movieFields() MovieFields {
	return MovieFields{
		Title:       "Dune",
		Genre:       "Sci-Fi",
		Director:    "Denis Villeneuve",
		ReleaseDate: "2024-03-01",
		PosterImage: "https://img/dune.jpg",
		TrailerURL:  "https://youtu.be/dune",
	}
}

func TestNewMovieTag(t *testing.T) {
	cases := []struct {
		release string
		want    string
	}{
		{"2024-03-01", TagInTheatres},
		{"2024-06-15", TagInTheatres},
		{"2024-06-16", TagUpcoming},
		{"2030-01-01", TagUpcoming},
	}
	for _, tc := range cases {
		f := movieFields()
		f.ReleaseDate = tc.release
		m, err := NewMovie(f, today)
		require.NoError(t, err, tc.release)
		assert.Equal(t, tc.want, m.Tag, tc.release)
	}
}

func TestNewMovieRejects(t *testing.T) {
	f := movieFields()
	f.Title = ""
	_, err := NewMovie(f, today)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, "Title must be a non-empty string", err.Error())

	for _, bad := range []string{"", "01/03/2024", "2024-13-01", "2024-3-1"} {
		f = movieFields()
		f.ReleaseDate = bad
		_, err = NewMovie(f, today)
		assert.Error(t, err, bad)
	}
}

func TestSanitizeTrailerURL(t *testing.T) {
	assert.Nil(t, SanitizeTrailerURL(""))
	assert.Nil(t, SanitizeTrailerURL("ftp://host/x"))
	assert.Nil(t, SanitizeTrailerURL("not a url"))
	assert.Nil(t, SanitizeTrailerURL("javascript:alert(1)"))
	got := SanitizeTrailerURL("http://example.com/t")
	require.NotNil(t, got)
	assert.Equal(t, "http://example.com/t", *got)
}

func TestMovieApplyKeepsTag(t *testing.T) {
	m, err := NewMovie(movieFields(), today)
	require.NoError(t, err)
	require.Equal(t, TagInTheatres, m.Tag)

	future := "2031-01-01"
	genre := "Drama"
	require.NoError(t, m.Apply(MoviePatch{ReleaseDate: &future, Genre: &genre}))
	assert.Equal(t, future, m.ReleaseDate)
	assert.Equal(t, "Drama", m.Genre)
	assert.Equal(t, TagInTheatres, m.Tag)
}

func TestMovieApplyAllOrNothing(t *testing.T) {
	m, err := NewMovie(movieFields(), today)
	require.NoError(t, err)

	director := "Someone Else"
	bad := "yesterday"
	err = m.Apply(MoviePatch{Director: &director, ReleaseDate: &bad})
	require.Error(t, err)
	assert.Equal(t, "Denis Villeneuve", m.Director)
	assert.Equal(t, "2024-03-01", m.ReleaseDate)
}

func TestTheatreValidators(t *testing.T) {
	_, err := NewTheatre(TheatreFields{Name: "", Location: "Mall", Capacity: 10})
	assert.EqualError(t, err, "Name of theatre must be provided")
	_, err = NewTheatre(TheatreFields{Name: "Prestige", Location: "", Capacity: 10})
	assert.EqualError(t, err, "Location of theatre must be provided")
	for _, c := range []int{0, -5} {
		_, err = NewTheatre(TheatreFields{Name: "Prestige", Location: "Mall", Capacity: c})
		assert.EqualError(t, err, "Capacity must be a positive integer")
	}

	th, err := NewTheatre(TheatreFields{Name: "Prestige", Location: "Mall", Capacity: 80})
	require.NoError(t, err)
	zero := 0
	assert.Error(t, th.Apply(TheatrePatch{Capacity: &zero}))
	assert.Equal(t, 80, th.Capacity)
}

func TestReviewRatingBounds(t *testing.T) {
	for _, r := range []int{0, 3, 5} {
		_, err := NewReview(ReviewFields{Rating: r, Comment: "ok", UserID: 1, MovieID: 1}, today)
		assert.NoError(t, err, r)
	}
	for _, r := range []int{-1, 6} {
		_, err := NewReview(ReviewFields{Rating: r, Comment: "ok", UserID: 1, MovieID: 1}, today)
		assert.Error(t, err, r)
	}
}

func TestReviewSubmissionDateDefaultsToNow(t *testing.T) {
	r, err := NewReview(ReviewFields{Rating: 4, Comment: "", UserID: 1, MovieID: 2}, today)
	require.NoError(t, err)
	assert.True(t, r.SubmissionDate.Equal(today))
	assert.Equal(t, "", r.Comment)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r, err = NewReview(ReviewFields{Rating: 4, UserID: 1, MovieID: 2, SubmittedAt: at}, today)
	require.NoError(t, err)
	assert.True(t, r.SubmissionDate.Equal(at))
}

func TestReviewRequiresReferences(t *testing.T) {
	_, err := NewReview(ReviewFields{Rating: 4, MovieID: 2}, today)
	assert.Error(t, err)
	_, err = NewReview(ReviewFields{Rating: 4, UserID: 1}, today)
	assert.Error(t, err)
}

func TestTicketValidators(t *testing.T) {
	base := TicketFields{Quantity: 2, Price: 10.5, UserID: 1, MovieID: 1, TheatreID: 1}
	_, err := NewTicket(base)
	require.NoError(t, err)

	f := base
	f.Quantity = 0
	_, err = NewTicket(f)
	assert.EqualError(t, err, "Quantity must be greater than zero.")

	f = base
	f.Price = -1
	_, err = NewTicket(f)
	assert.EqualError(t, err, "Price must be greater than zero.")
}

func TestTicketApplyRepointsRelations(t *testing.T) {
	tk, err := NewTicket(TicketFields{Quantity: 1, Price: 5, UserID: 1, MovieID: 1, TheatreID: 1})
	require.NoError(t, err)
	tk.Movie = &Movie{ID: 1}

	movie := uint64(9)
	price := 7.25
	require.NoError(t, tk.Apply(TicketPatch{MovieID: &movie, Price: &price}))
	assert.Equal(t, uint64(9), tk.MovieID)
	assert.Nil(t, tk.Movie)
	assert.Equal(t, 7.25, tk.Price)
	assert.Equal(t, 1, tk.Quantity)
}

func TestUserPasswordWriteOnly(t *testing.T) {
	u, err := NewUser("amina", "amina@example.com", "s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", u.PasswordHash)

	_, err = u.Password()
	assert.ErrorIs(t, err, ErrPasswordWriteOnly)

	assert.True(t, u.Authenticate("s3cret"))
	assert.False(t, u.Authenticate("S3cret"))
	assert.False(t, u.Authenticate(""))
}

func TestNewUserRequiresFields(t *testing.T) {
	_, err := NewUser("", "a@b.c", "pw", bcrypt.MinCost)
	assert.True(t, IsValidation(err))
	_, err = NewUser("a", "", "pw", bcrypt.MinCost)
	assert.True(t, IsValidation(err))
	_, err = NewUser("a", "a@b.c", "", bcrypt.MinCost)
	assert.True(t, IsValidation(err))
}

func TestDocListsAreFormatted(t *testing.T) {
	for _, name := range []string{"movie.go", "ticket.go"} {
		src, err := os.ReadFile(name)
		require.NoError(t, err)
		out, err := format.Source(src)
		require.NoError(t, err)
		assert.Equal(t, string(src), string(out), name)
	}
}
