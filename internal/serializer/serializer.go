// Package serializer renders entities as allow-listed JSON documents.
// Each view names exactly the fields a client may see; relationship lists
// are flattened into read-only projections computed from preloaded rows,
// so nothing here can recurse back into its parent or leak a password
// hash.
package serializer

import "github.com/iliyamo/movie-ticketing/internal/model"

// SubmissionDateLayout renders Review.SubmissionDate.
const SubmissionDateLayout = "2006-01-02 15:04:05"

// project maps rows through f and never returns nil, so empty relations
// render as [] rather than null.
func project[T any, V any](rows []T, f func(T) V) []V {
	out := make([]V, 0, len(rows))
	for _, r := range rows {
		out = append(out, f(r))
	}
	return out
}

func ticketQuantity(t model.Ticket) int        { return t.Quantity }
func ticketPrice(t model.Ticket) float64       { return t.Price }
func ticketPurchaseDate(t model.Ticket) string { return t.PurchaseDate }
func ticketShowtime(t model.Ticket) string     { return t.Showtime }
func ticketScreen(t model.Ticket) int          { return t.Screen }
func reviewRating(r model.Review) int          { return r.Rating }
func reviewComment(r model.Review) string      { return r.Comment }
