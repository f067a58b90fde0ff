// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketQueueName is the durable queue ticket purchases are published to.
const TicketQueueName = "ticket.purchased"

// TicketPurchasedEvent is published after a ticket is committed.  It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type TicketPurchasedEvent struct {
	TicketID     uint64  `json:"ticket_id"`
	UserID       uint64  `json:"user_id"`
	Username     string  `json:"username"`
	MovieID      uint64  `json:"movie_id"`
	MovieTitle   string  `json:"movie_title"`
	TheatreID    uint64  `json:"theatre_id"`
	TheatreName  string  `json:"theatre_name"`
	Screen       int     `json:"screen"`
	Showtime     string  `json:"showtime"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	PurchaseDate string  `json:"purchase_date"`
	PublishedAt  string  `json:"published_at"`
}
