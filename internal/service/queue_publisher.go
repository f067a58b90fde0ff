// Package service publishes domain events to RabbitMQ.  Errors are logged
// and returned so callers can ignore them without interrupting the main
// request flow.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/go-hclog"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/movie-ticketing/internal/model"
	q "github.com/iliyamo/movie-ticketing/internal/queue"
)

// TicketPublisher publishes ticket.purchased events.  A connection is
// dialed per publish; purchases are rare enough that pooling is not worth
// the reconnect handling.
type TicketPublisher struct {
	URL string
	Log hclog.Logger
}

func NewTicketPublisher(url string, log hclog.Logger) *TicketPublisher {
	return &TicketPublisher{URL: url, Log: log}
}

// EventFromTicket builds the event for t.  Relations that were not loaded
// leave their name fields empty.
func EventFromTicket(t *model.Ticket, now time.Time) q.TicketPurchasedEvent {
	ev := q.TicketPurchasedEvent{
		TicketID:     t.ID,
		UserID:       t.UserID,
		MovieID:      t.MovieID,
		TheatreID:    t.TheatreID,
		Screen:       t.Screen,
		Showtime:     t.Showtime,
		Quantity:     t.Quantity,
		Price:        t.Price,
		PurchaseDate: t.PurchaseDate,
		PublishedAt:  now.UTC().Format(time.RFC3339),
	}
	if t.User != nil {
		ev.Username = t.User.Username
	}
	if t.Movie != nil {
		ev.MovieTitle = t.Movie.Title
	}
	if t.Theatre != nil {
		ev.TheatreName = t.Theatre.Name
	}
	return ev
}

// PublishTicketPurchased sends a persistent message for t to the
// ticket.purchased queue.
func (p *TicketPublisher) PublishTicketPurchased(ctx context.Context, t *model.Ticket) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.Log.Warn("dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Warn("channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(q.TicketQueueName, true, false, false, false, nil); err != nil {
		p.Log.Warn("queue declare failed", "error", err)
		return err
	}

	body, err := json.Marshal(EventFromTicket(t, time.Now()))
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.TicketQueueName, false, false, pub); err != nil {
		p.Log.Warn("publish failed", "error", err, "ticket_id", t.ID)
		return err
	}
	return nil
}
