// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// RentalCreatedEvent is published after a rental is committed. It
// carries the denormalized snapshot so downstream consumers can log or
// notify without querying the primary database.
type RentalCreatedEvent struct {
	RentalID        uint64  `json:"rental_id"`
	CustomerID      uint64  `json:"customer_id"`
	CustomerName    string  `json:"customer_name"`
	MovieID         uint64  `json:"movie_id"`
	MovieTitle      string  `json:"movie_title"`
	DailyRentalRate float64 `json:"daily_rental_rate"`
	DateOut         string  `json:"date_out"`
}
