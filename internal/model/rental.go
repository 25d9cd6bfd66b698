package model

import "time"

// RentalCustomer is the snapshot of a customer embedded in a rental at
// creation time. Later edits to the customer do not change it.
type RentalCustomer struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	IsGold bool   `json:"isGold"`
}

// RentalMovie is the snapshot of the rented movie's identity and
// pricing, embedded in a rental at creation time.
type RentalMovie struct {
	ID              uint64  `json:"id"`
	Title           string  `json:"title"`
	DailyRentalRate float64 `json:"dailyRentalRate"`
}

// Rental records that a customer took one copy of a movie home.
// DateReturned and RentalFee stay unset until the copy comes back.
type Rental struct {
	ID           uint64         `json:"id"`
	Customer     RentalCustomer `json:"customer"`
	Movie        RentalMovie    `json:"movie"`
	DateOut      time.Time      `json:"dateOut"`
	DateReturned *time.Time     `json:"dateReturned,omitempty"`
	RentalFee    *float64       `json:"rentalFee,omitempty"`
}
