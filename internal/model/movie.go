package model

// Movie is a rentable title. NumberInStock counts the physical copies
// currently available and must never go negative; the rental workflow
// decrements it with a conditional update so concurrent rentals cannot
// overdraw it.
type Movie struct {
	ID              uint64  `json:"id"`              // movies.id
	Title           string  `json:"title"`           // movies.title
	NumberInStock   int     `json:"numberInStock"`   // movies.number_in_stock
	DailyRentalRate float64 `json:"dailyRentalRate"` // movies.daily_rental_rate
}
