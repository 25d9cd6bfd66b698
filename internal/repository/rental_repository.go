package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vidly/vidly-api/internal/model"
)

// RentalRepo persists rentals and owns the rental-creation workflow.
// A rental embeds denormalized snapshots of its customer and movie, so
// historical rentals are immune to later edits of either.
type RentalRepo struct {
	db     *sql.DB
	movies *MovieRepo
}

// NewRentalRepo returns a RentalRepo bound to the given database. The
// movie repository supplies the conditional stock decrement.
func NewRentalRepo(db *sql.DB, movies *MovieRepo) *RentalRepo {
	return &RentalRepo{db: db, movies: movies}
}

const rentalColumns = `id, customer_id, customer_name, customer_phone, customer_is_gold,
	movie_id, movie_title, movie_daily_rental_rate, date_out, date_returned, rental_fee`

// Rent runs the whole rental-creation workflow in one transaction:
// resolve the customer and movie, take one copy off the shelf with a
// conditional decrement, and insert the rental with both snapshots.
// Because decrement and insert share the transaction, neither can
// apply without the other. Failure modes map to ErrInvalidCustomer,
// ErrInvalidMovie and ErrOutOfStock.
func (r *RentalRepo) Rent(ctx context.Context, customerID, movieID uint64) (*model.Rental, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var c model.Customer
	err = tx.QueryRowContext(ctx,
		`SELECT id, name, phone, is_gold FROM customers WHERE id = ?`, customerID).
		Scan(&c.ID, &c.Name, &c.Phone, &c.IsGold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCustomer
	}
	if err != nil {
		return nil, err
	}

	var m model.Movie
	err = tx.QueryRowContext(ctx,
		`SELECT id, title, number_in_stock, daily_rental_rate FROM movies WHERE id = ?`, movieID).
		Scan(&m.ID, &m.Title, &m.NumberInStock, &m.DailyRentalRate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidMovie
	}
	if err != nil {
		return nil, err
	}

	if err := r.movies.DecrementStockTx(ctx, tx, movieID); err != nil {
		return nil, err
	}

	rental := &model.Rental{
		Customer: model.RentalCustomer{ID: c.ID, Name: c.Name, Phone: c.Phone, IsGold: c.IsGold},
		Movie:    model.RentalMovie{ID: m.ID, Title: m.Title, DailyRentalRate: m.DailyRentalRate},
		DateOut:  time.Now().UTC().Truncate(time.Second),
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO rentals (customer_id, customer_name, customer_phone, customer_is_gold,
		   movie_id, movie_title, movie_daily_rental_rate, date_out)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Phone, c.IsGold, m.ID, m.Title, m.DailyRentalRate, rental.DateOut)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	rental.ID = uint64(id)

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return rental, nil
}

// List returns all rentals, newest first.
func (r *RentalRepo) List(ctx context.Context) ([]model.Rental, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+rentalColumns+` FROM rentals ORDER BY date_out DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rentals := make([]model.Rental, 0)
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rental)
	}
	return rentals, rows.Err()
}

// GetByID returns the rental with the given id or ErrNotFound.
func (r *RentalRepo) GetByID(ctx context.Context, id uint64) (*model.Rental, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE id = ?`, id)
	rental, err := scanRental(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rental, nil
}

// Update sets the return fields of an existing rental. The embedded
// snapshots are immutable and movie stock is deliberately left alone;
// returns do not restock today. Returns ErrNotFound for an unknown id.
func (r *RentalRepo) Update(ctx context.Context, id uint64, dateReturned *time.Time, rentalFee *float64) (*model.Rental, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE rentals SET date_returned = ?, rental_fee = ? WHERE id = ?`,
		dateReturned, rentalFee, id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a rental and returns the removed record, or
// ErrNotFound when the id is unknown. Stock is not re-adjusted.
func (r *RentalRepo) Delete(ctx context.Context, id uint64) (*model.Rental, error) {
	rental, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM rentals WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return rental, nil
}

// scanRental reads one rental row from either *sql.Row or *sql.Rows.
func scanRental(row interface{ Scan(...interface{}) error }) (*model.Rental, error) {
	var rental model.Rental
	var returned sql.NullTime
	var fee sql.NullFloat64
	err := row.Scan(
		&rental.ID,
		&rental.Customer.ID, &rental.Customer.Name, &rental.Customer.Phone, &rental.Customer.IsGold,
		&rental.Movie.ID, &rental.Movie.Title, &rental.Movie.DailyRentalRate,
		&rental.DateOut, &returned, &fee,
	)
	if err != nil {
		return nil, err
	}
	if returned.Valid {
		t := returned.Time.UTC()
		rental.DateReturned = &t
	}
	if fee.Valid {
		f := fee.Float64
		rental.RentalFee = &f
	}
	return &rental, nil
}
