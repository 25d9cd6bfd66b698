package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vidly/vidly-api/internal/model"
)

// MovieRepo provides CRUD operations for movies plus the conditional
// stock decrement used by the rental workflow.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo returns a MovieRepo bound to the given database.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// List returns all movies ordered by title ascending.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, number_in_stock, daily_rental_rate FROM movies ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.NumberInStock, &m.DailyRentalRate); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// GetByID returns the movie with the given id or ErrNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	var m model.Movie
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, number_in_stock, daily_rental_rate FROM movies WHERE id = ?`, id).
		Scan(&m.ID, &m.Title, &m.NumberInStock, &m.DailyRentalRate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new movie and populates its generated id.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO movies (title, number_in_stock, daily_rental_rate) VALUES (?, ?, ?)`,
		m.Title, m.NumberInStock, m.DailyRentalRate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// Update replaces the mutable fields of an existing movie or returns
// ErrNotFound.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	if _, err := r.GetByID(ctx, m.ID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE movies SET title = ?, number_in_stock = ?, daily_rental_rate = ? WHERE id = ?`,
		m.Title, m.NumberInStock, m.DailyRentalRate, m.ID)
	return err
}

// Delete removes a movie and returns the removed record, or
// ErrNotFound when the id is unknown.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) (*model.Movie, error) {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return m, nil
}

// DecrementStockTx takes one copy of the movie off the shelf inside an
// existing transaction. The WHERE clause re-checks availability at the
// point of mutation, so two concurrent rentals of the last copy cannot
// both succeed and stock can never go negative. Returns ErrOutOfStock
// when no copy is available.
func (r *MovieRepo) DecrementStockTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE movies SET number_in_stock = number_in_stock - 1
		 WHERE id = ? AND number_in_stock > 0`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOutOfStock
	}
	return nil
}
