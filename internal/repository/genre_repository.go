package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vidly/vidly-api/internal/model"
)

// GenreRepo provides CRUD operations for genres.
type GenreRepo struct {
	db *sql.DB
}

// NewGenreRepo returns a GenreRepo bound to the given database.
func NewGenreRepo(db *sql.DB) *GenreRepo { return &GenreRepo{db: db} }

// List returns all genres ordered by name ascending.
func (r *GenreRepo) List(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM genres ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	genres := make([]model.Genre, 0)
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// GetByID returns the genre with the given id or ErrNotFound.
func (r *GenreRepo) GetByID(ctx context.Context, id uint64) (*model.Genre, error) {
	var g model.Genre
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM genres WHERE id = ?`, id).
		Scan(&g.ID, &g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create inserts a new genre and populates its generated id.
func (r *GenreRepo) Create(ctx context.Context, g *model.Genre) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO genres (name) VALUES (?)`, g.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// Update replaces the mutable fields of an existing genre. It returns
// ErrNotFound when no genre with the given id exists and never creates
// one.
func (r *GenreRepo) Update(ctx context.Context, g *model.Genre) error {
	if _, err := r.GetByID(ctx, g.ID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `UPDATE genres SET name = ? WHERE id = ?`, g.Name, g.ID)
	return err
}

// Delete removes a genre and returns the removed record so callers can
// see its final state. Returns ErrNotFound when the id is unknown.
func (r *GenreRepo) Delete(ctx context.Context, id uint64) (*model.Genre, error) {
	g, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return g, nil
}
