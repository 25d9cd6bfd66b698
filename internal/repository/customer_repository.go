package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vidly/vidly-api/internal/model"
)

// CustomerRepo provides CRUD operations for customers.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// List returns all customers ordered by name ascending.
func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, phone, is_gold FROM customers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	customers := make([]model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.IsGold); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// GetByID returns the customer with the given id or ErrNotFound.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	var c model.Customer
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, phone, is_gold FROM customers WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Phone, &c.IsGold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new customer and populates its generated id.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (name, phone, is_gold) VALUES (?, ?, ?)`,
		c.Name, c.Phone, c.IsGold)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Update replaces the mutable fields of an existing customer or
// returns ErrNotFound.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	if _, err := r.GetByID(ctx, c.ID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE customers SET name = ?, phone = ?, is_gold = ? WHERE id = ?`,
		c.Name, c.Phone, c.IsGold, c.ID)
	return err
}

// Delete removes a customer and returns the removed record, or
// ErrNotFound when the id is unknown.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) (*model.Customer, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return c, nil
}
