package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/vidly/vidly-api/internal/model"
)

// UserRepo provides CRUD operations for users. Emails are normalized
// to lowercase before hitting the unique index so "A@b.c" and "a@b.c"
// are the same account.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062) on the unique email index.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// List returns all users ordered by name ascending.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, password_hash FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetByID returns the user with the given id or ErrNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and populates its generated id. Returns
// ErrEmailExists when the email is already taken.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = NormalizeEmail(u.Email)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash)
	if isDuplicate(err) {
		return ErrEmailExists
	}
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// Update replaces the mutable fields of an existing user. Returns
// ErrNotFound for an unknown id and ErrEmailExists when the new email
// collides with another account.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	if _, err := r.GetByID(ctx, u.ID); err != nil {
		return err
	}
	u.Email = NormalizeEmail(u.Email)
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, password_hash = ? WHERE id = ?`,
		u.Name, u.Email, u.PasswordHash, u.ID)
	if isDuplicate(err) {
		return ErrEmailExists
	}
	return err
}

// Delete removes a user and returns the removed record, or ErrNotFound
// when the id is unknown.
func (r *UserRepo) Delete(ctx context.Context, id uint64) (*model.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return u, nil
}
