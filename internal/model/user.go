package model

// User is an account holder. Only the bcrypt hash of the password is
// stored; the hash is never serialized in responses.
type User struct {
	ID           uint64 `json:"id"`    // users.id
	Name         string `json:"name"`  // users.name
	Email        string `json:"email"` // users.email (unique, lowercased)
	PasswordHash string `json:"-"`     // users.password_hash
}
