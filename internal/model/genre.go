// Package model defines the persistent entities of the rental service.
// Each struct mirrors a table; json tags define the wire shape used by
// the handlers.
package model

// Genre is a movie category such as "Horror" or "Comedy".
type Genre struct {
	ID   uint64 `json:"id"`   // genres.id
	Name string `json:"name"` // genres.name
}
