package model

// Customer is a person who can rent movies. Gold customers may receive
// preferential treatment in the future; today the flag is only stored.
type Customer struct {
	ID     uint64 `json:"id"`     // customers.id
	Name   string `json:"name"`   // customers.name
	Phone  string `json:"phone"`  // customers.phone
	IsGold bool   `json:"isGold"` // customers.is_gold
}
