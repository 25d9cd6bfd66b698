package validate

// Schemas for every entity payload accepted by the API. Bounds follow
// the domain rules: short human names, stock limited to 255 copies per
// title, bcrypt's 72-byte input cap is far below the password maximum
// so the hash layer never truncates silently.

// Genre validates genre create/update payloads.
var Genre = Schema{
	{Name: "name", Type: String, Required: true, Min: 4, Max: 50},
}

// Customer validates customer create/update payloads.
var Customer = Schema{
	{Name: "name", Type: String, Required: true, Min: 4, Max: 20},
	{Name: "phone", Type: String, Required: true, Min: 4, Max: 10},
	{Name: "isGold", Type: Boolean},
}

// Movie validates movie create/update payloads.
var Movie = Schema{
	{Name: "title", Type: String, Required: true, Min: 5, Max: 255},
	{Name: "numberInStock", Type: Number, Required: true, Min: 0, Max: 255, Integer: true},
	{Name: "dailyRentalRate", Type: Number, Required: true, Min: 0, Max: 255},
}

// User validates user create/update payloads. The password bound
// applies to the plain text; only its hash is stored.
var User = Schema{
	{Name: "name", Type: String, Required: true, Min: 5, Max: 50},
	{Name: "email", Type: String, Required: true, Min: 5, Max: 255},
	{Name: "password", Type: String, Required: true, Min: 5, Max: 1024},
}

// RentalCreate validates the rental creation payload, which carries
// only the two references; everything else is snapshotted server-side.
var RentalCreate = Schema{
	{Name: "customerId", Type: ID, Required: true},
	{Name: "movieId", Type: ID, Required: true},
}

// RentalUpdate validates rental updates. Only the return fields are
// mutable; the embedded snapshots never change.
var RentalUpdate = Schema{
	{Name: "dateReturned", Type: String},
	{Name: "rentalFee", Type: Number, Min: 0},
}
