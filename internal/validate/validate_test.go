package validate

import "testing"

func TestGenreSchema(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]interface{}
		want    string // expected error message, "" for valid
	}{
		{"valid", map[string]interface{}{"name": "Horror"}, ""},
		{"missing name", map[string]interface{}{}, "name is required"},
		{"null name", map[string]interface{}{"name": nil}, "name is required"},
		{"too short", map[string]interface{}{"name": "Ho"}, "name must be at least 4 characters long"},
		{"wrong type", map[string]interface{}{"name": 7.0}, "name must be a string"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Genre.Apply(tc.payload)
			if tc.want == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.want {
				t.Fatalf("want %q, got %v", tc.want, err)
			}
		})
	}
}

func TestMovieSchema(t *testing.T) {
	valid := func() map[string]interface{} {
		return map[string]interface{}{
			"title": "The Terminator", "numberInStock": 3.0, "dailyRentalRate": 2.5,
		}
	}
	if err := Movie.Apply(valid()); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	p := valid()
	p["numberInStock"] = 2.5
	if err := Movie.Apply(p); err == nil || err.Error() != "numberInStock must be an integer" {
		t.Fatalf("fractional stock: got %v", err)
	}

	p = valid()
	p["numberInStock"] = 300.0
	if err := Movie.Apply(p); err == nil || err.Error() != "numberInStock must be at most 255" {
		t.Fatalf("stock above max: got %v", err)
	}

	p = valid()
	p["dailyRentalRate"] = "cheap"
	if err := Movie.Apply(p); err == nil || err.Error() != "dailyRentalRate must be a number" {
		t.Fatalf("rate type: got %v", err)
	}
}

// Violations must surface first-field-first, one per call.
func TestFirstViolationWins(t *testing.T) {
	err := Customer.Apply(map[string]interface{}{"name": "Al", "phone": "x"})
	if err == nil || err.Error() != "name must be at least 4 characters long" {
		t.Fatalf("want the name violation first, got %v", err)
	}

	// Required-absent beats a range violation on a later field too.
	err = Customer.Apply(map[string]interface{}{"phone": "x"})
	if err == nil || err.Error() != "name is required" {
		t.Fatalf("want name is required, got %v", err)
	}
}

func TestCustomerIsGoldOptional(t *testing.T) {
	base := map[string]interface{}{"name": "Jane Doe", "phone": "1234567890"}
	if err := Customer.Apply(base); err != nil {
		t.Fatalf("isGold omitted should pass: %v", err)
	}
	base["isGold"] = "yes"
	if err := Customer.Apply(base); err == nil || err.Error() != "isGold must be a boolean" {
		t.Fatalf("isGold type: got %v", err)
	}
}

func TestRentalCreateSchema(t *testing.T) {
	if err := RentalCreate.Apply(map[string]interface{}{"customerId": 1.0, "movieId": 2.0}); err != nil {
		t.Fatalf("numeric ids should pass: %v", err)
	}
	if err := RentalCreate.Apply(map[string]interface{}{"customerId": "7", "movieId": "9"}); err != nil {
		t.Fatalf("string ids should pass: %v", err)
	}
	if err := RentalCreate.Apply(map[string]interface{}{"movieId": 2.0}); err == nil || err.Error() != "customerId is required" {
		t.Fatalf("missing customerId: got %v", err)
	}
	if err := RentalCreate.Apply(map[string]interface{}{"customerId": 0.0, "movieId": 2.0}); err == nil || err.Error() != "customerId must be a valid id" {
		t.Fatalf("zero id: got %v", err)
	}
	if err := RentalCreate.Apply(map[string]interface{}{"customerId": 1.5, "movieId": 2.0}); err == nil || err.Error() != "customerId must be a valid id" {
		t.Fatalf("fractional id: got %v", err)
	}
}

func TestAccessors(t *testing.T) {
	payload := map[string]interface{}{
		"name": "Jane Doe", "isGold": true, "rate": 2.5, "movieId": "12",
	}
	if got := GetString(payload, "name"); got != "Jane Doe" {
		t.Errorf("GetString = %q", got)
	}
	if !GetBool(payload, "isGold") {
		t.Error("GetBool = false")
	}
	if got := GetNumber(payload, "rate"); got != 2.5 {
		t.Errorf("GetNumber = %v", got)
	}
	if got := GetID(payload, "movieId"); got != 12 {
		t.Errorf("GetID = %d", got)
	}
	if Has(payload, "missing") || !Has(payload, "name") {
		t.Error("Has misreports presence")
	}
}
