package handler

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/vidly/vidly-api/internal/model"
	"github.com/vidly/vidly-api/internal/repository"
)

// fakeRentalStore implements RentalStore in memory with the same
// conditional-decrement discipline as the SQL workflow: the stock
// check and decrement happen under one lock, so concurrent Rent calls
// against the last copy cannot both succeed.
type fakeRentalStore struct {
	mu        sync.Mutex
	seq       uint64
	customers map[uint64]model.Customer
	movies    map[uint64]*model.Movie
	rentals   map[uint64]model.Rental
}

func newFakeRentalStore() *fakeRentalStore {
	return &fakeRentalStore{
		customers: map[uint64]model.Customer{},
		movies:    map[uint64]*model.Movie{},
		rentals:   map[uint64]model.Rental{},
	}
}

func (s *fakeRentalStore) Rent(ctx context.Context, customerID, movieID uint64) (*model.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[customerID]
	if !ok {
		return nil, repository.ErrInvalidCustomer
	}
	m, ok := s.movies[movieID]
	if !ok {
		return nil, repository.ErrInvalidMovie
	}
	if m.NumberInStock <= 0 {
		return nil, repository.ErrOutOfStock
	}
	m.NumberInStock--
	s.seq++
	rental := model.Rental{
		ID:       s.seq,
		Customer: model.RentalCustomer{ID: c.ID, Name: c.Name, Phone: c.Phone, IsGold: c.IsGold},
		Movie:    model.RentalMovie{ID: m.ID, Title: m.Title, DailyRentalRate: m.DailyRentalRate},
		DateOut:  time.Now().UTC(),
	}
	s.rentals[rental.ID] = rental
	return &rental, nil
}

func (s *fakeRentalStore) List(ctx context.Context) ([]model.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Rental, 0, len(s.rentals))
	for _, r := range s.rentals {
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeRentalStore) GetByID(ctx context.Context, id uint64) (*model.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rentals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (s *fakeRentalStore) Update(ctx context.Context, id uint64, dateReturned *time.Time, rentalFee *float64) (*model.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rentals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	r.DateReturned = dateReturned
	r.RentalFee = rentalFee
	s.rentals[id] = r
	return &r, nil
}

func (s *fakeRentalStore) Delete(ctx context.Context, id uint64) (*model.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rentals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.rentals, id)
	return &r, nil
}

func (s *fakeRentalStore) stock(movieID uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.movies[movieID].NumberInStock
}

func seededRentalStore(stock int) *fakeRentalStore {
	s := newFakeRentalStore()
	s.customers[1] = model.Customer{ID: 1, Name: "Jane Doe", Phone: "1234567890"}
	s.movies[1] = &model.Movie{ID: 1, Title: "Jaws", NumberInStock: stock, DailyRentalRate: 2.5}
	return s
}

func postRental(t *testing.T, h *RentalHandler, body string) int {
	t.Helper()
	c, rec := request(t, http.MethodPost, body, "")
	if err := h.Create(c); err != nil {
		t.Fatal(err)
	}
	return rec.Code
}

func TestRentalCreateInvalidReferences(t *testing.T) {
	h := NewRentalHandler(seededRentalStore(1), "")

	c, rec := request(t, http.MethodPost, `{"customerId":99,"movieId":1}`, "")
	if err := h.Create(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest || errorMessage(t, rec) != "invalid customer" {
		t.Fatalf("unknown customer: %d %q", rec.Code, rec.Body.String())
	}

	c, rec = request(t, http.MethodPost, `{"customerId":1,"movieId":99}`, "")
	if err := h.Create(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest || errorMessage(t, rec) != "invalid movie" {
		t.Fatalf("unknown movie: %d %q", rec.Code, rec.Body.String())
	}
}

func TestRentalCreateMissingFields(t *testing.T) {
	h := NewRentalHandler(seededRentalStore(1), "")
	c, rec := request(t, http.MethodPost, `{"movieId":1}`, "")
	if err := h.Create(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest || errorMessage(t, rec) != "customerId is required" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRentalCreateSnapshotsAndDecrements(t *testing.T) {
	store := seededRentalStore(3)
	h := NewRentalHandler(store, "")

	c, rec := request(t, http.MethodPost, `{"customerId":1,"movieId":1}`, "")
	if err := h.Create(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %q", rec.Code, rec.Body.String())
	}
	var rental model.Rental
	decodeBody(t, rec, &rental)
	if rental.ID == 0 {
		t.Fatal("rental id not generated")
	}
	if rental.Customer.Name != "Jane Doe" || rental.Customer.Phone != "1234567890" {
		t.Fatalf("customer snapshot %+v", rental.Customer)
	}
	if rental.Movie.Title != "Jaws" || rental.Movie.DailyRentalRate != 2.5 {
		t.Fatalf("movie snapshot %+v", rental.Movie)
	}
	if rental.DateOut.IsZero() || rental.DateReturned != nil {
		t.Fatalf("dates: out=%v returned=%v", rental.DateOut, rental.DateReturned)
	}
	if got := store.stock(1); got != 2 {
		t.Fatalf("stock = %d, want 2", got)
	}
	if len(store.rentals) != 1 {
		t.Fatalf("rentals = %d, want 1", len(store.rentals))
	}
}

// Movie{Jaws, stock 1}: first rental succeeds and empties the shelf,
// the identical second request fails and changes nothing.
func TestRentalCreateStockExhausted(t *testing.T) {
	store := seededRentalStore(1)
	h := NewRentalHandler(store, "")

	if code := postRental(t, h, `{"customerId":1,"movieId":1}`); code != http.StatusOK {
		t.Fatalf("first rental status = %d", code)
	}
	if got := store.stock(1); got != 0 {
		t.Fatalf("stock after first rental = %d", got)
	}

	c, rec := request(t, http.MethodPost, `{"customerId":1,"movieId":1}`, "")
	if err := h.Create(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest || errorMessage(t, rec) != "movie not in stock" {
		t.Fatalf("second rental: %d %q", rec.Code, rec.Body.String())
	}
	if got := store.stock(1); got != 0 {
		t.Fatalf("stock must stay 0, got %d", got)
	}
	if len(store.rentals) != 1 {
		t.Fatalf("no rental may be created on failure, have %d", len(store.rentals))
	}
}

// Launching more simultaneous requests than there is stock must yield
// exactly stock-many successes; stock never goes negative.
func TestRentalCreateConcurrent(t *testing.T) {
	const stock = 5
	store := seededRentalStore(stock)
	h := NewRentalHandler(store, "")

	var wg sync.WaitGroup
	codes := make(chan int, stock*2)
	for i := 0; i < stock*2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, rec := request(t, http.MethodPost, `{"customerId":1,"movieId":1}`, "")
			if err := h.Create(c); err != nil {
				codes <- http.StatusInternalServerError
				return
			}
			codes <- rec.Code
		}()
	}
	wg.Wait()
	close(codes)

	ok, rejected := 0, 0
	for code := range codes {
		switch code {
		case http.StatusOK:
			ok++
		case http.StatusBadRequest:
			rejected++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	if ok != stock || rejected != stock {
		t.Fatalf("successes = %d rejections = %d, want %d/%d", ok, rejected, stock, stock)
	}
	if got := store.stock(1); got != 0 {
		t.Fatalf("final stock = %d", got)
	}
	if len(store.rentals) != stock {
		t.Fatalf("rentals = %d, want %d", len(store.rentals), stock)
	}
}

func TestRentalUpdateReturnFields(t *testing.T) {
	store := seededRentalStore(1)
	h := NewRentalHandler(store, "")
	if code := postRental(t, h, `{"customerId":1,"movieId":1}`); code != http.StatusOK {
		t.Fatalf("seed rental status = %d", code)
	}

	returned := time.Now().UTC().Truncate(time.Second)
	body := fmt.Sprintf(`{"dateReturned":%q,"rentalFee":7.5}`, returned.Format(time.RFC3339))
	c, rec := request(t, http.MethodPut, body, "1")
	if err := h.Update(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %q", rec.Code, rec.Body.String())
	}
	var rental model.Rental
	decodeBody(t, rec, &rental)
	if rental.DateReturned == nil || !rental.DateReturned.Equal(returned) {
		t.Fatalf("dateReturned = %v", rental.DateReturned)
	}
	if rental.RentalFee == nil || *rental.RentalFee != 7.5 {
		t.Fatalf("rentalFee = %v", rental.RentalFee)
	}
	// Returning a rental does not restock the movie.
	if got := store.stock(1); got != 0 {
		t.Fatalf("stock = %d, want 0", got)
	}
}

func TestRentalUpdateRejectsBadDate(t *testing.T) {
	store := seededRentalStore(1)
	h := NewRentalHandler(store, "")
	if code := postRental(t, h, `{"customerId":1,"movieId":1}`); code != http.StatusOK {
		t.Fatalf("seed rental status = %d", code)
	}
	c, rec := request(t, http.MethodPut, `{"dateReturned":"yesterday"}`, "1")
	if err := h.Update(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
