package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/foodcourt-table-reservation/internal/catalog"
	"github.com/iliyamo/foodcourt-table-reservation/internal/model"
	"github.com/iliyamo/foodcourt-table-reservation/internal/repository"
	"github.com/iliyamo/foodcourt-table-reservation/internal/service"
)

// stubStore is a minimal in-memory ReservationStore for exercising the HTTP
// layer end to end without MySQL.
type stubStore struct {
	mu   sync.Mutex
	rows map[string]*model.Reservation
	seq  uint64
}

func newStubStore() *stubStore {
	return &stubStore{rows: make(map[string]*model.Reservation)}
}

func (s *stubStore) Create(ctx context.Context, res *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.rows[res.ReservationID]; dup {
		return repository.ErrDuplicateReservationID
	}
	for _, r := range s.rows {
		if r.Status == model.StatusActive &&
			r.Date == res.Date && r.TimeSlot == res.TimeSlot && r.TableNumber == res.TableNumber {
			return repository.ErrTableTaken
		}
	}
	s.seq++
	res.ID = s.seq
	cp := *res
	s.rows[res.ReservationID] = &cp
	return nil
}

func (s *stubStore) HeldTables(ctx context.Context, date, timeSlot string) (map[uint32]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	held := make(map[uint32]struct{})
	for _, r := range s.rows {
		if r.Status == model.StatusActive && r.Date == date && r.TimeSlot == timeSlot {
			held[r.TableNumber] = struct{}{}
		}
	}
	return held, nil
}

func (s *stubStore) ListActive(ctx context.Context) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Reservation, 0)
	for _, r := range s.rows {
		if r.Status == model.StatusActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *stubStore) Search(ctx context.Context, query string) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(query)
	out := make([]model.Reservation, 0)
	for _, r := range s.rows {
		if strings.Contains(strings.ToLower(r.ReservationID), q) ||
			strings.Contains(strings.ToLower(r.Name), q) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *stubStore) GetByReservationID(ctx context.Context, reservationID string) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[reservationID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *stubStore) Cancel(ctx context.Context, reservationID string) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[reservationID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.Status == model.StatusActive {
		r.Status = model.StatusCancelled
	}
	cp := *r
	return &cp, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestHandler(t *testing.T) (*ReservationHandler, *stubStore) {
	t.Helper()
	logger := zerolog.Nop()
	store := newStubStore()
	svc := service.NewReservationService(store, catalog.Default(), &logger, 3)
	return NewReservationHandler(svc), store
}

func doRequest(t *testing.T, h echo.HandlerFunc, method, target, body string, setup func(echo.Context)) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not the expected envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return rec, env
}

func TestCreateHappyPath(t *testing.T) {
	h, _ := newTestHandler(t)
	body := `{"name":"Priya","contact":"priya@example.edu","peopleCount":2,"date":"2024-06-01","timeSlot":"12:00"}`
	rec, env := doRequest(t, h.Create, http.MethodPost, "/api/reservations", body, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	if !env.Success || env.Message != "Table reserved successfully!" {
		t.Errorf("envelope = %+v", env)
	}
	var res model.Reservation
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("data is not a reservation: %v", err)
	}
	if res.TableNumber != 1 || res.Status != model.StatusActive {
		t.Errorf("reservation = %+v, want table 1 Active", res)
	}
	if !strings.HasPrefix(res.ReservationID, "RES-") {
		t.Errorf("reservationId %q missing RES- prefix", res.ReservationID)
	}
}

func TestCreateMissingFields(t *testing.T) {
	h, _ := newTestHandler(t)
	body := `{"name":"Priya","peopleCount":2}`
	rec, env := doRequest(t, h.Create, http.MethodPost, "/api/reservations", body, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Success || env.Message != "All fields are required." {
		t.Errorf("envelope = %+v", env)
	}
}

func TestCreateOversizedParty(t *testing.T) {
	h, _ := newTestHandler(t)
	body := `{"name":"Club","contact":"club@example.edu","peopleCount":11,"date":"2024-06-01","timeSlot":"12:00"}`
	rec, env := doRequest(t, h.Create, http.MethodPost, "/api/reservations", body, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Message != "No table exists for this group size." {
		t.Errorf("message = %q", env.Message)
	}
}

func TestCreateFullyBookedSlot(t *testing.T) {
	h, _ := newTestHandler(t)
	body := `{"name":"P","contact":"p@example.edu","peopleCount":2,"date":"2024-06-01","timeSlot":"12:00"}`
	for i := 0; i < 3; i++ {
		rec, _ := doRequest(t, h.Create, http.MethodPost, "/api/reservations", body, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("warm-up create %d: status = %d", i+1, rec.Code)
		}
	}

	rec, env := doRequest(t, h.Create, http.MethodPost, "/api/reservations", body, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Message != "All tables are fully booked for this slot." {
		t.Errorf("message = %q", env.Message)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	h, _ := newTestHandler(t)
	rec, env := doRequest(t, h.Search, http.MethodGet, "/api/reservations/search", "", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Message != "Search query is required." {
		t.Errorf("message = %q", env.Message)
	}
}

func TestSearchFindsByName(t *testing.T) {
	h, _ := newTestHandler(t)
	body := `{"name":"Arjun Mehta","contact":"arjun@example.edu","peopleCount":4,"date":"2024-06-01","timeSlot":"18:00"}`
	if rec, _ := doRequest(t, h.Create, http.MethodPost, "/api/reservations", body, nil); rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d", rec.Code)
	}

	rec, env := doRequest(t, h.Search, http.MethodGet, "/api/reservations/search?query=arjun", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var found []model.Reservation
	if err := json.Unmarshal(env.Data, &found); err != nil {
		t.Fatalf("data is not a reservation list: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Arjun Mehta" {
		t.Errorf("search result = %+v", found)
	}
}

func TestCancelUnknownReservation(t *testing.T) {
	h, _ := newTestHandler(t)
	rec, env := doRequest(t, h.Cancel, http.MethodPut, "/api/reservations/RES-MISSING/cancel", "", func(c echo.Context) {
		c.SetParamNames("id")
		c.SetParamValues("RES-MISSING")
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Message != "Reservation not found." {
		t.Errorf("message = %q", env.Message)
	}
}

func TestCancelFreesTable(t *testing.T) {
	h, store := newTestHandler(t)
	body := `{"name":"P","contact":"p@example.edu","peopleCount":2,"date":"2024-06-01","timeSlot":"12:00"}`
	_, created := doRequest(t, h.Create, http.MethodPost, "/api/reservations", body, nil)
	var res model.Reservation
	if err := json.Unmarshal(created.Data, &res); err != nil {
		t.Fatalf("data is not a reservation: %v", err)
	}

	rec, env := doRequest(t, h.Cancel, http.MethodPut, "/api/reservations/"+res.ReservationID+"/cancel", "", func(c echo.Context) {
		c.SetParamNames("id")
		c.SetParamValues(res.ReservationID)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if env.Message != "Reservation cancelled successfully." {
		t.Errorf("message = %q", env.Message)
	}

	stored, err := store.GetByReservationID(context.Background(), res.ReservationID)
	if err != nil {
		t.Fatalf("lookup after cancel: %v", err)
	}
	if stored.Status != model.StatusCancelled {
		t.Errorf("status after cancel = %q, want %q", stored.Status, model.StatusCancelled)
	}
}

func TestListAllReturnsActiveOnly(t *testing.T) {
	h, _ := newTestHandler(t)
	body := `{"name":"P","contact":"p@example.edu","peopleCount":2,"date":"2024-06-01","timeSlot":"12:00"}`
	_, created := doRequest(t, h.Create, http.MethodPost, "/api/reservations", body, nil)
	var res model.Reservation
	if err := json.Unmarshal(created.Data, &res); err != nil {
		t.Fatalf("data is not a reservation: %v", err)
	}
	doRequest(t, h.Cancel, http.MethodPut, "/api/reservations/"+res.ReservationID+"/cancel", "", func(c echo.Context) {
		c.SetParamNames("id")
		c.SetParamValues(res.ReservationID)
	})

	rec, env := doRequest(t, h.ListAll, http.MethodGet, "/api/reservations/all", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var active []model.Reservation
	if err := json.Unmarshal(env.Data, &active); err != nil {
		t.Fatalf("data is not a reservation list: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("cancelled reservation still listed: %+v", active)
	}
}
