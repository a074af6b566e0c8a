package server

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Tomlord1122/planner-backend/internal/config"
	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/realtime"
	"github.com/Tomlord1122/planner-backend/internal/service"
	"github.com/Tomlord1122/planner-backend/internal/upcoming"
)

const testToken = "valid-token"

var testNow = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

type stubAuth struct {
	service.AuthService
	signedOut []string
	resets    []string
}

func (a *stubAuth) Authenticate(_ context.Context, token string) (*service.UserResponse, error) {
	if token != testToken {
		return nil, service.ErrUnauthorized
	}
	return &service.UserResponse{ID: 7, Email: "alice@example.com"}, nil
}

func (a *stubAuth) SignUp(_ context.Context, req service.CredentialsRequest) (*service.SessionResponse, error) {
	switch {
	case req.Email == "taken@example.com":
		return nil, fmt.Errorf("%w: email already registered", service.ErrConflict)
	case len(req.Password) < 8:
		return nil, fmt.Errorf("%w: password too short", service.ErrInvalidInput)
	}
	return &service.SessionResponse{Token: testToken, User: service.UserResponse{ID: 8, Email: req.Email}}, nil
}

func (a *stubAuth) SignIn(_ context.Context, req service.CredentialsRequest) (*service.SessionResponse, error) {
	if req.Password != "correct horse" {
		return nil, fmt.Errorf("%w: invalid email or password", service.ErrUnauthorized)
	}
	return &service.SessionResponse{Token: testToken, User: service.UserResponse{ID: 7, Email: req.Email}}, nil
}

func (a *stubAuth) SignOut(_ context.Context, token string) error {
	a.signedOut = append(a.signedOut, token)
	return nil
}

func (a *stubAuth) RequestReset(_ context.Context, req service.ResetRequest) error {
	a.resets = append(a.resets, req.Email)
	return nil
}

func (a *stubAuth) ConfirmReset(_ context.Context, req service.ConfirmResetRequest) error {
	if req.Token != "reset-token" {
		return fmt.Errorf("%w: reset token expired", service.ErrInvalidInput)
	}
	return nil
}

func (a *stubAuth) UpdateUser(_ context.Context, userID uint, req service.UpdateUserRequest) (*service.UserResponse, error) {
	user := &service.UserResponse{ID: userID, Email: "alice@example.com"}
	if req.Email != nil {
		user.Email = *req.Email
	}
	return user, nil
}

// stubPlanner records the arguments of the calls the tests make.
type stubPlanner struct {
	service.PlannerService
	err error

	dayUser  uint
	dayDate  time.Time
	moveDate *time.Time
	moveFrom int
	moveTo   int
	added    service.EntryRequest
}

func (p *stubPlanner) GetDay(_ context.Context, userID uint, date time.Time) (*service.DayResponse, error) {
	p.dayUser, p.dayDate = userID, date
	if p.err != nil {
		return nil, p.err
	}
	return &service.DayResponse{Date: dates.FormatDate(date)}, nil
}

func (p *stubPlanner) AddTodo(_ context.Context, _ uint, req service.EntryRequest) (*service.TodoResponse, error) {
	p.added = req
	if p.err != nil {
		return nil, p.err
	}
	return &service.TodoResponse{ID: 1, Name: req.Name}, nil
}

func (p *stubPlanner) MoveTodo(_ context.Context, _ uint, date *time.Time, from, to int) ([]service.TodoResponse, error) {
	p.moveDate, p.moveFrom, p.moveTo = date, from, to
	return []service.TodoResponse{}, p.err
}

func (p *stubPlanner) MultiAction(_ context.Context, _ uint, req service.MultiActionRequest) (*service.MultiActionResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &service.MultiActionResponse{Action: req.Action, Affected: int64(len(req.Appointments) + len(req.Todos))}, nil
}

type stubUpcoming struct {
	service.UpcomingService
	query   service.UpcomingQuery
	entries []upcoming.Entry
}

func (u *stubUpcoming) GetUpcoming(_ context.Context, _ uint, q service.UpcomingQuery) ([]upcoming.Group, error) {
	u.query = q
	return []upcoming.Group{}, nil
}

func (u *stubUpcoming) CalendarEntries(context.Context, uint) ([]upcoming.Entry, error) {
	return u.entries, nil
}

type stubPreferences struct {
	service.PreferenceService
	key   string
	value bool
}

func (p *stubPreferences) Set(_ context.Context, _ uint, key string, value bool) error {
	p.key, p.value = key, value
	return nil
}

// stubGrocery knows a single item with ID 1.
type stubGrocery struct {
	service.GroceryService
	done    *bool
	ordered []uint
}

func (g *stubGrocery) find(id uint) (*service.GroceryResponse, error) {
	if id != 1 {
		return nil, fmt.Errorf("grocery item with ID %d %w", id, service.ErrNotFound)
	}
	return &service.GroceryResponse{ID: 1, Name: "Milk"}, nil
}

func (g *stubGrocery) List(context.Context, uint) ([]service.GroceryResponse, error) {
	return []service.GroceryResponse{{ID: 1, Name: "Milk"}}, nil
}

func (g *stubGrocery) Add(_ context.Context, _ uint, req service.GroceryRequest) (*service.GroceryResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", service.ErrInvalidInput)
	}
	return &service.GroceryResponse{ID: 2, Name: req.Name, Amount: req.Amount}, nil
}

func (g *stubGrocery) Update(_ context.Context, _ uint, id uint, req service.UpdateGroceryRequest) (*service.GroceryResponse, error) {
	item, err := g.find(id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	return item, nil
}

func (g *stubGrocery) SetDone(_ context.Context, _ uint, id uint, done bool) (*service.GroceryResponse, error) {
	item, err := g.find(id)
	if err != nil {
		return nil, err
	}
	g.done = &done
	item.Done = done
	return item, nil
}

func (g *stubGrocery) Delete(_ context.Context, _ uint, id uint) error {
	_, err := g.find(id)
	return err
}

func (g *stubGrocery) Reorder(_ context.Context, _ uint, ids []uint) error {
	g.ordered = ids
	return nil
}

func (g *stubGrocery) ClearDone(context.Context, uint) (int64, error) {
	return 3, nil
}

// stubMeals knows meal 1 and a meal plan on 2026-10-16 only.
type stubMeals struct {
	service.MealService
	planReq *service.MealPlanRequest
}

func (m *stubMeals) ListMeals(context.Context) ([]service.MealResponse, error) {
	return []service.MealResponse{{ID: 1, Name: "Lasagne"}}, nil
}

func (m *stubMeals) AddMeal(_ context.Context, req service.MealRequest) (*service.MealResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", service.ErrInvalidInput)
	}
	return &service.MealResponse{ID: 2, Name: req.Name, Duration: req.Duration}, nil
}

func (m *stubMeals) UpdateMeal(_ context.Context, id uint, req service.MealRequest) (*service.MealResponse, error) {
	if id != 1 {
		return nil, fmt.Errorf("meal with ID %d %w", id, service.ErrNotFound)
	}
	return &service.MealResponse{ID: id, Name: req.Name}, nil
}

func (m *stubMeals) DeleteMeal(_ context.Context, id uint) error {
	if id != 1 {
		return fmt.Errorf("meal with ID %d %w", id, service.ErrNotFound)
	}
	return nil
}

func (m *stubMeals) GetMealPlan(_ context.Context, date time.Time) (*service.MealPlanResponse, error) {
	if dates.FormatDate(date) != "2026-10-16" {
		return nil, nil
	}
	return &service.MealPlanResponse{Date: "2026-10-16", Lunch: &service.MealResponse{ID: 1, Name: "Lasagne"}}, nil
}

func (m *stubMeals) SetMealPlan(_ context.Context, date time.Time, req service.MealPlanRequest) (*service.MealPlanResponse, error) {
	m.planReq = &req
	if req.LunchID == nil && req.DinnerID == nil {
		return nil, nil
	}
	return &service.MealPlanResponse{Date: dates.FormatDate(date)}, nil
}

// lockedBuffer collects access log lines written from server goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testServer struct {
	*Server
	accessLogs  *lockedBuffer
	auth        *stubAuth
	planner     *stubPlanner
	upcoming    *stubUpcoming
	preferences *stubPreferences
	grocery     *stubGrocery
	meals       *stubMeals
	handler     http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		accessLogs:  &lockedBuffer{},
		auth:        &stubAuth{},
		planner:     &stubPlanner{},
		upcoming:    &stubUpcoming{},
		preferences: &stubPreferences{},
		grocery:     &stubGrocery{},
		meals:       &stubMeals{},
	}
	broker := realtime.NewBroker(8)
	t.Cleanup(broker.Close)

	d := dates.New(time.UTC, "en").WithNow(func() time.Time { return testNow })
	ts.Server = New(config.Config{Locale: "en"}, Services{
		Auth:        ts.auth,
		Planner:     ts.planner,
		Meals:       ts.meals,
		Upcoming:    ts.upcoming,
		Grocery:     ts.grocery,
		Preferences: ts.preferences,
	}, nil, broker, d)
	ts.accessLog = &middleware.DefaultLogFormatter{Logger: log.New(ts.accessLogs, "", 0), NoColor: true}
	ts.handler = ts.RegisterRoutes()
	return ts
}

// do sends an authenticated request through the router.
func (ts *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	return ts.send(method, target, body, true)
}

func (ts *testServer) send(method, target, body string, authenticated bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}
