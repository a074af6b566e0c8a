package service

import (
	"strings"
	"time"

	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/domain"
	"github.com/Tomlord1122/planner-backend/internal/upcoming"
)

// Input/Output Structs (Data Transfer Objects - DTOs)
// Dates travel as "YYYY-MM-DD" strings and times as "HH:MM".

// EntryRequest creates an appointment or a todo. Mine assigns the entry to
// the caller; otherwise it is shared with the household.
type EntryRequest struct {
	Name  string  `json:"name"`
	Date  *string `json:"date"`
	Time  *string `json:"time"`
	Notes string  `json:"notes"`
	Mine  bool    `json:"mine"`
}

// UpdateEntryRequest changes an existing entry. Omitted fields stay as they
// are; an empty date or time clears it.
type UpdateEntryRequest struct {
	Name  *string `json:"name"`
	Date  *string `json:"date"`
	Time  *string `json:"time"`
	Notes *string `json:"notes"`
	Mine  *bool   `json:"mine"`
	Done  *bool   `json:"done"`
}

type AppointmentResponse struct {
	ID        uint    `json:"id"`
	Type      int     `json:"type"`
	Name      string  `json:"name"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Notes     string  `json:"notes"`
	UserID    *uint   `json:"user_id"`
	Past      bool    `json:"past"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type TodoResponse struct {
	ID        uint    `json:"id"`
	Type      int     `json:"type"`
	Name      string  `json:"name"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Done      bool    `json:"done"`
	Order     int     `json:"order"`
	UserID    *uint   `json:"user_id"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type MealResponse struct {
	ID       uint     `json:"id"`
	Name     string   `json:"name"`
	Duration *int     `json:"duration"`
	Costs    *float64 `json:"costs"`
}

type MealRequest struct {
	Name     string   `json:"name"`
	Duration *int     `json:"duration"`
	Costs    *float64 `json:"costs"`
}

// MealPlanRequest sets lunch and dinner of a day. A nil id leaves the slot empty.
type MealPlanRequest struct {
	LunchID  *uint `json:"lunch_id"`
	DinnerID *uint `json:"dinner_id"`
}

type MealPlanResponse struct {
	Date        string        `json:"date"`
	DayName     string        `json:"day_name,omitempty"`
	DisplayDate string        `json:"display_date,omitempty"`
	Lunch       *MealResponse `json:"lunch"`
	Dinner      *MealResponse `json:"dinner"`
}

// DayResponse is everything the planner page shows for one day.
type DayResponse struct {
	Date            string                `json:"date"`
	Past            bool                  `json:"past"`
	MealPlan        *MealPlanResponse     `json:"meal_plan"`
	Appointments    []AppointmentResponse `json:"appointments"`
	Todos           []TodoResponse        `json:"todos"`
	ShowAllDisabled bool                  `json:"show_all_disabled"`
}

// MoveRequest drags the todo at From to To within a day's list.
type MoveRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type ReorderRequest struct {
	IDs []uint `json:"ids"`
}

type MultiActionKind string

const (
	MultiActionDelete     MultiActionKind = "delete"
	MultiActionUpdateDate MultiActionKind = "update_date"
)

// MultiActionRequest applies one action to the entries selected in a list.
type MultiActionRequest struct {
	Action       MultiActionKind `json:"action"`
	Date         *string         `json:"date"`
	Appointments []uint          `json:"appointments"`
	Todos        []uint          `json:"todos"`
}

type MultiActionResponse struct {
	Action   MultiActionKind `json:"action"`
	Affected int64           `json:"affected"`
}

type UpcomingQuery struct {
	Assignment domain.Assignment
	Search     string
	DateFilter upcoming.DateFilter
	Type       domain.EntryType // zero: both
}

type GroceryRequest struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Mine   bool   `json:"mine"`
}

type UpdateGroceryRequest struct {
	Name   *string `json:"name"`
	Amount *string `json:"amount"`
	Done   *bool   `json:"done"`
}

type GroceryResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Done   bool   `json:"done"`
	Order  int    `json:"order"`
	UserID *uint  `json:"user_id"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResetRequest struct {
	Email string `json:"email"`
}

type ConfirmResetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type UserResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// --- conversion helpers ---

func formatDatePtr(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := dates.FormatDate(*d)
	return &s
}

// parseDatePtr treats nil and blank as "no date".
func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := dates.ParseDate(*s)
	if err != nil {
		return nil, invalid("%v", err)
	}
	return &d, nil
}

func parseTimePtr(s *string) (*string, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := dates.NormalizeTime(*s)
	if err != nil {
		return nil, invalid("%v", err)
	}
	return &t, nil
}

func owner(mine bool, userID uint) *uint {
	if !mine {
		return nil
	}
	id := userID
	return &id
}

func toAppointmentResponse(a domain.Appointment, past bool) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		Type:      int(domain.EntryAppointment),
		Name:      a.Name,
		Date:      formatDatePtr(a.Date),
		Time:      a.Time,
		Notes:     a.Notes,
		UserID:    a.UserID,
		Past:      past,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}

func toTodoResponse(t domain.Todo) TodoResponse {
	return TodoResponse{
		ID:        t.ID,
		Type:      int(domain.EntryTodo),
		Name:      t.Name,
		Date:      formatDatePtr(t.Date),
		Time:      t.Time,
		Done:      t.Done,
		Order:     t.Order,
		UserID:    t.UserID,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
}

func toMealResponse(m *domain.Meal) *MealResponse {
	if m == nil {
		return nil
	}
	return &MealResponse{ID: m.ID, Name: m.Name, Duration: m.Duration, Costs: m.Costs}
}

func toMealPlanResponse(ds *dates.Service, p domain.MealPlan) *MealPlanResponse {
	d := dates.Day(p.Date)
	return &MealPlanResponse{
		Date:        dates.FormatDate(d),
		DayName:     ds.DayLabel(&d),
		DisplayDate: ds.FormatDisplay(d),
		Lunch:       toMealResponse(p.Lunch),
		Dinner:      toMealResponse(p.Dinner),
	}
}

func toGroceryResponse(g domain.GroceryItem) GroceryResponse {
	return GroceryResponse{ID: g.ID, Name: g.Name, Amount: g.Amount, Done: g.Done, Order: g.Order, UserID: g.UserID}
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt.Format(time.RFC3339)}
}
