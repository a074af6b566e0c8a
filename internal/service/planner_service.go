package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/domain"
	"github.com/Tomlord1122/planner-backend/internal/listview"
	"github.com/Tomlord1122/planner-backend/internal/realtime"
	"github.com/Tomlord1122/planner-backend/internal/repository"

	"gorm.io/gorm"
)

// PlannerService covers the day-scoped appointments and todos of the planner
// page and the multi-select actions shared with the upcoming page. All calls
// act on behalf of userID and only touch rows visible to that user.
type PlannerService interface {
	GetDay(ctx context.Context, userID uint, date time.Time) (*DayResponse, error)

	AddAppointment(ctx context.Context, userID uint, req EntryRequest) (*AppointmentResponse, error)
	UpdateAppointment(ctx context.Context, userID, id uint, req UpdateEntryRequest) (*AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, userID, id uint) error

	AddTodo(ctx context.Context, userID uint, req EntryRequest) (*TodoResponse, error)
	UpdateTodo(ctx context.Context, userID, id uint, req UpdateEntryRequest) (*TodoResponse, error)
	DeleteTodo(ctx context.Context, userID, id uint) error
	// MarkTodo returns the persisted state so callers can roll back an
	// optimistic toggle.
	MarkTodo(ctx context.Context, userID, id uint, done bool) (*TodoResponse, error)
	ReorderTodos(ctx context.Context, userID uint, ids []uint) error
	// MoveTodo drags a row of the todo list of date (nil: the undated list).
	MoveTodo(ctx context.Context, userID uint, date *time.Time, from, to int) ([]TodoResponse, error)

	MoveEntries(ctx context.Context, userID uint, t domain.EntryType, ids []uint, date *time.Time) (int64, error)
	MoveEntriesBoth(ctx context.Context, userID uint, appointmentIDs, todoIDs []uint, date *time.Time) (int64, error)
	DeleteEntries(ctx context.Context, userID uint, t domain.EntryType, ids []uint) (int64, error)
	DeleteEntriesBoth(ctx context.Context, userID uint, appointmentIDs, todoIDs []uint) (int64, error)
	MultiAction(ctx context.Context, userID uint, req MultiActionRequest) (*MultiActionResponse, error)
}

type plannerService struct {
	appointments repository.AppointmentRepository
	todos        repository.TodoRepository
	meals        repository.MealRepository
	dates        *dates.Service
	events       realtime.Publisher
}

func NewPlannerService(
	appointments repository.AppointmentRepository,
	todos repository.TodoRepository,
	meals repository.MealRepository,
	d *dates.Service,
	events realtime.Publisher,
) PlannerService {
	return &plannerService{
		appointments: appointments,
		todos:        todos,
		meals:        meals,
		dates:        d,
		events:       events,
	}
}

func (s *plannerService) publish(table realtime.Table, action realtime.Action, id uint, date *time.Time, userID *uint) {
	if s.events == nil {
		return
	}
	s.events.Publish(realtime.Event{Table: table, Action: action, ID: id, Date: date, UserID: userID})
}

// publishMoved notifies the old day and, when it changed, the new one.
func (s *plannerService) publishMoved(table realtime.Table, id uint, before, after *time.Time, userID *uint) {
	s.publish(table, realtime.ActionUpdate, id, after, userID)
	if before != nil && (after == nil || !dates.SameDate(*before, *after)) {
		s.publish(table, realtime.ActionUpdate, id, before, userID)
	}
}

// expired reports whether an appointment is over: its day has passed, or it
// is today and its time is earlier than now.
func (s *plannerService) expired(date *time.Time, t *string) bool {
	if date == nil {
		return false
	}
	switch {
	case s.dates.IsPast(*date):
		return true
	case s.dates.IsToday(*date):
		return t != nil && *t < s.dates.CurrentTime()
	default:
		return false
	}
}

func (s *plannerService) GetDay(ctx context.Context, userID uint, date time.Time) (*DayResponse, error) {
	date = dates.Day(date)

	plan, err := s.meals.FindPlan(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}
	appointments, err := s.appointments.FindByDate(ctx, date, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	todos, err := s.todos.FindByDate(ctx, &date, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load todos: %w", err)
	}

	day := &DayResponse{
		Date:         dates.FormatDate(date),
		Past:         s.dates.IsPast(date),
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
		Todos:        make([]TodoResponse, 0, len(todos)),
	}
	if plan != nil {
		day.MealPlan = toMealPlanResponse(s.dates, *plan)
	}

	items := make([]listview.Item, 0, len(appointments)+len(todos))
	for _, a := range appointments {
		past := s.expired(a.Date, a.Time)
		day.Appointments = append(day.Appointments, toAppointmentResponse(a, past))
		items = append(items, listview.Item{ID: a.ID, HasTime: a.Time != nil, Past: past})
	}
	for _, t := range todos {
		day.Todos = append(day.Todos, toTodoResponse(t))
		items = append(items, listview.Item{ID: t.ID, HasTime: t.Time != nil, Done: t.Done})
	}
	day.ShowAllDisabled = listview.ShowAllDisabled(items)

	return day, nil
}

// --- appointments ---

func (s *plannerService) AddAppointment(ctx context.Context, userID uint, req EntryRequest) (*AppointmentResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name cannot be empty")
	}
	date, err := parseDatePtr(req.Date)
	if err != nil {
		return nil, err
	}
	tod, err := parseTimePtr(req.Time)
	if err != nil {
		return nil, err
	}

	appointment := &domain.Appointment{
		Name:   name,
		Date:   date,
		Time:   tod,
		Notes:  req.Notes,
		UserID: owner(req.Mine, userID),
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	s.publish(realtime.TableAppointments, realtime.ActionInsert, appointment.ID, appointment.Date, appointment.UserID)

	resp := toAppointmentResponse(*appointment, s.expired(appointment.Date, appointment.Time))
	return &resp, nil
}

func (s *plannerService) UpdateAppointment(ctx context.Context, userID, id uint, req UpdateEntryRequest) (*AppointmentResponse, error) {
	existing, err := s.appointments.FindByID(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, "appointment", id)
	}
	before := existing.Date

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("name cannot be empty")
		}
		existing.Name = name
	}
	if req.Date != nil {
		if existing.Date, err = parseDatePtr(req.Date); err != nil {
			return nil, err
		}
	}
	if req.Time != nil {
		if existing.Time, err = parseTimePtr(req.Time); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		existing.Notes = *req.Notes
	}
	if req.Mine != nil {
		existing.UserID = owner(*req.Mine, userID)
	}

	if err := s.appointments.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update appointment %d: %w", id, err)
	}
	s.publishMoved(realtime.TableAppointments, existing.ID, before, existing.Date, existing.UserID)

	resp := toAppointmentResponse(*existing, s.expired(existing.Date, existing.Time))
	return &resp, nil
}

func (s *plannerService) DeleteAppointment(ctx context.Context, userID, id uint) error {
	existing, err := s.appointments.FindByID(ctx, id, userID)
	if err != nil {
		return notFound(err, "appointment", id)
	}
	rows, err := s.appointments.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete appointment %d: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment with ID %d %w", id, ErrNotFound)
	}
	s.publish(realtime.TableAppointments, realtime.ActionDelete, id, existing.Date, existing.UserID)
	return nil
}

// --- todos ---

func (s *plannerService) AddTodo(ctx context.Context, userID uint, req EntryRequest) (*TodoResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name cannot be empty")
	}
	date, err := parseDatePtr(req.Date)
	if err != nil {
		return nil, err
	}
	tod, err := parseTimePtr(req.Time)
	if err != nil {
		return nil, err
	}

	siblings, err := s.todos.FindByDate(ctx, date, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load todos for ordering: %w", err)
	}
	orders := make([]int, 0, len(siblings))
	for _, t := range siblings {
		orders = append(orders, t.Order)
	}

	todo := &domain.Todo{
		Name:   name,
		Date:   date,
		Time:   tod,
		Order:  listview.NextOrder(orders),
		UserID: owner(req.Mine, userID),
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	s.publish(realtime.TableTodos, realtime.ActionInsert, todo.ID, todo.Date, todo.UserID)

	resp := toTodoResponse(*todo)
	return &resp, nil
}

func (s *plannerService) UpdateTodo(ctx context.Context, userID, id uint, req UpdateEntryRequest) (*TodoResponse, error) {
	existing, err := s.todos.FindByID(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, "todo", id)
	}
	before := existing.Date

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("name cannot be empty")
		}
		existing.Name = name
	}
	if req.Date != nil {
		if existing.Date, err = parseDatePtr(req.Date); err != nil {
			return nil, err
		}
	}
	if req.Time != nil {
		if existing.Time, err = parseTimePtr(req.Time); err != nil {
			return nil, err
		}
	}
	if req.Done != nil {
		existing.Done = *req.Done
	}
	if req.Mine != nil {
		existing.UserID = owner(*req.Mine, userID)
	}

	if err := s.todos.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update todo %d: %w", id, err)
	}
	s.publishMoved(realtime.TableTodos, existing.ID, before, existing.Date, existing.UserID)

	resp := toTodoResponse(*existing)
	return &resp, nil
}

func (s *plannerService) DeleteTodo(ctx context.Context, userID, id uint) error {
	existing, err := s.todos.FindByID(ctx, id, userID)
	if err != nil {
		return notFound(err, "todo", id)
	}
	rows, err := s.todos.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo %d: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("todo with ID %d %w", id, ErrNotFound)
	}
	s.publish(realtime.TableTodos, realtime.ActionDelete, id, existing.Date, existing.UserID)
	return nil
}

func (s *plannerService) MarkTodo(ctx context.Context, userID, id uint, done bool) (*TodoResponse, error) {
	rows, err := s.todos.SetDone(ctx, id, done, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark todo %d: %w", id, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("todo with ID %d %w", id, ErrNotFound)
	}
	todo, err := s.todos.FindByID(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, "todo", id)
	}
	s.publish(realtime.TableTodos, realtime.ActionUpdate, todo.ID, todo.Date, todo.UserID)

	resp := toTodoResponse(*todo)
	return &resp, nil
}

func (s *plannerService) ReorderTodos(ctx context.Context, userID uint, ids []uint) error {
	if len(ids) == 0 {
		return invalid("no todos to reorder")
	}
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return invalid("todo %d listed twice", id)
		}
		seen[id] = true
	}

	todos, err := s.todos.FindByIDs(ctx, ids, userID)
	if err != nil {
		return fmt.Errorf("failed to load todos for reorder: %w", err)
	}
	if len(todos) != len(ids) {
		return fmt.Errorf("some todos %w", ErrNotFound)
	}

	if err := s.todos.Reorder(ctx, ids, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("some todos %w", ErrNotFound)
		}
		return fmt.Errorf("failed to reorder todos: %w", err)
	}
	for _, t := range todos {
		s.publish(realtime.TableTodos, realtime.ActionUpdate, t.ID, t.Date, t.UserID)
	}
	return nil
}

func (s *plannerService) MoveTodo(ctx context.Context, userID uint, date *time.Time, from, to int) ([]TodoResponse, error) {
	if date != nil {
		d := dates.Day(*date)
		date = &d
	}
	todos, err := s.todos.FindByDate(ctx, date, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load todos: %w", err)
	}

	items := make([]listview.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, listview.Item{ID: t.ID, HasTime: t.Time != nil, Done: t.Done})
	}
	if !listview.CanMove(items, from, to) {
		return nil, invalid("todo at %d cannot be moved to %d", from, to)
	}

	moved := listview.Move(todos, from, to)
	ids := make([]uint, 0, len(moved))
	for _, t := range moved {
		ids = append(ids, t.ID)
	}
	if from != to {
		if err := s.todos.Reorder(ctx, ids, userID); err != nil {
			return nil, fmt.Errorf("failed to persist todo order: %w", err)
		}
		dragged := todos[from]
		s.publish(realtime.TableTodos, realtime.ActionUpdate, dragged.ID, dragged.Date, dragged.UserID)
	}

	orders := listview.Renumber(ids)
	out := make([]TodoResponse, 0, len(moved))
	for _, t := range moved {
		t.Order = orders[t.ID]
		out = append(out, toTodoResponse(t))
	}
	return out, nil
}

// --- multi-select ---

func (s *plannerService) MoveEntries(ctx context.Context, userID uint, t domain.EntryType, ids []uint, date *time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("no entries selected")
	}
	switch t {
	case domain.EntryAppointment:
		rows, err := s.appointments.FindByIDs(ctx, ids, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to load appointments: %w", err)
		}
		n, err := s.appointments.UpdateDate(ctx, ids, date, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to move appointments: %w", err)
		}
		for _, a := range rows {
			s.publishMoved(realtime.TableAppointments, a.ID, a.Date, date, a.UserID)
		}
		return n, nil
	case domain.EntryTodo:
		rows, err := s.todos.FindByIDs(ctx, ids, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to load todos: %w", err)
		}
		n, err := s.todos.UpdateDate(ctx, ids, date, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to move todos: %w", err)
		}
		for _, td := range rows {
			s.publishMoved(realtime.TableTodos, td.ID, td.Date, date, td.UserID)
		}
		return n, nil
	default:
		return 0, invalid("unknown entry type %d", t)
	}
}

func (s *plannerService) MoveEntriesBoth(ctx context.Context, userID uint, appointmentIDs, todoIDs []uint, date *time.Time) (int64, error) {
	if len(appointmentIDs) == 0 || len(todoIDs) == 0 {
		return 0, invalid("both appointments and todos must be selected")
	}
	a, err := s.MoveEntries(ctx, userID, domain.EntryAppointment, appointmentIDs, date)
	if err != nil {
		return 0, err
	}
	t, err := s.MoveEntries(ctx, userID, domain.EntryTodo, todoIDs, date)
	if err != nil {
		return a, err
	}
	return a + t, nil
}

func (s *plannerService) DeleteEntries(ctx context.Context, userID uint, t domain.EntryType, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("no entries selected")
	}
	switch t {
	case domain.EntryAppointment:
		rows, err := s.appointments.FindByIDs(ctx, ids, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to load appointments: %w", err)
		}
		n, err := s.appointments.DeleteMany(ctx, ids, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to delete appointments: %w", err)
		}
		for _, a := range rows {
			s.publish(realtime.TableAppointments, realtime.ActionDelete, a.ID, a.Date, a.UserID)
		}
		return n, nil
	case domain.EntryTodo:
		rows, err := s.todos.FindByIDs(ctx, ids, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to load todos: %w", err)
		}
		n, err := s.todos.DeleteMany(ctx, ids, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to delete todos: %w", err)
		}
		for _, td := range rows {
			s.publish(realtime.TableTodos, realtime.ActionDelete, td.ID, td.Date, td.UserID)
		}
		return n, nil
	default:
		return 0, invalid("unknown entry type %d", t)
	}
}

func (s *plannerService) DeleteEntriesBoth(ctx context.Context, userID uint, appointmentIDs, todoIDs []uint) (int64, error) {
	if len(appointmentIDs) == 0 || len(todoIDs) == 0 {
		return 0, invalid("both appointments and todos must be selected")
	}
	a, err := s.DeleteEntries(ctx, userID, domain.EntryAppointment, appointmentIDs)
	if err != nil {
		return 0, err
	}
	t, err := s.DeleteEntries(ctx, userID, domain.EntryTodo, todoIDs)
	if err != nil {
		return a, err
	}
	return a + t, nil
}

// MultiAction dispatches to the single-type or combined variant depending on
// which kinds of entries are selected.
func (s *plannerService) MultiAction(ctx context.Context, userID uint, req MultiActionRequest) (*MultiActionResponse, error) {
	apps, todos := req.Appointments, req.Todos
	if len(apps) == 0 && len(todos) == 0 {
		return nil, invalid("no entries selected")
	}

	var (
		n   int64
		err error
	)
	switch req.Action {
	case MultiActionDelete:
		switch {
		case len(apps) > 0 && len(todos) > 0:
			n, err = s.DeleteEntriesBoth(ctx, userID, apps, todos)
		case len(apps) > 0:
			n, err = s.DeleteEntries(ctx, userID, domain.EntryAppointment, apps)
		default:
			n, err = s.DeleteEntries(ctx, userID, domain.EntryTodo, todos)
		}
	case MultiActionUpdateDate:
		date, perr := parseDatePtr(req.Date)
		if perr != nil {
			return nil, perr
		}
		switch {
		case len(apps) > 0 && len(todos) > 0:
			n, err = s.MoveEntriesBoth(ctx, userID, apps, todos, date)
		case len(apps) > 0:
			n, err = s.MoveEntries(ctx, userID, domain.EntryAppointment, apps, date)
		default:
			n, err = s.MoveEntries(ctx, userID, domain.EntryTodo, todos, date)
		}
	default:
		return nil, invalid("unknown action %q", req.Action)
	}
	if err != nil {
		return nil, err
	}
	if n == 0 {
		log.Printf("Multi action %s by user %d affected no rows", req.Action, userID)
	}
	return &MultiActionResponse{Action: req.Action, Affected: n}, nil
}
