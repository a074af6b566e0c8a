package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/domain"
	"github.com/Tomlord1122/planner-backend/internal/realtime"

	"gorm.io/gorm"
)

func visible(owner *uint, userID uint) bool {
	return owner == nil || *owner == userID
}

func assigned(owner *uint, userID uint, a domain.Assignment) bool {
	switch a {
	case domain.AssignmentMine:
		return owner != nil && *owner == userID
	case domain.AssignmentShared:
		return owner == nil
	default:
		return visible(owner, userID)
	}
}

func onOrAfter(d *time.Time, from time.Time) bool {
	return d == nil || !d.Before(from)
}

func sameDay(a *time.Time, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return dates.SameDate(*a, *b)
}

// timeLess sorts nil times last, like Postgres' ascending default.
func timeLess(a, b *string) (less, equal bool) {
	switch {
	case a == nil && b == nil:
		return false, true
	case a == nil:
		return false, false
	case b == nil:
		return true, false
	default:
		return *a < *b, *a == *b
	}
}

func contains(id uint, ids []uint) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}

// --- appointments ---

type fakeAppointmentRepo struct {
	mu     sync.Mutex
	rows   map[uint]*domain.Appointment
	nextID uint
	err    error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{rows: map[uint]*domain.Appointment{}}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	a.ID = r.nextID
	a.CreatedAt, a.UpdatedAt = time.Now(), time.Now()
	c := *a
	r.rows[a.ID] = &c
	return nil
}

func (r *fakeAppointmentRepo) FindByID(_ context.Context, id, userID uint) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok || !visible(a.UserID, userID) {
		return nil, gorm.ErrRecordNotFound
	}
	c := *a
	return &c, nil
}

func (r *fakeAppointmentRepo) FindByIDs(_ context.Context, ids []uint, userID uint) ([]domain.Appointment, error) {
	return r.filter(func(a *domain.Appointment) bool { return contains(a.ID, ids) && visible(a.UserID, userID) }), nil
}

func (r *fakeAppointmentRepo) filter(keep func(*domain.Appointment) bool) []domain.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Appointment
	for _, a := range r.rows {
		if keep(a) {
			out = append(out, *a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !sameDay(out[i].Date, out[j].Date) {
			if out[i].Date == nil || out[j].Date == nil {
				return out[j].Date == nil
			}
			return out[i].Date.Before(*out[j].Date)
		}
		if less, eq := timeLess(out[i].Time, out[j].Time); !eq {
			return less
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *fakeAppointmentRepo) FindByDate(_ context.Context, date time.Time, userID uint) ([]domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.filter(func(a *domain.Appointment) bool { return sameDay(a.Date, &date) && visible(a.UserID, userID) }), nil
}

func (r *fakeAppointmentRepo) FindUpcoming(_ context.Context, from time.Time, userID uint, as domain.Assignment, search string) ([]domain.Appointment, error) {
	search = strings.ToLower(strings.TrimSpace(search))
	return r.filter(func(a *domain.Appointment) bool {
		return onOrAfter(a.Date, from) && assigned(a.UserID, userID, as) &&
			strings.Contains(strings.ToLower(a.Name), search)
	}), nil
}

func (r *fakeAppointmentRepo) FindDated(_ context.Context, userID uint) ([]domain.Appointment, error) {
	return r.filter(func(a *domain.Appointment) bool { return a.Date != nil && visible(a.UserID, userID) }), nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, a *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *a
	r.rows[a.ID] = &c
	return nil
}

func (r *fakeAppointmentRepo) UpdateDate(_ context.Context, ids []uint, date *time.Time, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.rows {
		if contains(a.ID, ids) && visible(a.UserID, userID) {
			a.Date = date
			n++
		}
	}
	return n, nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id, userID uint) (int64, error) {
	return r.DeleteMany(context.Background(), []uint{id}, userID)
}

func (r *fakeAppointmentRepo) DeleteMany(_ context.Context, ids []uint, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, a := range r.rows {
		if contains(id, ids) && visible(a.UserID, userID) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

// --- todos ---

type fakeTodoRepo struct {
	mu     sync.Mutex
	rows   map[uint]*domain.Todo
	nextID uint
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{rows: map[uint]*domain.Todo{}}
}

func (r *fakeTodoRepo) Create(_ context.Context, t *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt, t.UpdatedAt = time.Now(), time.Now()
	c := *t
	r.rows[t.ID] = &c
	return nil
}

func (r *fakeTodoRepo) FindByID(_ context.Context, id, userID uint) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[id]
	if !ok || !visible(t.UserID, userID) {
		return nil, gorm.ErrRecordNotFound
	}
	c := *t
	return &c, nil
}

func (r *fakeTodoRepo) FindByIDs(_ context.Context, ids []uint, userID uint) ([]domain.Todo, error) {
	return r.filter(func(t *domain.Todo) bool { return contains(t.ID, ids) && visible(t.UserID, userID) }), nil
}

func (r *fakeTodoRepo) filter(keep func(*domain.Todo) bool) []domain.Todo {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Todo
	for _, t := range r.rows {
		if keep(t) {
			out = append(out, *t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !sameDay(a.Date, b.Date) {
			if a.Date == nil || b.Date == nil {
				return b.Date == nil
			}
			return a.Date.Before(*b.Date)
		}
		if a.Done != b.Done {
			return !a.Done
		}
		if less, eq := timeLess(a.Time, b.Time); !eq {
			return less
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	return out
}

func (r *fakeTodoRepo) FindByDate(_ context.Context, date *time.Time, userID uint) ([]domain.Todo, error) {
	return r.filter(func(t *domain.Todo) bool { return sameDay(t.Date, date) && visible(t.UserID, userID) }), nil
}

func (r *fakeTodoRepo) FindUpcoming(_ context.Context, from time.Time, userID uint, as domain.Assignment, search string) ([]domain.Todo, error) {
	search = strings.ToLower(strings.TrimSpace(search))
	return r.filter(func(t *domain.Todo) bool {
		return onOrAfter(t.Date, from) && assigned(t.UserID, userID, as) &&
			strings.Contains(strings.ToLower(t.Name), search)
	}), nil
}

func (r *fakeTodoRepo) FindDated(_ context.Context, userID uint) ([]domain.Todo, error) {
	return r.filter(func(t *domain.Todo) bool { return t.Date != nil && visible(t.UserID, userID) }), nil
}

func (r *fakeTodoRepo) Update(_ context.Context, t *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *t
	r.rows[t.ID] = &c
	return nil
}

func (r *fakeTodoRepo) SetDone(_ context.Context, id uint, done bool, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[id]
	if !ok || !visible(t.UserID, userID) {
		return 0, nil
	}
	t.Done = done
	return 1, nil
}

func (r *fakeTodoRepo) Reorder(_ context.Context, ids []uint, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if t, ok := r.rows[id]; !ok || !visible(t.UserID, userID) {
			return gorm.ErrRecordNotFound
		}
	}
	for i, id := range ids {
		r.rows[id].Order = i
	}
	return nil
}

func (r *fakeTodoRepo) UpdateDate(_ context.Context, ids []uint, date *time.Time, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.rows {
		if contains(t.ID, ids) && visible(t.UserID, userID) {
			t.Date = date
			n++
		}
	}
	return n, nil
}

func (r *fakeTodoRepo) Delete(_ context.Context, id, userID uint) (int64, error) {
	return r.DeleteMany(context.Background(), []uint{id}, userID)
}

func (r *fakeTodoRepo) DeleteMany(_ context.Context, ids []uint, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, t := range r.rows {
		if contains(id, ids) && visible(t.UserID, userID) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

// --- meals ---

type fakeMealRepo struct {
	mu         sync.Mutex
	meals      map[uint]*domain.Meal
	plans      map[string]*domain.MealPlan
	nextMealID uint
	nextPlanID uint
}

func newFakeMealRepo() *fakeMealRepo {
	return &fakeMealRepo{meals: map[uint]*domain.Meal{}, plans: map[string]*domain.MealPlan{}}
}

func (r *fakeMealRepo) CreateMeal(_ context.Context, m *domain.Meal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextMealID++
	m.ID = r.nextMealID
	c := *m
	r.meals[m.ID] = &c
	return nil
}

func (r *fakeMealRepo) FindMeal(_ context.Context, id uint) (*domain.Meal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *m
	return &c, nil
}

func (r *fakeMealRepo) ListMeals(_ context.Context) ([]domain.Meal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Meal
	for _, m := range r.meals {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeMealRepo) UpdateMeal(_ context.Context, m *domain.Meal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *m
	r.meals[m.ID] = &c
	return nil
}

func (r *fakeMealRepo) DeleteMeal(_ context.Context, id uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meals[id]; !ok {
		return 0, nil
	}
	delete(r.meals, id)
	return 1, nil
}

func (r *fakeMealRepo) withMeals(p domain.MealPlan) domain.MealPlan {
	if p.LunchID != nil {
		if m, ok := r.meals[*p.LunchID]; ok {
			c := *m
			p.Lunch = &c
		}
	}
	if p.DinnerID != nil {
		if m, ok := r.meals[*p.DinnerID]; ok {
			c := *m
			p.Dinner = &c
		}
	}
	return p
}

func (r *fakeMealRepo) FindPlan(_ context.Context, date time.Time) (*domain.MealPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[dates.FormatDate(date)]
	if !ok {
		return nil, nil
	}
	c := r.withMeals(*p)
	return &c, nil
}

func (r *fakeMealRepo) FindPlansFrom(_ context.Context, from time.Time) ([]domain.MealPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.MealPlan
	for _, p := range r.plans {
		if !p.Date.Before(from) {
			out = append(out, r.withMeals(*p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *fakeMealRepo) SavePlan(_ context.Context, p *domain.MealPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := dates.FormatDate(p.Date)
	if existing, ok := r.plans[key]; ok {
		existing.LunchID, existing.DinnerID = p.LunchID, p.DinnerID
		p.ID = existing.ID
		return nil
	}
	r.nextPlanID++
	p.ID = r.nextPlanID
	c := *p
	r.plans[key] = &c
	return nil
}

func (r *fakeMealRepo) DeletePlan(_ context.Context, date time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := dates.FormatDate(date)
	if _, ok := r.plans[key]; !ok {
		return 0, nil
	}
	delete(r.plans, key)
	return 1, nil
}

// --- grocery ---

type fakeGroceryRepo struct {
	mu     sync.Mutex
	rows   map[uint]*domain.GroceryItem
	nextID uint
}

func newFakeGroceryRepo() *fakeGroceryRepo {
	return &fakeGroceryRepo{rows: map[uint]*domain.GroceryItem{}}
}

func (r *fakeGroceryRepo) Create(_ context.Context, it *domain.GroceryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	it.ID = r.nextID
	c := *it
	r.rows[it.ID] = &c
	return nil
}

func (r *fakeGroceryRepo) FindByID(_ context.Context, id, userID uint) (*domain.GroceryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.rows[id]
	if !ok || !visible(it.UserID, userID) {
		return nil, gorm.ErrRecordNotFound
	}
	c := *it
	return &c, nil
}

func (r *fakeGroceryRepo) List(_ context.Context, userID uint) ([]domain.GroceryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.GroceryItem
	for _, it := range r.rows {
		if visible(it.UserID, userID) {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Done != out[j].Done {
			return !out[i].Done
		}
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeGroceryRepo) Update(_ context.Context, it *domain.GroceryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *it
	r.rows[it.ID] = &c
	return nil
}

func (r *fakeGroceryRepo) Reorder(_ context.Context, ids []uint, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if it, ok := r.rows[id]; !ok || !visible(it.UserID, userID) {
			return gorm.ErrRecordNotFound
		}
	}
	for i, id := range ids {
		r.rows[id].Order = i
	}
	return nil
}

func (r *fakeGroceryRepo) Delete(_ context.Context, id, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.rows[id]
	if !ok || !visible(it.UserID, userID) {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

func (r *fakeGroceryRepo) DeleteDone(_ context.Context, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, it := range r.rows {
		if it.Done && visible(it.UserID, userID) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

// --- users, sessions, preferences ---

type fakeUserRepo struct {
	mu     sync.Mutex
	rows   map[uint]*domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{rows: map[uint]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.rows {
		if other.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	c := *u
	r.rows[u.ID] = &c
	return nil
}

func (r *fakeUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByResetToken(_ context.Context, token string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ResetToken != nil && *u.ResetToken == token })
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *u
	r.rows[u.ID] = &c
	return nil
}

type fakeSessionRepo struct {
	mu   sync.Mutex
	rows map[string]domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{rows: map[string]domain.Session{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[s.Token] = *s
	return nil
}

func (r *fakeSessionRepo) FindValid(_ context.Context, token string, now time.Time) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[token]
	if !ok || !s.ExpiresAt.After(now) {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, token)
	return nil
}

func (r *fakeSessionRepo) DeleteForUser(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, s := range r.rows {
		if s.UserID == userID {
			delete(r.rows, token)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for token, s := range r.rows {
		if !s.ExpiresAt.After(now) {
			delete(r.rows, token)
			n++
		}
	}
	return n, nil
}

type fakePreferenceRepo struct {
	mu   sync.Mutex
	rows map[uint]map[string]bool
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{rows: map[uint]map[string]bool{}}
}

func (r *fakePreferenceRepo) List(_ context.Context, userID uint) ([]domain.Preference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Preference
	for k, v := range r.rows[userID] {
		out = append(out, domain.Preference{UserID: userID, Key: k, Value: v})
	}
	return out, nil
}

func (r *fakePreferenceRepo) Set(_ context.Context, p *domain.Preference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rows[p.UserID] == nil {
		r.rows[p.UserID] = map[string]bool{}
	}
	r.rows[p.UserID][p.Key] = p.Value
	return nil
}

// --- events ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (p *recordingPublisher) Publish(e realtime.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) all() []realtime.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]realtime.Event(nil), p.events...)
}
