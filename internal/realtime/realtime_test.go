package realtime

import (
	"sync"
	"testing"
	"time"

	"github.com/Tomlord1122/planner-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker(4)
	a, cancelA := b.Subscribe()
	c, cancelC := b.Subscribe()
	defer cancelA()
	defer cancelC()

	b.Publish(Event{Table: TableTodos, Action: ActionInsert, ID: 7})

	for _, ch := range []<-chan Event{a, c} {
		select {
		case e := <-ch:
			assert.Equal(t, uint(7), e.ID)
			assert.False(t, e.At.IsZero())
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	b := NewBroker(1)
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Publish(Event{ID: 1})
	b.Publish(Event{ID: 2}) // buffer full, dropped without blocking

	e := <-ch
	assert.Equal(t, uint(1), e.ID)
	select {
	case e := <-ch:
		t.Fatalf("unexpected event %d", e.ID)
	default:
	}
}

func TestBrokerCancelAndClose(t *testing.T) {
	b := NewBroker(1)
	ch, cancel := b.Subscribe()
	require.Equal(t, 1, b.Subscribers())

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.Subscribers())

	other, _ := b.Subscribe()
	b.Close()
	_, ok = <-other
	assert.False(t, ok)

	late, _ := b.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}

func TestBrokerConcurrentPublish(t *testing.T) {
	b := NewBroker(1000)
	ch, cancel := b.Subscribe()
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b.Publish(Event{Table: TableTodos})
			}
		}()
	}
	wg.Wait()
	assert.Len(t, ch, 500)
}

func TestShouldReload(t *testing.T) {
	me, other := uint(1), uint(2)
	selected := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	sameDay := selected
	otherDay := selected.AddDate(0, 0, 3)

	planner := View{Name: ViewPlanner, Date: selected, UserID: me}
	upcomingAll := View{Name: ViewUpcoming, Date: selected, UserID: me, Assignment: domain.AssignmentAll}
	upcomingMine := View{Name: ViewUpcoming, Date: selected, UserID: me, Assignment: domain.AssignmentMine}

	tests := []struct {
		name string
		view View
		ev   Event
		want bool
	}{
		{"planner shared todo same day", planner, Event{Table: TableTodos, Date: &sameDay}, true},
		{"planner shared todo other day", planner, Event{Table: TableTodos, Date: &otherDay}, false},
		{"planner own todo other day", planner, Event{Table: TableTodos, Date: &otherDay, UserID: &me}, true},
		{"planner foreign todo same day", planner, Event{Table: TableTodos, Date: &sameDay, UserID: &other}, false},
		{"planner shared appointment same day", planner, Event{Table: TableAppointments, Date: &sameDay}, true},
		{"planner own appointment same day", planner, Event{Table: TableAppointments, Date: &sameDay, UserID: &me}, false},
		{"planner meal plan same day", planner, Event{Table: TableMealPlan, Date: &sameDay}, true},
		{"planner meal plan other day", planner, Event{Table: TableMealPlan, Date: &otherDay}, false},
		{"planner grocery foreign", planner, Event{Table: TableGrocery, UserID: &other}, false},
		{"upcoming shared appointment on all tab", upcomingAll, Event{Table: TableAppointments, Date: &otherDay}, true},
		{"upcoming shared appointment on mine tab", upcomingMine, Event{Table: TableAppointments, Date: &otherDay}, false},
		{"upcoming own todo", upcomingMine, Event{Table: TableTodos, UserID: &me}, true},
		{"upcoming meal plan ahead", upcomingAll, Event{Table: TableMealPlan, Date: &otherDay}, true},
		{"upcoming undated shared todo", upcomingAll, Event{Table: TableTodos}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.ShouldReload(tt.ev))
		})
	}
}
