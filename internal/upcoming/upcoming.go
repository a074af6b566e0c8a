// Package upcoming turns the flat lists of appointments and todos into the
// day-grouped view shown on the upcoming page.
package upcoming

import (
	"sort"
	"time"

	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/domain"
)

// Entry is an appointment or a todo in the merged list.
type Entry struct {
	ID     uint             `json:"id"`
	Type   domain.EntryType `json:"type"`
	Name   string           `json:"name"`
	Date   *time.Time       `json:"date"`
	Time   *string          `json:"time"`
	Notes  string           `json:"notes,omitempty"`
	Done   bool             `json:"done"`
	Order  int              `json:"order"`
	UserID *uint            `json:"user_id"`
	Past   bool             `json:"past"`
}

// Group is one calendar day of the upcoming list.
type Group struct {
	Name    string     `json:"name"`
	Date    *time.Time `json:"date"`
	DayName string     `json:"day_name,omitempty"`
	Entries []Entry    `json:"entries"`
}

// DateFilter narrows the grouped list to a period.
type DateFilter int

const (
	FilterNone DateFilter = iota
	FilterNoDate
	FilterThisWeek
	FilterNextWeek
	FilterThisMonth
	FilterNextMonth
)

func (f DateFilter) Valid() bool {
	return f >= FilterNone && f <= FilterNextMonth
}

// ToggleFilter returns the filter that is active after clicking clicked while
// selected is active: clicking the active filter switches filtering off.
func ToggleFilter(selected, clicked DateFilter) DateFilter {
	if selected != FilterNone && selected == clicked {
		return FilterNone
	}
	return clicked
}

func FromAppointment(a domain.Appointment) Entry {
	return Entry{
		ID:     a.ID,
		Type:   domain.EntryAppointment,
		Name:   a.Name,
		Date:   a.Date,
		Time:   normalizeTime(a.Time),
		Notes:  a.Notes,
		Order:  a.Order,
		UserID: a.UserID,
	}
}

func FromTodo(t domain.Todo) Entry {
	return Entry{
		ID:     t.ID,
		Type:   domain.EntryTodo,
		Name:   t.Name,
		Date:   t.Date,
		Time:   normalizeTime(t.Time),
		Done:   t.Done,
		Order:  t.Order,
		UserID: t.UserID,
	}
}

func normalizeTime(t *string) *string {
	if t == nil || *t == "" {
		return nil
	}
	n, err := dates.NormalizeTime(*t)
	if err != nil {
		return t
	}
	return &n
}

// Merge tags both lists with their entry type and concatenates them,
// appointments first.
func Merge(appointments []domain.Appointment, todos []domain.Todo) []Entry {
	entries := make([]Entry, 0, len(appointments)+len(todos))
	for _, a := range appointments {
		entries = append(entries, FromAppointment(a))
	}
	for _, t := range todos {
		entries = append(entries, FromTodo(t))
	}
	return entries
}

// Grouper groups entries by calendar day using the labels and clock of a
// dates.Service.
type Grouper struct {
	dates *dates.Service
}

func NewGrouper(d *dates.Service) *Grouper {
	return &Grouper{dates: d}
}

// Group buckets entries by day. The no-date group always comes first, the
// rest follow chronologically. Entries keep their relative order.
func (g *Grouper) Group(entries []Entry) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)

	for _, e := range entries {
		key := ""
		if e.Date != nil {
			key = dates.FormatDate(*e.Date)
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, g.newGroup(e.Date))
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Date, groups[j].Date
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})
	return groups
}

func (g *Grouper) newGroup(date *time.Time) Group {
	if date == nil {
		return Group{Name: g.dates.NoDateLabel()}
	}
	d := dates.Day(*date)
	return Group{
		Name:    g.dates.FormatDisplay(d),
		Date:    &d,
		DayName: g.dates.DayLabel(&d),
	}
}

// FilterByDate keeps the groups falling into the period f.
func (g *Grouper) FilterByDate(groups []Group, f DateFilter) []Group {
	if f == FilterNone {
		return groups
	}
	out := make([]Group, 0, len(groups))
	for _, grp := range groups {
		if g.matches(grp.Date, f) {
			out = append(out, grp)
		}
	}
	return out
}

func (g *Grouper) matches(d *time.Time, f DateFilter) bool {
	if f == FilterNoDate {
		return d == nil
	}
	if d == nil {
		return false
	}
	switch f {
	case FilterThisWeek:
		return g.dates.IsInThisWeek(*d)
	case FilterNextWeek:
		return g.dates.IsNextWeek(*d)
	case FilterThisMonth:
		return g.dates.IsInThisMonth(*d)
	case FilterNextMonth:
		return g.dates.IsInNextMonth(*d)
	}
	return false
}

// FilterByType keeps entries of type t and regroups them, dropping days that
// end up empty.
func (g *Grouper) FilterByType(groups []Group, t domain.EntryType) []Group {
	var kept []Entry
	for _, grp := range groups {
		for _, e := range grp.Entries {
			if e.Type == t {
				kept = append(kept, e)
			}
		}
	}
	return g.Group(kept)
}
