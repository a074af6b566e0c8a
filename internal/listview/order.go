package listview

// Item is what the list needs to know about a row to judge a drag.
type Item struct {
	ID      uint
	HasTime bool
	Done    bool
	Past    bool
}

// CanMove reports whether the row at from may be dropped at to. Rows with a
// time are sorted by it and never move, done rows stay where they are, and a
// row cannot be dropped onto a timed row.
func CanMove(items []Item, from, to int) bool {
	if from < 0 || to < 0 || from >= len(items) || to >= len(items) {
		return false
	}
	if from == to {
		return true
	}
	dragged, target := items[from], items[to]
	if dragged.Done {
		return false
	}
	return !dragged.HasTime && !target.HasTime
}

// Move returns a copy of items with the element at from moved to index to.
func Move[T any](items []T, from, to int) []T {
	out := make([]T, 0, len(items))
	out = append(out, items...)
	if from < 0 || to < 0 || from >= len(out) || to >= len(out) || from == to {
		return out
	}
	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out
}

// Renumber assigns each id its position in ids, starting at zero.
func Renumber(ids []uint) map[uint]int {
	orders := make(map[uint]int, len(ids))
	for i, id := range ids {
		orders[id] = i
	}
	return orders
}

// NextOrder returns the order value for a row appended to a list holding the
// given orders: one past the highest, or zero for an empty list. Rows may have
// been deleted, so the length of the list is not used.
func NextOrder(orders []int) int {
	if len(orders) == 0 {
		return 0
	}
	highest := orders[0]
	for _, o := range orders[1:] {
		if o > highest {
			highest = o
		}
	}
	return highest + 1
}

// ShowAllDisabled reports whether the "show all" toggle has nothing to reveal:
// no done todo and no past appointment.
func ShowAllDisabled(items []Item) bool {
	for _, it := range items {
		if it.Done || it.Past {
			return false
		}
	}
	return true
}
