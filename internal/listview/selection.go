package listview

// Selection is the multi-select state of one list.
type Selection struct {
	open bool
	ids  []uint
}

func (s *Selection) Open() { s.open = true }

// Close leaves multi-select mode and forgets the selection.
func (s *Selection) Close() {
	s.open = false
	s.ids = nil
}

func (s *Selection) IsOpen() bool { return s.open }

// Toggle adds or removes id and reports whether it is selected afterwards.
// Outside multi-select mode it does nothing.
func (s *Selection) Toggle(id uint) bool {
	if !s.open {
		return false
	}
	for i, sel := range s.ids {
		if sel == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return false
		}
	}
	s.ids = append(s.ids, id)
	return true
}

func (s *Selection) Selected(id uint) bool {
	for _, sel := range s.ids {
		if sel == id {
			return true
		}
	}
	return false
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []uint {
	out := make([]uint, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Selection) Len() int { return len(s.ids) }
