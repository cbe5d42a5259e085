// Package selection tracks the primary plus multi-selection set over
// record ids and keeps the scene highlight consistent with membership.
package selection

import "github.com/fairwaylab/greenside/internal/editor/document"

// Highlighter applies the visual selection highlight. The scene mirror
// implements it.
type Highlighter interface {
	SetHighlight(id document.ID, on bool)
}

// Selection holds a primary id plus a member set. Invariants: the
// primary is always a member, and with no members there is no primary.
type Selection struct {
	hl      Highlighter
	primary document.ID // 0 = none
	members map[document.ID]struct{}
	order   []document.ID
}

// New creates an empty selection highlighting through hl.
func New(hl Highlighter) *Selection {
	return &Selection{
		hl:      hl,
		members: make(map[document.ID]struct{}),
	}
}

// Select replaces the whole selection with a single id.
func (s *Selection) Select(id document.ID) {
	s.Clear()
	s.add(id)
	s.primary = id
}

// Toggle adds or removes an id from the set. When the primary is
// removed, any remaining member becomes primary.
func (s *Selection) Toggle(id document.ID) {
	if _, ok := s.members[id]; ok {
		s.remove(id)
		if s.primary == id {
			s.primary = 0
			if len(s.order) > 0 {
				s.primary = s.order[len(s.order)-1]
			}
		}
		return
	}
	s.add(id)
	s.primary = id
}

// Clear empties the selection and removes every highlight.
func (s *Selection) Clear() {
	for id := range s.members {
		s.hl.SetHighlight(id, false)
	}
	s.members = make(map[document.ID]struct{})
	s.order = s.order[:0]
	s.primary = 0
}

// Replace sets the selection to exactly the given ids. The last id
// becomes primary.
func (s *Selection) Replace(ids []document.ID) {
	s.Clear()
	for _, id := range ids {
		s.add(id)
		s.primary = id
	}
}

func (s *Selection) add(id document.ID) {
	if _, ok := s.members[id]; ok {
		return
	}
	s.members[id] = struct{}{}
	s.order = append(s.order, id)
	s.hl.SetHighlight(id, true)
}

func (s *Selection) remove(id document.ID) {
	delete(s.members, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.hl.SetHighlight(id, false)
}

// Primary returns the primary id, or 0 when the selection is empty.
func (s *Selection) Primary() document.ID { return s.primary }

// Contains reports membership.
func (s *Selection) Contains(id document.ID) bool {
	_, ok := s.members[id]
	return ok
}

// Len returns the member count.
func (s *Selection) Len() int { return len(s.members) }

// ForEach visits every member in insertion order.
func (s *Selection) ForEach(cb func(id document.ID)) {
	for _, id := range s.order {
		cb(id)
	}
}

// IDs returns the members in insertion order.
func (s *Selection) IDs() []document.ID {
	out := make([]document.ID, len(s.order))
	copy(out, s.order)
	return out
}
