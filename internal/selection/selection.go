// Package selection holds the set of selected item indices.
//
// Set is the receiver a drag-select engine writes into. It is bounded by a
// limit (the item count); indices outside [0, limit) are rejected with an
// IndexError while valid indices in the same call are still applied.
package selection

import (
	"sort"
	"sync"
)

// Range is a contiguous run of selected indices, Start..End inclusive.
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// Contains returns true if index lies within the range.
func (r Range) Contains(index int) bool {
	return index >= r.Start && index <= r.End
}

// Change describes indices whose state actually changed.
type Change struct {
	// Indices changed state, sorted ascending.
	Indices []int
	// Selected is the new state of every index in Indices.
	Selected bool
}

// Set is a bounded set of selected indices. It is safe for concurrent use.
type Set struct {
	mu sync.RWMutex

	limit    int
	selected map[int]struct{}

	listeners []func(Change)
}

// NewSet creates an empty set accepting indices in [0, limit).
func NewSet(limit int) *Set {
	if limit < 0 {
		limit = 0
	}
	return &Set{
		limit:    limit,
		selected: make(map[int]struct{}),
	}
}

// Limit returns the exclusive upper bound on indices.
func (s *Set) Limit() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limit
}

// SetLimit changes the bound. Selected indices at or above the new limit
// are dropped and reported as a deselection.
func (s *Set) SetLimit(limit int) {
	if limit < 0 {
		limit = 0
	}

	s.mu.Lock()
	s.limit = limit
	var dropped []int
	for i := range s.selected {
		if i >= limit {
			delete(s.selected, i)
			dropped = append(dropped, i)
		}
	}
	listeners := s.listeners
	s.mu.Unlock()

	if len(dropped) > 0 {
		sort.Ints(dropped)
		notify(listeners, Change{Indices: dropped, Selected: false})
	}
}

// SetSelected marks indices selected or deselected. Out-of-range indices
// are collected into an IndexError; the rest are applied regardless.
func (s *Set) SetSelected(indices []int, selected bool) error {
	s.mu.Lock()
	var (
		changed []int
		bad     []int
	)
	for _, i := range indices {
		if i < 0 || i >= s.limit {
			bad = append(bad, i)
			continue
		}
		_, was := s.selected[i]
		if was == selected {
			continue
		}
		if selected {
			s.selected[i] = struct{}{}
		} else {
			delete(s.selected, i)
		}
		changed = append(changed, i)
	}
	limit := s.limit
	listeners := s.listeners
	s.mu.Unlock()

	if len(changed) > 0 {
		sort.Ints(changed)
		notify(listeners, Change{Indices: changed, Selected: selected})
	}
	if len(bad) > 0 {
		return &IndexError{Indices: bad, Limit: limit}
	}
	return nil
}

// IsSelected returns true if index is selected.
func (s *Set) IsSelected(index int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[index]
	return ok
}

// Toggle flips the state of a single index.
func (s *Set) Toggle(index int) error {
	return s.SetSelected([]int{index}, !s.IsSelected(index))
}

// Count returns the number of selected indices.
func (s *Set) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected)
}

// Selected returns the selected indices in ascending order.
func (s *Set) Selected() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]int, 0, len(s.selected))
	for i := range s.selected {
		result = append(result, i)
	}
	sort.Ints(result)
	return result
}

// Ranges returns the selection as ascending contiguous runs.
func (s *Set) Ranges() []Range {
	indices := s.Selected()
	if len(indices) == 0 {
		return nil
	}

	ranges := make([]Range, 0, 1)
	cur := Range{Start: indices[0], End: indices[0]}
	for _, i := range indices[1:] {
		if i == cur.End+1 {
			cur.End = i
			continue
		}
		ranges = append(ranges, cur)
		cur = Range{Start: i, End: i}
	}
	return append(ranges, cur)
}

// Clear deselects everything.
func (s *Set) Clear() {
	s.mu.Lock()
	if len(s.selected) == 0 {
		s.mu.Unlock()
		return
	}
	cleared := make([]int, 0, len(s.selected))
	for i := range s.selected {
		cleared = append(cleared, i)
	}
	s.selected = make(map[int]struct{})
	listeners := s.listeners
	s.mu.Unlock()

	sort.Ints(cleared)
	notify(listeners, Change{Indices: cleared, Selected: false})
}

// OnChange registers fn to run after every effective change. Callbacks run
// outside the set's lock and may read the set.
func (s *Set) OnChange(fn func(Change)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners[:len(s.listeners):len(s.listeners)], fn)
}

func notify(listeners []func(Change), c Change) {
	for _, fn := range listeners {
		fn(c)
	}
}
