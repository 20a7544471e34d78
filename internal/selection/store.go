package selection

import (
	"github.com/ruminaider/dashpick/internal/catalog"
)

// Store is the authoritative set of selected keys over the full universe,
// independent of whatever filter the UI applies. Keys outside the universe
// are never held.
//
// Every mutation that changes the selection fires the change callback exactly
// once; a mutation that changes nothing fires nothing. Inside a Suppress
// scope notifications are withheld and coalesced into at most one at release.
type Store struct {
	universe    *catalog.Catalog
	selected    map[string]struct{}
	allSelected bool

	onChange   func()
	suppressed bool
}

// NewStore creates a store with an empty universe.
func NewStore() *Store {
	return &Store{
		universe: catalog.Empty(),
		selected: make(map[string]struct{}),
	}
}

// OnChange registers the change subscriber, replacing any previous one. The
// callback carries no payload; subscribers re-read Selected.
func (s *Store) OnChange(fn func()) {
	s.onChange = fn
}

// Universe returns the current universe catalog.
func (s *Store) Universe() *catalog.Catalog {
	return s.universe
}

// SetUniverse replaces the universe. Selected keys missing from the new
// universe are dropped silently. Outside a suppression scope a drop that
// changes the selection notifies once.
func (s *Store) SetUniverse(c *catalog.Catalog) {
	if c == nil {
		c = catalog.Empty()
	}
	s.universe = c
	changed := false
	for k := range s.selected {
		if !c.Has(k) {
			delete(s.selected, k)
			changed = true
		}
	}
	s.commit(changed)
}

// Select adds keys to the selection. Unknown keys are ignored.
func (s *Store) Select(keys ...string) {
	changed := false
	for _, k := range keys {
		changed = s.add(k) || changed
	}
	s.commit(changed)
}

// Deselect removes keys from the selection. Unknown keys are ignored.
func (s *Store) Deselect(keys ...string) {
	changed := false
	for _, k := range keys {
		changed = s.remove(k) || changed
	}
	s.commit(changed)
}

// Toggle flips the selection status of key. Unknown keys are ignored.
func (s *Store) Toggle(key string) {
	if !s.universe.Has(key) {
		return
	}
	if _, ok := s.selected[key]; ok {
		s.remove(key)
	} else {
		s.add(key)
	}
	s.commit(true)
}

// Reset replaces the whole selection with exactly the known subset of keys.
func (s *Store) Reset(keys []string) {
	next := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if s.universe.Has(k) {
			next[k] = struct{}{}
		}
	}
	changed := !sameSet(s.selected, next)
	s.selected = next
	s.commit(changed)
}

// SelectAll selects every key in the universe.
func (s *Store) SelectAll() {
	s.Select(s.universe.Keys()...)
}

// SelectVisible selects exactly the visible keys and leaves every other key
// as it was. An empty or nil visible list selects nothing.
func (s *Store) SelectVisible(visible []string) {
	s.Select(visible...)
}

// SelectNone clears the selection.
func (s *Store) SelectNone() {
	changed := len(s.selected) > 0
	s.selected = make(map[string]struct{})
	s.commit(changed)
}

// DeselectVisible deselects exactly the visible keys and leaves every other
// key as it was. An empty or nil visible list deselects nothing.
func (s *Store) DeselectVisible(visible []string) {
	s.Deselect(visible...)
}

// Selected returns the selected keys in catalog order.
func (s *Store) Selected() []string {
	keys := make([]string, 0, len(s.selected))
	for k := range s.selected {
		keys = append(keys, k)
	}
	return s.universe.Order(keys)
}

// IsSelected reports whether key is selected.
func (s *Store) IsSelected(key string) bool {
	_, ok := s.selected[key]
	return ok
}

// Count returns the number of selected keys.
func (s *Store) Count() int {
	return len(s.selected)
}

// AllSelected reports whether every item of a non-empty universe is selected.
func (s *Store) AllSelected() bool {
	return s.allSelected
}

func (s *Store) add(key string) bool {
	if !s.universe.Has(key) {
		return false
	}
	if _, ok := s.selected[key]; ok {
		return false
	}
	s.selected[key] = struct{}{}
	return true
}

func (s *Store) remove(key string) bool {
	if _, ok := s.selected[key]; !ok {
		return false
	}
	delete(s.selected, key)
	return true
}

// commit refreshes the all-selected flag and notifies when the selection
// changed outside a suppression scope.
func (s *Store) commit(changed bool) {
	s.allSelected = s.universe.Len() > 0 && len(s.selected) == s.universe.Len()
	if changed && !s.suppressed {
		s.notify()
	}
}

func (s *Store) notify() {
	if s.onChange == nil {
		return
	}
	s.onChange()
}

func (s *Store) snapshot() map[string]struct{} {
	cp := make(map[string]struct{}, len(s.selected))
	for k := range s.selected {
		cp[k] = struct{}{}
	}
	return cp
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
