// Package selector composes the catalog, filter, selection store and bridge
// into an instance pick-list: a controlled value in, a filtered view and a
// selection handle out.
package selector

import (
	"fmt"
	"strings"

	"github.com/ruminaider/dashpick/internal/bridge"
	"github.com/ruminaider/dashpick/internal/catalog"
	"github.com/ruminaider/dashpick/internal/filter"
	"github.com/ruminaider/dashpick/internal/selection"
	"github.com/ruminaider/dashpick/internal/topology"
)

// Options configures a Selector.
type Options struct {
	DefaultSelectAll bool
	IncludeTiFlash   bool
	// Matcher narrows the dropdown. Nil matches key, label, status and
	// component.
	Matcher filter.Matcher
	// OnChange receives every new value originated by the user.
	OnChange func(value []string)
}

// Selector is a single mounted instance pick-list. It is not safe for
// concurrent use; feed it from one goroutine.
type Selector struct {
	opts    Options
	catalog *catalog.Catalog
	store   *selection.Store
	bridge  *bridge.Bridge

	keyword string
	loading bool
	err     error
}

// New creates an unmounted selector.
func New(opts Options) *Selector {
	if opts.Matcher == nil {
		opts.Matcher = filter.Attrs(topology.AttrStatus, topology.AttrComponent)
	}
	s := &Selector{
		opts:    opts,
		catalog: catalog.Empty(),
		store:   selection.NewStore(),
		loading: true,
	}
	s.bridge = bridge.New(s.store, bridge.Options{
		DefaultSelectAll: opts.DefaultSelectAll,
		Setter:           s.push,
	})
	return s
}

// Mount starts tracking value.
func (s *Selector) Mount(value []string) {
	s.bridge.Mount(value)
}

// Unmount tears the selector down; later Apply calls are no-ops.
func (s *Selector) Unmount() {
	s.bridge.Unmount()
}

// Apply feeds a topology result. While loading the catalog is reported empty
// and the selection is left alone. A catalog that fails to build keeps the
// last good one and freezes the selection until a good snapshot arrives.
func (s *Selector) Apply(snap topology.Snapshot, loading bool) error {
	if s.bridge.State() == bridge.Uninitialized {
		return nil
	}
	s.loading = loading
	if loading {
		s.bridge.DataLoaded(catalog.Empty(), true)
		return nil
	}
	c, err := catalog.Rebuild(topology.BuildInstanceTable(snap, s.opts.IncludeTiFlash))
	if err != nil {
		s.err = err
		return err
	}
	s.err = nil
	s.catalog = c
	s.bridge.DataLoaded(c, false)
	return nil
}

// SetValue reports an external change of the controlled value.
func (s *Selector) SetValue(value []string) {
	s.bridge.ExternalValueChanged(value)
}

// Value returns the current controlled value.
func (s *Selector) Value() []string {
	return s.bridge.Value()
}

// State returns the bridge lifecycle state.
func (s *Selector) State() bridge.State {
	return s.bridge.State()
}

// Err returns the last catalog build error, if the selection is frozen.
func (s *Selector) Err() error {
	return s.err
}

// Disabled reports whether upstream data is still loading.
func (s *Selector) Disabled() bool {
	return s.loading
}

// Catalog returns the current catalog, or the empty catalog while loading.
func (s *Selector) Catalog() *catalog.Catalog {
	if s.loading {
		return catalog.Empty()
	}
	return s.catalog
}

// Keyword returns the active filter keyword.
func (s *Selector) Keyword() string {
	return s.keyword
}

// SetKeyword changes the filter. It never changes the selection.
func (s *Selector) SetKeyword(kw string) {
	s.keyword = kw
}

// Visible returns the filtered item list in catalog order.
func (s *Selector) Visible() []catalog.Item {
	return filter.Filter(s.Catalog(), s.keyword, s.opts.Matcher)
}

// Toggle flips one key.
func (s *Selector) Toggle(key string) {
	if s.frozen() {
		return
	}
	s.store.Toggle(key)
}

// SelectAllVisible selects exactly the currently visible items.
func (s *Selector) SelectAllVisible() {
	if s.frozen() {
		return
	}
	s.store.SelectVisible(filter.VisibleKeys(s.Visible()))
}

// SelectNoneVisible deselects exactly the currently visible items.
func (s *Selector) SelectNoneVisible() {
	if s.frozen() {
		return
	}
	s.store.DeselectVisible(filter.VisibleKeys(s.Visible()))
}

// IsSelected reports whether key is selected.
func (s *Selector) IsSelected(key string) bool {
	return s.store.IsSelected(key)
}

// Selected returns the selected keys in catalog order.
func (s *Selector) Selected() []string {
	return s.store.Selected()
}

// InstanceByKeys returns the items for keys, aligned with keys.
func (s *Selector) InstanceByKeys(keys []string) []catalog.Item {
	return s.catalog.LookupMany(keys)
}

// InstanceByKey returns the item for key.
func (s *Selector) InstanceByKey(key string) (catalog.Item, bool) {
	return s.catalog.Lookup(key)
}

// Summary renders the collapsed value: "All instances", per-component
// counts such as "1 PD, 2 TiKV", or "" when nothing is selected.
func (s *Selector) Summary() string {
	keys := s.bridge.Value()
	if s.catalog.Len() == 0 || len(keys) == 0 {
		return ""
	}
	if s.store.AllSelected() {
		return "All instances"
	}
	counts := make(map[string]int)
	for _, it := range s.catalog.LookupMany(keys) {
		if it.Key != "" {
			counts[it.Attr(topology.AttrComponent)]++
		}
	}
	var parts []string
	for _, c := range topology.Components {
		if n := counts[string(c)]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, c.DisplayName()))
		}
	}
	return strings.Join(parts, ", ")
}

func (s *Selector) frozen() bool {
	return s.loading || s.err != nil
}

func (s *Selector) push(value []string) {
	if s.opts.OnChange != nil {
		s.opts.OnChange(value)
	}
}
