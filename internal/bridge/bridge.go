// Package bridge keeps a selection store and an externally controlled value
// in step. External changes are echoed into the store without being pushed
// back out; store changes are pushed out through a setter exactly once.
package bridge

import (
	"github.com/ruminaider/dashpick/internal/catalog"
	"github.com/ruminaider/dashpick/internal/selection"
)

// State is the lifecycle state of a Bridge.
type State int

const (
	Uninitialized     State = iota // not mounted, or torn down
	AwaitingFirstLoad              // mounted, no usable catalog yet
	Ready                          // first catalog applied
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case AwaitingFirstLoad:
		return "awaiting-first-load"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Options configures a Bridge.
type Options struct {
	// DefaultSelectAll selects the whole universe on the first load when the
	// controlled value is empty. It applies at most once per mount.
	DefaultSelectAll bool
	// Setter receives every new controlled value originated by the store.
	Setter func(value []string)
}

// Bridge reconciles a selection.Store with a controlled value.
type Bridge struct {
	store *selection.Store
	opts  Options

	state   State
	value   []string
	echoing bool
}

// New creates a Bridge over store. The bridge does nothing until Mount.
func New(store *selection.Store, opts Options) *Bridge {
	return &Bridge{store: store, opts: opts}
}

// State returns the current lifecycle state.
func (b *Bridge) State() State {
	return b.state
}

// Value returns a copy of the current controlled value.
func (b *Bridge) Value() []string {
	return append([]string(nil), b.value...)
}

// Mount starts tracking initial as the controlled value and subscribes to
// the store. Mounting an already mounted bridge is a no-op.
func (b *Bridge) Mount(initial []string) {
	if b.state != Uninitialized {
		return
	}
	b.value = append([]string(nil), initial...)
	b.state = AwaitingFirstLoad
	b.store.OnChange(b.storeChanged)
}

// Unmount tears the bridge down and clears the store, so a later Mount
// starts from an empty selection. Loads and store changes arriving afterwards
// are ignored and nothing reaches the setter.
func (b *Bridge) Unmount() {
	if b.state == Uninitialized {
		return
	}
	b.state = Uninitialized
	b.store.OnChange(nil)
	b.store.SelectNone()
}

// ExternalValueChanged records a new controlled value from the owner. When the
// bridge is ready the store is reset to it. The reset is an echo and is not
// pushed back out.
func (b *Bridge) ExternalValueChanged(v []string) {
	if b.state == Uninitialized || equal(b.value, v) {
		return
	}
	b.value = append([]string(nil), v...)
	if b.state != Ready {
		return
	}
	b.echo(func() { b.store.Reset(b.value) })
}

// DataLoaded applies a new catalog. It is ignored while loading and while
// the catalog is empty. The first usable catalog moves the bridge to Ready
// and applies the controlled value, or default-select-all when the value is
// empty. Later catalogs only re-apply the current controlled value.
func (b *Bridge) DataLoaded(c *catalog.Catalog, loading bool) {
	if b.state == Uninitialized || loading || c.Len() == 0 {
		return
	}

	first := b.state == AwaitingFirstLoad
	b.state = Ready

	release := b.store.Suppress()
	defer release()

	b.store.SetUniverse(c)
	switch {
	case len(b.value) > 0:
		b.store.Reset(b.value)
	case first && b.opts.DefaultSelectAll:
		b.store.SelectAll()
	}
}

func (b *Bridge) echo(fn func()) {
	b.echoing = true
	defer func() { b.echoing = false }()
	release := b.store.Suppress()
	defer release()
	fn()
}

func (b *Bridge) storeChanged() {
	if b.state == Uninitialized || b.echoing {
		return
	}
	next := b.store.Selected()
	if equal(next, b.value) {
		return
	}
	b.value = next
	if b.opts.Setter != nil {
		b.opts.Setter(append([]string(nil), next...))
	}
}

// equal compares two key lists as sets; order carries no meaning in a
// controlled value.
func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, k := range a {
		seen[k]++
	}
	for _, k := range b {
		if seen[k] == 0 {
			return false
		}
		seen[k]--
	}
	return true
}
