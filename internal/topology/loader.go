package topology

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Loader tracks a set of named sources. Each source carries a generation
// counter so that overlapping requests may complete in any order: only the
// most recent request for a source is allowed to land.
//
// A failed fetch marks its source as loaded with no instances; callers only
// ever observe "still loading" or "loaded".
type Loader struct {
	mu      sync.Mutex
	sources map[string]Source
	gen     map[string]uint64
	loading map[string]bool
	parts   map[string]Snapshot
	errs    map[string]error
}

// NewLoader creates a loader over sources. Every source starts out loading.
func NewLoader(sources map[string]Source) *Loader {
	l := &Loader{
		sources: sources,
		gen:     make(map[string]uint64, len(sources)),
		loading: make(map[string]bool, len(sources)),
		parts:   make(map[string]Snapshot, len(sources)),
		errs:    make(map[string]error, len(sources)),
	}
	for name := range sources {
		l.loading[name] = true
	}
	return l
}

// Names returns the source names in a stable order.
func (l *Loader) Names() []string {
	names := make([]string, 0, len(l.sources))
	for name := range l.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Begin marks name as loading and returns the generation of the new request.
func (l *Loader) Begin(name string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen[name]++
	l.loading[name] = true
	return l.gen[name]
}

// Resolve lands the result of request gen for name. It returns false, and
// changes nothing, when a newer request for name has begun since.
func (l *Loader) Resolve(name string, gen uint64, part Snapshot, err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen[name] {
		return false
	}
	l.loading[name] = false
	if err != nil {
		part = Snapshot{}
	}
	l.parts[name] = part
	l.errs[name] = err
	return true
}

// Disabled reports whether any source is still loading.
func (l *Loader) Disabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.anyLoading()
}

// Snapshot returns the merged topology and whether any source is still
// loading. While loading the snapshot is empty.
func (l *Loader) Snapshot() (Snapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.anyLoading() {
		return Snapshot{}, true
	}
	var merged Snapshot
	for _, name := range l.Names() {
		merged = merged.Merge(l.parts[name])
	}
	return merged, false
}

// anyLoading must be called with mu held.
func (l *Loader) anyLoading() bool {
	for _, v := range l.loading {
		if v {
			return true
		}
	}
	return false
}

// Err returns the last fetch error recorded for name, if any.
func (l *Loader) Err(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errs[name]
}

// Refresh fetches every source concurrently and returns the merged snapshot.
// It returns ctx's error if ctx is cancelled before all sources land.
func (l *Loader) Refresh(ctx context.Context) (Snapshot, bool, error) {
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range l.Names() {
		src := l.sources[name]
		gen := l.Begin(name)
		g.Go(func() error {
			part, err := src.Fetch(gctx)
			l.Resolve(name, gen, part, err)
			// Fetch errors are loaded-empty; only cancellation fails the group.
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return Snapshot{}, true, err
	}
	snap, loading := l.Snapshot()
	return snap, loading, nil
}
