package catalog

import "fmt"

// Item is a single selectable entity. Key is the stable identity; Label is
// what the user reads. Attrs carries domain attributes (component, status,
// address) that matchers and renderers may consult.
type Item struct {
	Key   string
	Label string
	Attrs map[string]string
}

// Attr returns the named attribute, or "" if it is not set.
func (it Item) Attr(name string) string {
	return it.Attrs[name]
}

// DuplicateKeyError is returned by Rebuild when two input items share a key.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate catalog key %q", e.Key)
}

// Catalog is an immutable, ordered snapshot of items with a key index built
// alongside it. Catalogs are replaced wholesale, never patched.
type Catalog struct {
	items []Item
	index map[string]int
}

var empty = &Catalog{index: map[string]int{}}

// Empty returns the empty catalog. During a loading window it stands for
// "not yet known", not "zero items".
func Empty() *Catalog {
	return empty
}

// Rebuild builds a new catalog snapshot from items. The input slice is copied.
// If two items share a key, Rebuild returns a *DuplicateKeyError and no
// catalog; the caller keeps whatever catalog it had before.
func Rebuild(items []Item) (*Catalog, error) {
	if len(items) == 0 {
		return empty, nil
	}
	c := &Catalog{
		items: make([]Item, len(items)),
		index: make(map[string]int, len(items)),
	}
	for i, it := range items {
		if _, dup := c.index[it.Key]; dup {
			return nil, &DuplicateKeyError{Key: it.Key}
		}
		c.index[it.Key] = i
		c.items[i] = it
	}
	return c, nil
}

// Items returns the items in catalog order. Callers must not modify the
// returned slice.
func (c *Catalog) Items() []Item {
	if c == nil {
		return nil
	}
	return c.items
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Keys returns all keys in catalog order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, c.Len())
	for _, it := range c.Items() {
		keys = append(keys, it.Key)
	}
	return keys
}

// Has reports whether key is present.
func (c *Catalog) Has(key string) bool {
	_, ok := c.Index(key)
	return ok
}

// Index returns the position of key in catalog order.
func (c *Catalog) Index(key string) (int, bool) {
	if c == nil {
		return 0, false
	}
	i, ok := c.index[key]
	return i, ok
}

// Lookup returns the item with the given key.
func (c *Catalog) Lookup(key string) (Item, bool) {
	i, ok := c.Index(key)
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// LookupMany returns the items for keys, positionally aligned with keys.
// Missing keys yield a zero Item.
func (c *Catalog) LookupMany(keys []string) []Item {
	out := make([]Item, len(keys))
	for i, k := range keys {
		out[i], _ = c.Lookup(k)
	}
	return out
}

// Order returns the keys from keys that exist in the catalog, in catalog
// order, without duplicates. The result is never nil.
func (c *Catalog) Order(keys []string) []string {
	if c.Len() == 0 || len(keys) == 0 {
		return []string{}
	}
	present := make([]bool, c.Len())
	for _, k := range keys {
		if i, ok := c.Index(k); ok {
			present[i] = true
		}
	}
	out := make([]string, 0, len(keys))
	for i, ok := range present {
		if ok {
			out = append(out, c.items[i].Key)
		}
	}
	return out
}

// SameKeys reports whether c and other hold the same keys in the same order.
func (c *Catalog) SameKeys(other *Catalog) bool {
	if c.Len() != other.Len() {
		return false
	}
	for i, it := range c.Items() {
		if other.items[i].Key != it.Key {
			return false
		}
	}
	return true
}
