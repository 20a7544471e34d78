package filter

import (
	"strings"

	"github.com/ruminaider/dashpick/internal/catalog"
)

// Matcher decides whether item matches a non-empty keyword.
type Matcher func(keyword string, item catalog.Item) bool

// Default matches keyword case-insensitively as a substring of the item's
// key or label.
func Default(keyword string, item catalog.Item) bool {
	kw := strings.ToLower(keyword)
	return contains(item.Key, kw) || contains(item.Label, kw)
}

// Attrs returns a Matcher that behaves like Default and additionally checks
// the named attributes.
func Attrs(names ...string) Matcher {
	return func(keyword string, item catalog.Item) bool {
		if Default(keyword, item) {
			return true
		}
		kw := strings.ToLower(keyword)
		for _, n := range names {
			if contains(item.Attr(n), kw) {
				return true
			}
		}
		return false
	}
}

// Filter narrows c to the items matching keyword, preserving catalog order.
// An empty keyword returns c.Items() itself. A nil matcher means Default.
func Filter(c *catalog.Catalog, keyword string, m Matcher) []catalog.Item {
	all := c.Items()
	if keyword == "" {
		return all
	}
	if m == nil {
		m = Default
	}
	var out []catalog.Item
	for _, it := range all {
		if m(keyword, it) {
			out = append(out, it)
		}
	}
	return out
}

// VisibleKeys returns the keys of a filtered item list.
func VisibleKeys(items []catalog.Item) []string {
	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, it.Key)
	}
	return keys
}

func contains(s, lowerKeyword string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), lowerKeyword)
}
