// Package variables indexes stylesheet variable declarations by canonical value.
package variables

import (
	"slices"
	"sort"

	"bennypowers.dev/cssa/internal/collections"
	"bennypowers.dev/cssa/internal/normalize"
)

// Entry is one declaration that made it into an index.
type Entry struct {
	// Name as usable in stylesheet text: "$primary", "@gap" or "var(--accent)"
	Name string `json:"name"`
	// Value is the declared value, trimmed, with flags and comments removed
	Value string `json:"value"`
	// Key is the canonical value the name is indexed under
	Key string `json:"key"`
	// File the declaration came from, empty for in-memory text
	File string `json:"file,omitempty"`
}

// Index maps canonical values to the names declared with them.
// An Index is never modified after Build or Merge returns it, so it can be
// shared between goroutines without locking.
type Index struct {
	names   map[string]*collections.OrderedSet[string]
	entries []Entry
}

// Empty returns an index without declarations.
func Empty() *Index {
	return &Index{names: map[string]*collections.OrderedSet[string]{}}
}

func (idx *Index) add(e Entry) {
	set, ok := idx.names[e.Key]
	if !ok {
		set = collections.NewOrderedSet[string]()
		idx.names[e.Key] = set
	}
	set.Add(e.Name)
	idx.entries = append(idx.entries, e)
}

// Names returns the names indexed under a canonical key, in declaration order.
func (idx *Index) Names(key string) []string {
	if idx == nil {
		return nil
	}
	return idx.names[key].Members()
}

// Lookup normalizes raw with the index policy and returns the matching names.
func (idx *Index) Lookup(raw string) []string {
	return idx.Names(normalize.Value(raw))
}

// Keys returns every canonical key, sorted.
func (idx *Index) Keys() []string {
	if idx == nil {
		return nil
	}
	keys := make([]string, 0, len(idx.names))
	for k := range idx.names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of distinct canonical keys.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.names)
}

// Entries returns every indexed declaration in the order it was read,
// including repeated names.
func (idx *Index) Entries() []Entry {
	if idx == nil {
		return nil
	}
	return slices.Clone(idx.entries)
}

// Merge returns a new index holding the declarations of idx followed by those of others.
func (idx *Index) Merge(others ...*Index) *Index {
	merged := Empty()
	for _, src := range append([]*Index{idx}, others...) {
		if src == nil {
			continue
		}
		for _, e := range src.entries {
			merged.add(e)
		}
	}
	return merged
}
