package collections

import (
	"fmt"
	"slices"
)

// Set is a generic set data structure using a map with zero-size values
type Set[T comparable] map[T]struct{}

// NewSet creates a new Set with the given initial values
func NewSet[T comparable](vs ...T) Set[T] {
	s := Set[T]{}
	s.Add(vs...)
	return s
}

// Add adds one or more values to the set
func (s Set[T]) Add(vs ...T) {
	for _, v := range vs {
		s[v] = struct{}{}
	}
}

// Has checks if the set contains the given value
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Members returns all values in the set as a slice, in no particular order
func (s Set[T]) Members() []T {
	r := make([]T, 0, len(s))
	for v := range s {
		r = append(r, v)
	}
	return r
}

// String returns a string representation of the set
func (s Set[T]) String() string {
	return fmt.Sprintf("%v", s.Members())
}

// OrderedSet is a set that remembers the order values were first added in.
// The zero value is ready to use.
type OrderedSet[T comparable] struct {
	index map[T]struct{}
	order []T
}

// NewOrderedSet creates an OrderedSet holding vs, duplicates collapsed.
func NewOrderedSet[T comparable](vs ...T) *OrderedSet[T] {
	s := &OrderedSet[T]{}
	s.Add(vs...)
	return s
}

// Add appends values that are not yet members.
func (s *OrderedSet[T]) Add(vs ...T) {
	if s.index == nil {
		s.index = make(map[T]struct{}, len(vs))
	}
	for _, v := range vs {
		if _, ok := s.index[v]; ok {
			continue
		}
		s.index[v] = struct{}{}
		s.order = append(s.order, v)
	}
}

// Has checks if the set contains the given value
func (s *OrderedSet[T]) Has(v T) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[v]
	return ok
}

// Len returns the number of members.
func (s *OrderedSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Members returns a copy of the members in insertion order.
func (s *OrderedSet[T]) Members() []T {
	if s == nil {
		return nil
	}
	return slices.Clone(s.order)
}

// Clone returns an independent copy of the set.
func (s *OrderedSet[T]) Clone() *OrderedSet[T] {
	return NewOrderedSet(s.Members()...)
}
