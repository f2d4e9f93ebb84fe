package vars

import "maps"

// Set is a set of values, treated as immutable: With and Without return a
// modified copy, or the receiver itself when nothing changes.
type Set[T comparable] map[T]struct{}

func SetOf[T comparable](values ...T) Set[T] {
	s := make(Set[T], len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

func (s Set[T]) Len() int {
	return len(s)
}

func (s Set[T]) With(v T) Set[T] {
	if s.Has(v) {
		return s
	}

	next := make(Set[T], len(s)+1)
	maps.Copy(next, s)
	next[v] = struct{}{}
	return next
}

func (s Set[T]) Without(v T) Set[T] {
	if !s.Has(v) {
		return s
	}

	next := maps.Clone(s)
	delete(next, v)
	return next
}

// Values returns the elements in no particular order.
func (s Set[T]) Values() []T {
	out := make([]T, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	return out
}
